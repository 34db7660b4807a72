// Package file provides file-based configuration loading.
// Configuration is read from a TOML file and overlaid onto the built-in
// defaults; a missing file is not an error.
package file
