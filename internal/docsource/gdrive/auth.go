package gdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// oauthConfig builds the OAuth2 config from the client credentials file.
func oauthConfig(cfg domain.DriveConfig) (*oauth2.Config, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("drive credentials path not set: %w", domain.ErrNotConfigured)
	}

	data, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("credentials file %s: %w", cfg.CredentialsPath, domain.ErrNotConfigured)
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	conf, err := google.ConfigFromJSON(data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return conf, nil
}

// AuthURL returns the URL the user must visit to authorise Drive access.
func AuthURL(cfg domain.DriveConfig) (string, error) {
	conf, err := oauthConfig(cfg)
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorisation code for a token and caches it at the
// configured token path.
func Exchange(ctx context.Context, cfg domain.DriveConfig, code string) error {
	conf, err := oauthConfig(cfg)
	if err != nil {
		return err
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorisation code: %w", err)
	}

	return saveToken(cfg.TokenPath, token)
}

// loadToken reads a cached OAuth token.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("token file %s (run the auth command first): %w", path, domain.ErrNotConfigured)
		}
		return nil, fmt.Errorf("reading token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return &token, nil
}

// saveToken writes the OAuth token with restricted permissions.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}
