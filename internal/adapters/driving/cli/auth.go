package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/idplens-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/idplens-cli/internal/docsource/gdrive"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorise access to external sources",
}

var authDriveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Authorise Google Drive access",
	Long: `Runs the OAuth authorisation flow for Google Drive. Visit the printed
URL, grant read-only access, and paste the authorisation code back.
The token is cached at the configured token path.`,
	RunE: runAuthDrive,
}

func init() {
	authCmd.AddCommand(authDriveCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthDrive(cmd *cobra.Command, _ []string) error {
	// Only the Drive section is needed; skip full service wiring.
	cfg, err := configfile.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	url, err := gdrive.AuthURL(cfg.Drive)
	if err != nil {
		return err
	}

	cmd.Println("Visit the following URL and grant access:")
	cmd.Println()
	cmd.Println("  " + url)
	cmd.Println()
	cmd.Print("Paste the authorisation code: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading authorisation code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorisation code provided")
	}

	if err := gdrive.Exchange(cmd.Context(), cfg.Drive, code); err != nil {
		return err
	}

	cmd.Println(successStyle.Render("Google Drive authorised."))
	return nil
}
