package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// ConfigureOptions holds options for the configure command.
type ConfigureOptions struct {
	APIKey  string
	BaseURL string
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand(root *Options) *cobra.Command {
	opts := &ConfigureOptions{}

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store the Postman API key",
		Long:  "Prompt for a Postman API key and write it to the config file. Pass --api-key to skip the prompt.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "Postman API key")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Postman API base URL")

	return cmd
}

func runConfigure(cmd *cobra.Command, root *Options, opts *ConfigureOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		key = cfg.Postman.APIKey
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Postman API key").
					Description("Create one under Settings > API keys in Postman").
					EchoMode(huh.EchoModePassword).
					Value(&key).
					Validate(validateAPIKey),
			),
		).WithTheme(huh.ThemeCharm())
		if err := form.Run(); err != nil {
			return fmt.Errorf("configuration cancelled: %w", err)
		}
		key = strings.TrimSpace(key)
	}
	if err := validateAPIKey(key); err != nil {
		return err
	}

	cfg.Postman.APIKey = key
	if opts.BaseURL != "" {
		cfg.Postman.BaseURL = strings.TrimSpace(opts.BaseURL)
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved configuration to %s\n", cfg.File())
	return nil
}

func validateAPIKey(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("API key cannot be empty")
	}
	return nil
}
