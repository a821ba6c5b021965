// Package cli implements the louslist command-line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

const defaultHost = "http://localhost:6000"

// Execute runs the CLI.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == outputJSON {
			errObj := map[string]any{
				"error": err.Error(),
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
			}
			_ = PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host    string
		output  string
		profile string
	)

	client := NewClient(defaultHost)

	rootCmd := &cobra.Command{
		Use:           "louslist",
		Short:         "Lou's List course data CLI",
		Long:          "Command-line client for the Lou's List course listing service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Config file is optional
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = defaultUserConfig()
			}
			p, err := cfg.ActiveProfile(profile)
			if err != nil {
				return err
			}

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("LOUSLIST_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("output") {
				switch {
				case os.Getenv("LOUSLIST_OUTPUT") != "":
					output = os.Getenv("LOUSLIST_OUTPUT")
				case p.Output != "":
					output = p.Output
				default:
					output = defaultOutputFormat(cmd.OutOrStdout())
				}
			}

			if err := validateOutputFormat(output); err != nil {
				return err
			}
			if err := validateHostURL(host); err != nil {
				return err
			}
			client.BaseURL = host
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", defaultHost, "Server URL")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")

	rootCmd.AddCommand(newFetchCmd(client))
	rootCmd.AddCommand(newHistoryCmd(client))
	rootCmd.AddCommand(newDataCmd(client))
	rootCmd.AddCommand(newDownloadCmd(client))
	rootCmd.AddCommand(newSearchCmd(client))

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCommandsCmd())

	// Shell completions
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
