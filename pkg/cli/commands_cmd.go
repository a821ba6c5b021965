package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandEntry describes one leaf command of the CLI.
type CommandEntry struct {
	Path  string      `json:"path"`
	Short string      `json:"short"`
	Args  string      `json:"args,omitempty"`
	Flags []FlagEntry `json:"flags,omitempty"`
}

// FlagEntry describes one local flag of a command.
type FlagEntry struct {
	Name     string `json:"name"`
	Short    string `json:"shorthand,omitempty"`
	Type     string `json:"type"`
	Default  string `json:"default,omitempty"`
	Usage    string `json:"usage,omitempty"`
	Required bool   `json:"required,omitempty"`
}

func newCommandsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List every CLI command with its flags",
		Long:  "Walks the command tree and lists each command with its arguments and flags. No server is contacted.",
		Example: `  louslist commands
  louslist commands --filter search --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := walkCommands(cmd.Root(), "")
			if filter != "" {
				needle := strings.ToLower(filter)
				kept := entries[:0]
				for _, e := range entries {
					if strings.Contains(strings.ToLower(e.Path+" "+e.Short), needle) {
						kept = append(kept, e)
					}
				}
				entries = kept
			}

			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(out, entries)
			}
			columns := []string{"path", "args", "description"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Path, e.Args, e.Short})
			}
			if getOutputFormat(cmd) == outputCSV {
				return PrintCSV(out, columns, rows)
			}
			PrintTable(out, columns, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Substring match on command path and description")
	return cmd
}

// walkCommands collects the leaf commands below cmd, depth first.
func walkCommands(cmd *cobra.Command, parentPath string) []CommandEntry {
	var entries []CommandEntry
	for _, child := range cmd.Commands() {
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}
		path := child.Name()
		if parentPath != "" {
			path = parentPath + " " + child.Name()
		}
		if child.HasSubCommands() {
			entries = append(entries, walkCommands(child, path)...)
			continue
		}

		var args string
		if use := strings.Fields(child.Use); len(use) > 1 {
			args = strings.Join(use[1:], " ")
		}
		entries = append(entries, CommandEntry{
			Path:  path,
			Short: child.Short,
			Args:  args,
			Flags: collectFlags(child.LocalFlags()),
		})
	}
	return entries
}

func collectFlags(fs *pflag.FlagSet) []FlagEntry {
	var flags []FlagEntry
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		entry := FlagEntry{
			Name:    f.Name,
			Short:   f.Shorthand,
			Type:    f.Value.Type(),
			Default: f.DefValue,
			Usage:   f.Usage,
		}
		if ann, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; ok && len(ann) > 0 && ann[0] == "true" {
			entry.Required = true
		}
		flags = append(flags, entry)
	})
	return flags
}
