package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"louslist/internal/domain"
)

func newSearchCmd(client *Client) *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find rows containing QUERY in any column",
		Long: "Find rows whose cells contain QUERY, case-insensitively.\n\n" +
			"With --preset, only the preset's columns are returned. Presets: " +
			strings.Join(domain.PresetNames(), ", ") + ".",
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			if strings.TrimSpace(query) == "" {
				return domain.ErrValidation("Query parameter is required.")
			}

			output := getOutputFormat(cmd)
			format := domain.FormatCSV
			if output == outputJSON {
				format = domain.FormatJSON
			}

			path, q, err := searchPath(preset, query, format)
			if err != nil {
				return err
			}
			body, err := client.Get(cmd.Context(), path, q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case outputJSON:
				return printIndentedJSON(out, body)
			case outputCSV:
				_, err = out.Write(body)
				return err
			default:
				n, err := PrintCSVAsTable(out, body)
				if err != nil {
					return err
				}
				if n == 0 {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No rows match %q\n", query)
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Column preset ("+strings.Join(domain.PresetNames(), "|")+")")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return domain.PresetNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// searchPath picks the server route for a search. Plain searches pass the
// query in the query string; presets use the advanced search route.
func searchPath(preset, query string, format domain.Format) (string, url.Values, error) {
	q := url.Values{}
	q.Set("format", string(format))
	if preset == "" {
		q.Set("query", query)
		return "/search", q, nil
	}
	if _, err := domain.PresetSearch(preset, query, format); err != nil {
		return "", nil, err
	}
	return "/advanced_search/" + url.PathEscape(preset) + "/" + url.PathEscape(query), q, nil
}
