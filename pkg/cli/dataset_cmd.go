package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"louslist/internal/domain"
)

func newFetchCmd(client *Client) *cobra.Command {
	var term string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh the cached dataset from the upstream listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if term != "" {
				q.Set("term", term)
			}
			var summary domain.FetchSummary
			if err := client.GetJSON(cmd.Context(), "/fetch", q, &summary); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			columns := []string{"term", "rows", "date range", "location"}
			rows := [][]string{{summary.Term, strconv.Itoa(summary.RowCount), summary.DateRange, summary.FilePath}}
			switch getOutputFormat(cmd) {
			case outputJSON:
				return PrintJSON(out, summary)
			case outputCSV:
				return PrintCSV(out, columns, rows)
			default:
				_, _ = fmt.Fprintln(out, summary.Message)
				PrintTable(out, columns, rows)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&term, "term", "", "Semester code (server default when empty)")
	return cmd
}

func newHistoryCmd(client *Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent fetch attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if cmd.Flags().Changed("limit") {
				q.Set("limit", strconv.Itoa(limit))
			}
			var resp struct {
				History []domain.FetchRecord `json:"history"`
			}
			if err := client.GetJSON(cmd.Context(), "/fetch/history", q, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(out, resp.History)
			}
			columns := []string{"created", "term", "status", "rows", "duration", "location", "error"}
			rows := make([][]string, 0, len(resp.History))
			for _, rec := range resp.History {
				rows = append(rows, []string{
					rec.CreatedAt.Format(time.RFC3339),
					rec.Term,
					rec.Status,
					strconv.FormatInt(rec.RowCount, 10),
					(time.Duration(rec.DurationMs) * time.Millisecond).String(),
					rec.Location,
					deref(rec.ErrorMessage),
				})
			}
			if getOutputFormat(cmd) == outputCSV {
				return PrintCSV(out, columns, rows)
			}
			PrintTable(out, columns, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records")
	return cmd
}

func newDataCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Print the cached dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch getOutputFormat(cmd) {
			case outputJSON:
				body, err := client.Get(cmd.Context(), "/data", nil)
				if err != nil {
					return err
				}
				return printIndentedJSON(out, body)
			case outputCSV:
				body, err := client.Get(cmd.Context(), "/getcsv", nil)
				if err != nil {
					return err
				}
				_, err = out.Write(body)
				return err
			default:
				body, err := client.Get(cmd.Context(), "/getcsv", nil)
				if err != nil {
					return err
				}
				_, err = PrintCSVAsTable(out, body)
				return err
			}
		},
	}
}

func newDownloadCmd(client *Client) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the cached dataset as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := client.Get(cmd.Context(), "/getcsv", nil)
			if err != nil {
				return err
			}
			if file == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(file, body, 0o644); err != nil { //nolint:gosec // user-selected output file
				return fmt.Errorf("write %s: %w", file, err)
			}
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(cmd.OutOrStdout(), map[string]any{
					"path":  file,
					"bytes": len(body),
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", len(body), file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data.csv", "Destination file, or - for stdout")
	return cmd
}

// printIndentedJSON re-indents a JSON body without decoding it, so object
// key order from the server is kept.
func printIndentedJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
