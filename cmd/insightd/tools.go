package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/emphasis"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/upstream"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/present"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <query>",
		Short: "Print the canonical form and hints of a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := query.Normalize(strings.Join(args, " "))
			out := struct {
				Normalized string       `json:"normalized"`
				Hints      []query.Hint `json:"hints"`
			}{n.Text(), n.Hints()}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newPresentCmd() *cobra.Command {
	var (
		file       string
		filterOnly bool
		plain      bool
	)
	cmd := &cobra.Command{
		Use:   "present",
		Short: "Render a saved ranking service response",
		Long: `present reads a ranking service response (JSON) from --file or stdin and
prints the structured view: summary, insights, companies, grounded
recommendations and matches.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file) //nolint:gosec // path comes from the operator
				if err != nil {
					return fmt.Errorf("open response: %w", err)
				}
				defer f.Close()
				in = f
			}

			var wire upstream.SearchResponse
			if err := json.NewDecoder(in).Decode(&wire); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			resp := wire.ToDomain()
			view := present.Build(resp, query.Normalize(resp.Query), mode.FromFlag(filterOnly))

			if plain {
				return writePlain(cmd.OutOrStdout(), &view)
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "response JSON file (default stdin)")
	cmd.Flags().BoolVar(&filterOnly, "filter-only", false, "treat the response as a filter-only search")
	cmd.Flags().BoolVar(&plain, "plain", false, "print text with emphasis markers stripped")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePlain(w io.Writer, v *present.View) error {
	var b strings.Builder
	line := func(t present.Text) {
		b.WriteString(emphasis.PlainText(t))
		b.WriteByte('\n')
	}
	section := func(title string, items []present.Text) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + title + ":\n")
		for _, t := range items {
			b.WriteString("  - ")
			line(t)
		}
	}

	if v.IsFallback() {
		line(v.Fallback)
	} else if len(v.Summary) > 0 {
		line(v.Summary)
	}
	section("Insights", v.Insights)
	section("Companies", v.Companies)
	section("Recommendations", v.Recommendations)
	section("Recommendations", v.LegacyRecommendations)

	if len(v.Matches) > 0 {
		fmt.Fprintf(&b, "\nMatches (%d of %d):\n", len(v.Matches), v.Total)
		for i := range v.Matches {
			m := &v.Matches[i]
			fmt.Fprintf(&b, "  %.2f  %-10s %s\n", m.Score, m.Type, emphasis.PlainText(m.Name))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
