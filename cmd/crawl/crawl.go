// Package crawl implements the crawl command that runs one full
// extraction of both registry sources.
package crawl

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/opendatamd/regcrawl/cmd/common"
	"github.com/opendatamd/regcrawl/internal/config"
	"github.com/opendatamd/regcrawl/internal/entity"
	"github.com/opendatamd/regcrawl/internal/registry"
)

// Command returns the crawl command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl of the company and non-profit registries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := common.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer log.Sync()

			crawler, err := common.NewCrawler(cfg, log)
			if err != nil {
				return err
			}
			defer crawler.Close()

			summary, err := crawler.Run(cmd.Context())
			if err != nil {
				return err
			}
			renderSummary(summary)
			return nil
		},
	}
}

// renderSummary prints per-schema emission counts as a table.
func renderSummary(summary *registry.Summary) {
	schemas := make([]string, 0, len(summary.Counts))
	for schema := range summary.Counts {
		schemas = append(schemas, string(schema))
	}
	sort.Strings(schemas)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Schema", "Emitted"})
	for _, schema := range schemas {
		t.AppendRow(table.Row{schema, summary.Counts[entity.Schema(schema)]})
	}
	t.AppendFooter(table.Row{"Total", summary.Total})
	t.Render()

	fmt.Printf("Run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
}
