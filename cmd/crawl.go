package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageharvest/harvester/internal/crawler"
)

func newCrawlCmd() *cobra.Command {
	var (
		outputDir string
		recursive bool
		maxDepth  int
		headful   bool
	)

	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl one seed URL and print the summary",
		Long: `Runs a single crawl invocation: the seed page is rendered, and with
--recursive its same-origin links are followed up to --depth. The summary
is printed as JSON; --output additionally writes report artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(cmd.Context(), headful)
			if err != nil {
				return err
			}
			defer rt.close()

			summary, err := rt.engine.Crawl(cmd.Context(), crawler.Request{
				SeedURL:   args[0],
				OutputDir: outputDir,
				Headful:   headful,
				Recursive: recursive,
				MaxDepth:  maxDepth,
			})
			if err != nil {
				return fmt.Errorf("crawl: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for report artifacts")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "follow same-origin links")
	cmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "maximum traversal depth (implies defaults from config when 0)")
	cmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")

	return cmd
}
