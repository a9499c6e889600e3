package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/solera-market/solera/internal/service"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Inspect CMS pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all pages including unpublished drafts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _, err := openDB()
		if err != nil {
			return err
		}

		pages, err := service.NewPageService(database).List()
		if err != nil {
			return fmt.Errorf("failed to list pages: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tTITLE\tCATEGORY\tPUBLISHED")
		for _, p := range pages {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", p.Slug, p.Title, p.Category, p.Published)
		}
		return w.Flush()
	},
}

func init() {
	pagesCmd.AddCommand(pagesListCmd)
}
