package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tripbuilder/internal/pagemanager"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pages with their snippet counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			store, db, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			manager := pagemanager.New(store, nil, logger)
			summaries, err := manager.Summaries(ctx)
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pages found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSNIPPETS\tACTIVE\tDESCRIPTION")
			for _, s := range summaries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n",
					s.Page.ID, s.Page.Name, s.SnippetCount, s.ActiveCount, s.Page.Description)
			}
			return w.Flush()
		},
	}
}
