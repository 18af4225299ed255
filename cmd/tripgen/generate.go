package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tripbuilder/internal/generator"
	"tripbuilder/internal/pagemanager"
)

func newGenerateCmd() *cobra.Command {
	var snippetTemplate, output string

	cmd := &cobra.Command{
		Use:   "generate <page-name>",
		Short: "Build a static page from its skeleton and active snippets",
		Long: `Build a static page. The skeleton <page-name>.skel is read from the
templates directory, every active snippet of the page is rendered through
the snippet template in snippet id order, and the result replaces the
marker line in the skeleton.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			store, db, settings, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			builder := generator.NewBuilder(store, logger, settings.TemplatesDir)
			manager := pagemanager.New(store, builder, logger)

			path, err := manager.Generate(ctx, generator.Request{
				PageName:        args[0],
				SnippetTemplate: snippetTemplate,
				OutputPath:      output,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&snippetTemplate, "snippet-template", "",
		"snippet template path (defaults to snippet.html in the templates directory)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"output path (defaults to the page name in the working directory)")
	return cmd
}
