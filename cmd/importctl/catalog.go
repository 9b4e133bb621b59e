package main

import (
	"github.com/spf13/cobra"

	"infinite-experiment/contactimport/internal/services"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List destination tables and their validation rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}
			svc := services.NewImportService(services.ImportServiceDeps{Catalog: cat})
			return writeOutput(cmd.OutOrStdout(), format, svc.Catalog())
		},
	}

	cmd.Flags().StringVar(&format, "format", formatYAML, "output format: yaml or json")
	return cmd
}
