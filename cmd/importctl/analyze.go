package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/services"
)

type analyzeOptions struct {
	file       string
	table      string
	format     string
	assignment string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Infer the schema of a CSV file and propose a mapping",
		Example: `  importctl analyze --file leads.csv --table контакты
  importctl analyze --file leads.csv --format json > mapping.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}

			f, err := os.Open(opts.file)
			if err != nil {
				return err
			}
			defer f.Close()

			svc := services.NewImportService(services.ImportServiceDeps{Catalog: cat})
			res, src, err := svc.AnalyzeFile(f, sourceName(opts.file), opts.table)
			if err != nil {
				return err
			}

			if opts.assignment != "" && opts.assignment != services.AssignmentIndependent {
				if res.Mapping, err = svc.AnalyzeMapping(res.SourceSchema, opts.table, opts.assignment); err != nil {
					return err
				}
			}
			if len(res.Mapping.UnmappedColumns) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d of %d columns will not be imported: %s\n",
					len(res.Mapping.UnmappedColumns), len(src.Headers()), strings.Join(res.Mapping.UnmappedColumns, ", "))
			}
			return writeOutput(cmd.OutOrStdout(), opts.format, res)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV file to analyse")
	cmd.Flags().StringVarP(&opts.table, "table", "t", catalog.TableContacts, "destination table")
	cmd.Flags().StringVar(&opts.format, "format", formatYAML, "output format: yaml or json")
	cmd.Flags().StringVar(&opts.assignment, "assignment", services.AssignmentIndependent, "independent or exclusive")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
