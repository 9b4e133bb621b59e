package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/db"
	"infinite-experiment/contactimport/internal/db/repositories"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/services"
)

type importOptions struct {
	file      string
	table     string
	driver    string
	dsn       string
	batchSize int
	dryRun    bool
	mappings  string
	format    string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a CSV file and load it into the destination store",
		Example: `  importctl import --file leads.csv --driver sqlite --dsn contacts.db --dry-run
  importctl import --file leads.csv --dsn "$PG_DSN" --mappings mapping.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runImport(ctx, cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV file to import")
	cmd.Flags().StringVarP(&opts.table, "table", "t", catalog.TableContacts, "destination table")
	cmd.Flags().StringVar(&opts.driver, "driver", envOr("DB_DRIVER", db.DriverPostgres), "postgres or sqlite")
	cmd.Flags().StringVar(&opts.dsn, "dsn", os.Getenv("IMPORT_DSN"), "destination connection string or sqlite path")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", dtos.DefaultBatchSize, "rows per chunk")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate and count without writing")
	cmd.Flags().StringVar(&opts.mappings, "mappings", "", "YAML mapping file used instead of the automatic mapping")
	cmd.Flags().StringVar(&opts.format, "format", formatYAML, "output format: yaml or json")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}

func runImport(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *importOptions) error {
	cat, err := root.loadCatalog()
	if err != nil {
		return err
	}

	gdb, err := db.OpenORM(opts.driver, opts.dsn)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	sx, err := db.WrapORM(gdb, opts.driver)
	if err != nil {
		return err
	}

	// the CLI exits before anyone could scrape, so a private registry is enough
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	svc := services.NewImportService(services.ImportServiceDeps{
		Catalog:   cat,
		Store:     repositories.NewRecordStore(gdb, sx, m),
		Runs:      repositories.NewImportRunRepo(gdb),
		Metrics:   m,
		BatchSize: opts.batchSize,
	})

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	analysis, src, err := svc.AnalyzeFile(f, sourceName(opts.file), opts.table)
	if err != nil {
		return err
	}

	mappings := analysis.Mapping.Mappings
	if opts.mappings != "" {
		if mappings, err = loadMappings(opts.mappings); err != nil {
			return err
		}
	}
	logging.Info("Starting import",
		"file", opts.file,
		"table", opts.table,
		"rows", analysis.TotalRows,
		"mappings", len(mappings),
		"dry_run", opts.dryRun,
	)

	result, err := svc.Transfer(ctx, src, dtos.TransferRequest{
		TargetTable: opts.table,
		Mappings:    mappings,
		BatchSize:   opts.batchSize,
		DryRun:      opts.dryRun,
		Subject:     cliSubject(),
	})
	if result != nil {
		if werr := writeOutput(cmd.OutOrStdout(), opts.format, result); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	if result.ErrorCount > 0 && result.SuccessCount == 0 {
		return fmt.Errorf("no rows were imported, %d failed", result.ErrorCount)
	}
	return nil
}

func cliSubject() string {
	name := "unknown"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return string(constants.RequestSourceCLI) + ":" + name
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
