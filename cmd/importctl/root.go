package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/models/dtos"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type rootOptions struct {
	catalogFile string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "importctl",
		Short:         "Analyse CSV exports and load them into the contact catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initCLILogger(cmd.ErrOrStderr(), opts.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", os.Getenv("CATALOG_FILE"), "YAML file overriding the destination catalog")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newImportCmd(opts),
		newCatalogCmd(opts),
		newTokenCmd(),
	)
	return cmd
}

// initCLILogger writes human readable logs to stderr so stdout stays machine readable
func initCLILogger(w io.Writer, verbose bool) error {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)

	logging.SetLogger(zap.New(core).Sugar())
	return nil
}

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(o.catalogFile)
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML, "":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

type mappingDocument struct {
	Mappings []dtos.FieldMapping `yaml:"mappings"`
	// Mapping accepts the full output of `importctl analyze` as is
	Mapping *dtos.MappingResult `yaml:"mapping"`
}

// loadMappings reads a YAML (or JSON) list of field mappings
func loadMappings(path string) ([]dtos.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}

	var doc mappingDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse mappings: %w", err)
	}

	mappings := doc.Mappings
	if len(mappings) == 0 && doc.Mapping != nil {
		mappings = doc.Mapping.Mappings
	}
	if len(mappings) == 0 {
		return nil, fmt.Errorf("%s has no mappings", path)
	}
	for i, m := range mappings {
		if m.SourceField == "" || m.TargetField == "" {
			return nil, fmt.Errorf("mapping %d needs sourceField and targetField", i)
		}
	}
	return mappings, nil
}
