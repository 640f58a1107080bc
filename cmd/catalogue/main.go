package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tordrt/catalogue"
	"github.com/tordrt/catalogue/internal/config"
	"github.com/tordrt/catalogue/internal/formatter"
	"github.com/tordrt/catalogue/internal/knowledge"
	"github.com/tordrt/catalogue/internal/profiler"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Profile a layered data platform into a data catalogue",
		Long: `Catalogue reads every table of a layered data platform from a CSV directory,
SQLite, PostgreSQL or MySQL and writes a data catalogue: column statistics,
sensitivity classification with masked samples, business glossary, lineage
and a corpus-wide quality report.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./catalogue.yaml)")

	rootCmd.AddCommand(
		newProfileCmd(&cfgFile),
		newClassifyCmd(&cfgFile),
		newLineageCmd(&cfgFile),
		newVersionCmd(),
	)
	return rootCmd
}

func newProfileCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile every discovered table and write the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			return runProfile(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.FlagName(config.KeySource), "s", config.DefaultSource, "Source directory or csv://, sqlite://, postgres://, mysql:// URL")
	flags.StringP(config.FlagName(config.KeyOutputDir), "o", config.DefaultOutput, "Output directory")
	flags.StringP(config.FlagName(config.KeyFormat), "f", string(config.FormatJSON), "Output format: json, markdown or all")
	flags.IntP(config.FlagName(config.KeyWorkers), "w", runtime.NumCPU(), "Tables profiled concurrently")
	flags.String(config.FlagName(config.KeyLogLevel), "info", "Log level: debug, info, warn or error")
	flags.String(config.FlagName(config.KeyOrganization), config.DefaultCompany, "Company named in the quality report")
	flags.StringP(config.FlagName(config.KeyKnowledgeFile), "k", "", "YAML knowledge file (default: built-in rules)")
	flags.StringSliceP(config.FlagName(config.KeyLayers), "l", nil, "Layers to profile (comma-separated, default: all)")
	return cmd
}

func runProfile(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	kb, err := loadKnowledge(cfg.KnowledgeFile)
	if err != nil {
		return err
	}

	logger.Info("profiling source", "source", cfg.Source, "workers", cfg.Workers)
	res, err := catalogue.ProfileSource(ctx, cfg.Source, &catalogue.Options{
		Knowledge:    kb,
		Layers:       cfg.Layers,
		Workers:      cfg.Workers,
		Organization: cfg.Organization,
		Logger:       logger,
	})
	if errors.Is(err, profiler.ErrEmptyCorpus) && res != nil {
		return fmt.Errorf("no table could be profiled (%d missing, %d failed): %w", len(res.Missing), len(res.Failed), err)
	}
	if err != nil {
		return fmt.Errorf("failed to profile source: %w", err)
	}

	written, err := catalogue.WriteCatalogue(res.Catalogue, &catalogue.OutputOptions{
		OutputDir: cfg.OutputDir,
		JSON:      cfg.Format.JSON(),
		Markdown:  cfg.Format.Markdown(),
	})
	if err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}
	logger.Debug("catalogue written", "files", len(written), "output_dir", cfg.OutputDir)

	failed := make([]string, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, f.Error())
	}

	return formatter.NewSummaryFormatter(stdout).Format(formatter.Summary{
		Report:        res.Catalogue.Report,
		GlossaryTerms: len(res.Catalogue.Glossary),
		OutputDir:     cfg.OutputDir,
		Missing:       res.Missing,
		Failed:        failed,
	})
}

func newClassifyCmd(cfgFile *string) *cobra.Command {
	var knowledgeFile string

	cmd := &cobra.Command{
		Use:   "classify <column>...",
		Short: "Show the sensitivity level of column names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledgeFor(cmd, *cfgFile, knowledgeFile)
			if err != nil {
				return err
			}

			p := profiler.New(kb)
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Column", "Classification", "Business term"})
			for _, col := range args {
				term := ""
				if e, ok := kb.GlossaryEntry(col); ok {
					term = e.Term
				}
				t.AppendRow(table.Row{col, p.Classify(col), term})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&knowledgeFile, "knowledge-file", "k", "", "YAML knowledge file (default: built-in rules)")
	return cmd
}

func newLineageCmd(cfgFile *string) *cobra.Command {
	var knowledgeFile string

	cmd := &cobra.Command{
		Use:   "lineage [table]",
		Short: "Print the lineage graph, or one table's entry, as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledgeFor(cmd, *cfgFile, knowledgeFile)
			if err != nil {
				return err
			}

			var out any = kb.LineageGraph()
			if len(args) == 1 {
				entry, ok := kb.LineageEntry(args[0])
				if !ok {
					return fmt.Errorf("no lineage recorded for table %s", args[0])
				}
				out = entry
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&knowledgeFile, "knowledge-file", "k", "", "YAML knowledge file (default: built-in rules)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catalogue %s\n", version)
		},
	}
}

func loadConfig(cmd *cobra.Command, cfgFile string) (config.Config, error) {
	v, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	return config.Decode(v)
}

// knowledgeFor resolves the knowledge file from the flag, falling back to the
// config file and environment
func knowledgeFor(cmd *cobra.Command, cfgFile, flagValue string) (*knowledge.Base, error) {
	if flagValue != "" {
		return loadKnowledge(flagValue)
	}
	cfg, err := loadConfig(cmd, cfgFile)
	if err != nil {
		return nil, err
	}
	return loadKnowledge(cfg.KnowledgeFile)
}

func loadKnowledge(path string) (*knowledge.Base, error) {
	if path == "" {
		return knowledge.Default(), nil
	}
	kb, err := knowledge.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge file: %w", err)
	}
	return kb, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
