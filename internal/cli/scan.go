package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/piitier/internal/logger"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/pipeline"
	"github.com/ppiankov/piitier/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// requestFlags are the detection options shared by scan and batch
type requestFlags struct {
	entities []string
	country  string
	mapping  string
	prompt   string
	llm      bool
	noColor  bool
	timeout  time.Duration
}

func (f *requestFlags) register(cmd *cobra.Command, timeout time.Duration) {
	cmd.Flags().StringSliceVarP(&f.entities, "entities", "e", nil, "entity types to detect (default: all, or the country's)")
	cmd.Flags().StringVar(&f.country, "country", "", "restrict detection to global plus this country's types")
	cmd.Flags().StringVar(&f.mapping, "category-mapping", "", `JSON object of entity type to LLM category, e.g. '{"PERSON":"PRIVATE"}'`)
	cmd.Flags().StringVar(&f.prompt, "prompt", "", "extra instruction for the LLM")
	cmd.Flags().BoolVar(&f.llm, "llm", false, "also categorize with the configured LLM")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored output")
	cmd.Flags().DurationVar(&f.timeout, "timeout", timeout, "overall timeout")
}

func (f *requestFlags) request(cfg *model.Config) (pipeline.Request, error) {
	country := f.country
	if country == "" {
		country = cfg.Detection.Country
	}
	useLLM := f.llm || cfg.LLM.Enabled
	cfg.LLM.Enabled = useLLM
	return pipeline.NewRequest(f.entities, country, f.mapping, f.prompt, useLLM)
}

// setup loads config, the logger and the processor for a run
func setup(ctx context.Context, flags *requestFlags) (*model.Config, *logger.Logger, *pipeline.Processor, pipeline.Request, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, nil, pipeline.Request{}, err
	}
	req, err := flags.request(cfg)
	if err != nil {
		return nil, nil, nil, pipeline.Request{}, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, pipeline.Request{}, err
	}
	return cfg, log, pipeline.Build(ctx, cfg, log.Logger), req, nil
}

var (
	scanFlags requestFlags
	scanJSON  string
)

var scanCmd = &cobra.Command{
	Use:   "scan <file|url>",
	Short: "Detect and tier PII in a single document",
	Long: `Scan reads one document (text, HTML or PDF file, or an http(s) URL),
detects PII, buckets entity types by sensitivity tier and prints the verdict.

Example:
  piitier scan statement.pdf
  piitier scan kyc.html --country India --json report.json
  piitier scan form.txt --entities IN_AADHAR,IN_PAN --llm --prompt "also engine numbers"`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanFlags.register(scanCmd, 2*time.Minute)
	scanCmd.Flags().StringVar(&scanJSON, "json", "", `write the JSON report to this path ("-" for stdout)`)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), scanFlags.timeout)
	defer cancel()

	cfg, log, processor, req, err := setup(ctx, &scanFlags)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loader := source.NewLoader(cfg.Source, log.Named("source"))
	results := pipeline.NewRunner(loader, processor, req).RunInputs(ctx, args, 1)
	result := results[0]

	renderer := pipeline.NewRenderer(cmd.OutOrStdout(), verbose, scanFlags.noColor)
	switch scanJSON {
	case "":
		renderer.RenderSummary(result)
	case "-":
		if err := pipeline.WriteJSON(cmd.OutOrStdout(), result); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	default:
		renderer.RenderSummary(result)
		if err := renderer.RenderJSON(result, scanJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", scanJSON)
		}
	}

	if err := result.GetError(); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return nil
}
