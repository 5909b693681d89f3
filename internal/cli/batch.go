package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/piitier/internal/pipeline"
	"github.com/ppiankov/piitier/internal/source"
	"github.com/ppiankov/piitier/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchFlags requestFlags
	outputDir  string
	inputList  string
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir|file|url]...",
	Short: "Detect and tier PII in many documents in parallel",
	Long: `Batch processes documents concurrently and writes one JSON report per
document plus a combined summary.

Arguments may be files, URLs or directories (searched recursively for
supported formats). --from-file reads one path or URL per line.

Example:
  piitier batch ./scans
  piitier batch --from-file inputs.txt --workers 8 --output-dir ./reports
  piitier batch a.pdf b.html https://example.com/form.pdf --country India`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.register(batchCmd, 30*time.Minute)
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./piitier-reports", "output directory for reports (empty to skip)")
	batchCmd.Flags().StringVar(&inputList, "from-file", "", "read inputs from this file, one per line")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputs, err := collectInputs(args, inputList)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs: pass files, directories, URLs or --from-file")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchFlags.timeout)
	defer cancel()

	cfg, log, processor, req, err := setup(ctx, &batchFlags)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fmt.Fprintf(os.Stderr, "Processing %d documents with %d workers\n\n", len(inputs), cfg.Concurrency.Workers)

	loader := source.NewLoader(cfg.Source, log.Named("source"))
	start := time.Now()
	results := pipeline.NewRunner(loader, processor, req).RunInputs(ctx, inputs, cfg.Concurrency.Workers)

	renderer := pipeline.NewRenderer(cmd.OutOrStdout(), verbose, batchFlags.noColor)
	renderer.RenderSummary(results...)

	if outputDir != "" {
		if err := writeReports(renderer, results, outputDir); err != nil {
			return err
		}
	}

	totals := pipeline.Totals(results)
	fmt.Fprintf(os.Stderr, "\nBatch complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  Total:         %d\n", len(results))
	for _, key := range []string{"Confidential", "Private", "Restricted", "Public", "error"} {
		if n := totals[key]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-14s %d\n", key+":", n)
		}
	}
	if outputDir != "" {
		fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputDir)
	}

	if totals["error"] == len(results) {
		return fmt.Errorf("all %d documents failed", len(results))
	}
	return nil
}

// collectInputs expands directories and the list file, keeping order and
// dropping duplicates
func collectInputs(args []string, listFile string) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	add := func(in string) {
		if !seen[in] {
			seen[in] = true
			inputs = append(inputs, in)
		}
	}

	if listFile != "" {
		listed, err := worker.ReadInputsFromFile(listFile)
		if err != nil {
			return nil, err
		}
		for _, in := range listed {
			add(in)
		}
	}

	for _, arg := range args {
		if source.IsURL(arg) {
			add(arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := source.FormatForPath(path); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return inputs, nil
}

func writeReports(r *pipeline.Renderer, results []*pipeline.Result, dir string) error {
	used := make(map[string]int)
	for _, res := range results {
		if res.Document == nil {
			continue
		}
		name := reportName(res.Document.FileName)
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		if err := r.RenderJSON(res, filepath.Join(dir, name+".json")); err != nil {
			return err
		}
	}
	return r.RenderJSON(results, filepath.Join(dir, "summary.json"))
}

// reportName turns a document name into a safe file stem
func reportName(fileName string) string {
	name := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		case ' ':
			return '-'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "document"
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
