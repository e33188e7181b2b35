package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/strokeprep/internal/analysis"
	"github.com/KaramelBytes/strokeprep/internal/charts"
	cfgpkg "github.com/KaramelBytes/strokeprep/internal/config"
	"github.com/KaramelBytes/strokeprep/internal/logging"
	"github.com/KaramelBytes/strokeprep/internal/prep"
	"github.com/KaramelBytes/strokeprep/internal/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runInput    string
	runOutput   string
	runPlotsDir string
	runNoPlots  bool
	runSummary  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: report, clean, write CSV and render charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, runMode{report: true, charts: true})
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the dataset and write the CSV without report or charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, runMode{})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)
	addRunFlags(runCmd)
	addRunFlags(cleanCmd)
}

func addRunFlags(c *cobra.Command) {
	c.Flags().StringVarP(&runInput, "input", "i", "", "input CSV/XLSX (overrides input_path)")
	c.Flags().StringVarP(&runOutput, "output", "o", "", "cleaned CSV path (overrides output_path)")
	c.Flags().StringVar(&runPlotsDir, "plots-dir", "", "directory for chart images (overrides plots_dir)")
	c.Flags().BoolVar(&runNoPlots, "no-plots", false, "skip chart rendering")
	c.Flags().StringVar(&runSummary, "summary", "", "write a JSON run summary to this path")
}

// applyRunFlags copies flags the user set over the configuration.
func applyRunFlags(cmd *cobra.Command, c *cfgpkg.Global) cfgpkg.Global {
	out := *c
	f := cmd.Flags()
	if f.Changed("input") {
		out.InputPath = runInput
	}
	if f.Changed("output") {
		out.OutputPath = runOutput
	}
	if f.Changed("plots-dir") {
		out.PlotsDir = runPlotsDir
	}
	if f.Changed("no-plots") && runNoPlots {
		out.PlotsEnabled = false
	}
	if f.Changed("summary") {
		out.SummaryPath = runSummary
	}
	return out
}

type runMode struct {
	report bool
	charts bool
}

func runPipeline(cmd *cobra.Command, mode runMode) error {
	base, err := currentConfig()
	if err != nil {
		return err
	}
	c := applyRunFlags(cmd, base)
	if err := c.Validate(); err != nil {
		return err
	}
	if mode.charts && c.PlotsEnabled && !charts.ValidFormat(c.PlotFormat) {
		return fmt.Errorf("unsupported plot_format: %s", c.PlotFormat)
	}

	log, err := logging.New(debug, c.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	started := time.Now()

	raw, err := table.Load(c.InputPath, table.LoadOptions{Delimiter: c.DelimiterRune(), Sheet: c.Sheet})
	if err != nil {
		return err
	}
	log.Info("loaded dataset", zap.String("path", c.InputPath), zap.Int("rows", raw.Len()), zap.Int("columns", raw.Width()))

	before := analysis.Summarize(c.InputPath, raw, c.HeadRows)
	if mode.report {
		fmt.Println(before.Text("Original Data Preview"))
	}

	res, err := prep.Run(raw, prep.DefaultOptions(), log)
	if err != nil {
		return err
	}

	if err := table.WriteFile(c.OutputPath, res.Table); err != nil {
		return err
	}
	log.Info("wrote cleaned dataset", zap.String("path", c.OutputPath), zap.Int("rows", res.Table.Len()))
	fmt.Printf("✓ Wrote cleaned CSV to %s\n", c.OutputPath)

	if mode.report {
		after := analysis.Summarize(c.OutputPath, res.Table, c.HeadRows)
		fmt.Println()
		fmt.Println(after.Text("Cleaned Data Preview"))
		printInsights(res.Table)
	}

	var rendered []string
	if mode.charts && c.PlotsEnabled {
		copt := charts.DefaultOptions()
		copt.HistBins = c.HistBins
		sink := charts.FileSink{Dir: c.PlotsDir, Format: c.PlotFormat}
		rendered, err = charts.RenderAll(res.Table, copt, sink)
		if err != nil {
			return fmt.Errorf("render charts: %w", err)
		}
		log.Debug("rendered charts", zap.Strings("charts", rendered))
		fmt.Printf("✓ Rendered %d charts to %s\n", len(rendered), c.PlotsDir)
	}

	if c.SummaryPath != "" {
		sum := analysis.RunSummary{
			RunID:      runID,
			StartedAt:  started.UTC(),
			FinishedAt: time.Now().UTC(),
			Input:      c.InputPath,
			Output:     c.OutputPath,
			RowsIn:     raw.Len(),
			RowsOut:    res.Table.Len(),
			ColumnsOut: res.Table.Names(),
			Missing:    before.Missing,
			Pipeline:   res,
			Charts:     rendered,
		}
		if err := analysis.WriteRunSummary(c.SummaryPath, sum); err != nil {
			return fmt.Errorf("write run summary: %w", err)
		}
		fmt.Printf("✓ Wrote run summary to %s\n", c.SummaryPath)
	}
	return nil
}

// printInsights prints the aggregates behind the charts. Groups whose
// columns are absent are skipped.
func printInsights(t *table.Table) {
	opt := charts.DefaultOptions()
	sections := []struct {
		title, group, header string
		agg                  analysis.Agg
		sorted               bool
	}{
		{"Strokes by Gender", opt.GenderColumn, "Stroke Count", analysis.AggSum, false},
		{"Stroke Rate by Age Group", opt.AgeGroupColumn, "Stroke Rate", analysis.AggMean, false},
		{"Stroke Rate by Smoking Status", opt.SmokingColumn, "Stroke Rate", analysis.AggMean, true},
	}
	for _, s := range sections {
		if !t.Has(s.group) || !t.Has(opt.LabelColumn) {
			continue
		}
		g, err := analysis.GroupBy(t, s.group, opt.LabelColumn, s.agg)
		if err != nil {
			continue
		}
		if s.sorted {
			g = analysis.SortDesc(g)
		}
		fmt.Println(analysis.GroupText(s.title, s.header, g))
	}
	fmt.Println(analysis.CorrText(analysis.Correlations(t), 5))
}
