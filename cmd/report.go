package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/strokeprep/internal/analysis"
	"github.com/KaramelBytes/strokeprep/internal/table"
	"github.com/spf13/cobra"
)

var (
	repDelimiter string
	repSheet     string
	repHeadRows  int
	repOutput    string
)

var reportCmd = &cobra.Command{
	Use:   "report <files...>",
	Short: "Print a summary of CSV/TSV/XLSX files: dtypes, missing values and head rows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt := table.LoadOptions{Sheet: repSheet}
		switch repDelimiter {
		case "":
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", repDelimiter)
		}
		head := repHeadRows
		if !cmd.Flags().Changed("head") {
			if c, err := currentConfig(); err == nil {
				head = c.HeadRows
			}
		}

		var parts []string
		for i, path := range files {
			if len(files) > 1 {
				fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i+1, len(files), path)
			}
			t, err := table.Load(path, opt)
			if err != nil {
				return err
			}
			parts = append(parts, analysis.Summarize(path, t, head).Text("")+"\n"+analysis.CorrText(analysis.Correlations(t), 5))
		}
		text := strings.Join(parts, "\n")
		if repOutput != "" {
			if err := os.WriteFile(repOutput, []byte(text), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", repOutput)
			return nil
		}
		fmt.Print(text)
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path; a missing file surfaces as a load error
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&repDelimiter, "delimiter", "", "CSV delimiter: ',', ';' or 'tab' (default: by extension)")
	reportCmd.Flags().StringVar(&repSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	reportCmd.Flags().IntVar(&repHeadRows, "head", 10, "number of rows to preview")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write the report to a file instead of stdout")
}
