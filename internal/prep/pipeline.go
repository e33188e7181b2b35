package prep

import (
	"fmt"

	"github.com/KaramelBytes/strokeprep/internal/table"
	"go.uber.org/zap"
)

// Result is the output of Run.
type Result struct {
	Table     *table.Table   `json:"-"`
	Clean     CleanReport    `json:"clean"`
	Caps      []CapResult    `json:"caps"`
	AgeGroups AgeGroupReport `json:"age_groups"`
}

// Run applies Clean, CapColumns and DeriveAgeGroups in order. The input table
// is not modified.
func Run(t *table.Table, opt Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("pipeline start", zap.Int("rows", t.Len()), zap.Int("columns", t.Width()))

	cleaned, crep, err := Clean(t, opt)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	logClean(log, crep, cleaned)

	caps, err := CapColumns(cleaned, opt)
	if err != nil {
		return nil, fmt.Errorf("cap outliers: %w", err)
	}
	for _, c := range caps {
		if c.Bounds == nil {
			log.Warn("no observations to cap", zap.String("column", c.Source))
			continue
		}
		log.Info("capped outliers",
			zap.String("column", c.Source),
			zap.String("target", c.Target),
			zap.Float64("lower", c.Bounds.Lower),
			zap.Float64("upper", c.Bounds.Upper),
			zap.Int("raised", c.Raised),
			zap.Int("lowered", c.Lowered),
		)
	}

	ag, err := DeriveAgeGroups(cleaned, opt)
	if err != nil {
		return nil, fmt.Errorf("derive age groups: %w", err)
	}
	if ag.Column == "" {
		log.Debug("age column absent, skipping age groups", zap.String("column", opt.AgeColumn))
	} else {
		log.Info("derived age groups", zap.Int("assigned", ag.Assigned), zap.Int("unassigned", ag.Unassigned))
	}

	return &Result{Table: cleaned, Clean: crep, Caps: caps, AgeGroups: ag}, nil
}

func logClean(log *zap.Logger, rep CleanReport, t *table.Table) {
	log.Info("cleaned table",
		zap.Strings("dropped", rep.DroppedColumns),
		zap.Int("duplicates_removed", rep.DuplicatesRemoved),
		zap.Int("rows", t.Len()),
		zap.Strings("categorized", rep.Categorized),
	)
	imp := rep.Imputation
	fields := []zap.Field{
		zap.String("column", imp.Column),
		zap.Int("from_group", imp.FromGroup),
		zap.Int("from_overall", imp.FromOverall),
	}
	for _, g := range SortedGroups(imp.GroupMedians) {
		fields = append(fields, zap.Float64("median_"+g, imp.GroupMedians[g]))
	}
	if imp.Overall != nil {
		fields = append(fields, zap.Float64("overall_median", *imp.Overall))
	}
	log.Info("imputed missing values", fields...)
	if imp.Unfilled > 0 {
		log.Warn("no observations to impute from", zap.String("column", imp.Column), zap.Int("unfilled", imp.Unfilled))
	}
	if rep.SentinelFilled > 0 || rep.SentinelAdded {
		log.Info("filled sentinel", zap.Int("filled", rep.SentinelFilled), zap.Bool("category_added", rep.SentinelAdded))
	}
}
