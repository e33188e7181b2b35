// Package prep implements the cleaning, outlier capping and feature
// derivation stages applied to the stroke dataset.
package prep

import "github.com/KaramelBytes/strokeprep/internal/stats"

// Options names the columns each stage works on and its parameters.
type Options struct {
	// IDColumn is dropped before de-duplication.
	IDColumn string
	// LabelColumn is never converted to a categorical.
	LabelColumn string
	// ImputeColumn is filled with the median of its GroupColumn group.
	ImputeColumn string
	GroupColumn  string
	// SentinelColumn has its nulls replaced by Sentinel.
	SentinelColumn string
	Sentinel       string
	// CapColumns are clipped to IQR fences into "<name><CapSuffix>".
	CapColumns    []string
	CapSuffix     string
	IQRMultiplier float64
	// AgeColumn is bucketed into AgeGroupColumn using AgeBins.
	AgeColumn      string
	AgeGroupColumn string
	AgeBins        Bins
}

// DefaultOptions returns the settings for the healthcare stroke dataset.
func DefaultOptions() Options {
	return Options{
		IDColumn:       "id",
		LabelColumn:    "stroke",
		ImputeColumn:   "bmi",
		GroupColumn:    "gender",
		SentinelColumn: "smoking_status",
		Sentinel:       "Unknown",
		CapColumns:     []string{"avg_glucose_level", "bmi"},
		CapSuffix:      "_capped",
		IQRMultiplier:  stats.DefaultIQRMultiplier,
		AgeColumn:      "age",
		AgeGroupColumn: "age_group",
		AgeBins:        AgeBins(),
	}
}
