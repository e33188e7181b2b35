package analysis

import (
	"time"

	"github.com/KaramelBytes/strokeprep/internal/prep"
	"github.com/KaramelBytes/strokeprep/internal/utils"
)

// RunSummary is the machine-readable record of one pipeline run.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Input      string        `json:"input"`
	Output     string        `json:"output"`
	RowsIn     int           `json:"rows_in"`
	RowsOut    int           `json:"rows_out"`
	ColumnsOut []string      `json:"columns_out"`
	Missing    []MissingStat `json:"missing_before_clean"`
	Pipeline   *prep.Result  `json:"pipeline,omitempty"`
	Charts     []string      `json:"charts,omitempty"`
}

// WriteRunSummary writes s as indented JSON to path.
func WriteRunSummary(path string, s RunSummary) error {
	b, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
