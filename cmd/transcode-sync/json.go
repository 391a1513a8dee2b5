package main

import (
	"encoding/json"
	"os"

	"github.com/sschindler/transcode-sync/pkg/executor"
	"github.com/sschindler/transcode-sync/pkg/planner"
)

// PlanResult is the machine-readable form of a plan, written before
// execution when --plan-json-file is given.
type PlanResult struct {
	Files   []PlanFile  `json:"files"`
	Summary PlanSummary `json:"summary"`
}

type PlanFile struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type PlanSummary struct {
	Convert    int `json:"convert"`
	Skipped    int `json:"skipped"`
	Collisions int `json:"collisions,omitempty"`
}

// SyncResult is the machine-readable execution outcome, written after the
// batch when --result-json-file is given.
type SyncResult struct {
	Summary ResultSummary `json:"summary"`
}

type ResultSummary struct {
	Succeeded           int            `json:"succeeded"`
	FailuresByExtension map[string]int `json:"failures_by_extension"`
	Canceled            bool           `json:"canceled"`
}

func writePlanJSON(path string, plan planner.Plan) error {
	result := PlanResult{
		Files: make([]PlanFile, 0, len(plan.Items)),
		Summary: PlanSummary{
			Convert:    len(plan.Items),
			Skipped:    plan.Skipped,
			Collisions: plan.Collisions,
		},
	}
	for _, item := range plan.Items {
		result.Files = append(result.Files, PlanFile{
			Source: item.SourcePath,
			Target: item.TargetPath,
		})
	}
	return writeJSONFile(path, result)
}

func writeResultJSON(path string, summary executor.Summary) error {
	return writeJSONFile(path, SyncResult{
		Summary: ResultSummary{
			Succeeded:           summary.Succeeded,
			FailuresByExtension: summary.FailuresByExt,
			Canceled:            summary.Canceled,
		},
	})
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
