package domain

import "time"

// StageRecord is one entry of the build report written after each run.
// The report is informational; skip decisions never read it.
type StageRecord struct {
	Stage      string        `json:"stage,omitzero"`
	Status     StageStatus   `json:"status,omitzero"`
	Executed   bool          `json:"executed"`
	OutputHash string        `json:"output_hash,omitzero"`
	Duration   time.Duration `json:"duration,omitzero"`
	Timestamp  time.Time     `json:"timestamp,omitzero"`
}
