package domain

import "strings"

// StageStatus represents the lifecycle state of one pipeline stage.
type StageStatus string

const (
	// StageStatusPending indicates the stage is waiting for its upstream stages.
	StageStatusPending StageStatus = "pending"
	// StageStatusRunning indicates the stage is currently executing.
	StageStatusRunning StageStatus = "running"
	// StageStatusCompleted indicates the stage executed successfully.
	StageStatusCompleted StageStatus = "completed"
	// StageStatusUpToDate indicates the stage was skipped because nothing it depends on changed.
	StageStatusUpToDate StageStatus = "up-to-date"
	// StageStatusFailed indicates the stage failed.
	StageStatusFailed StageStatus = "failed"
)

// IsTerminal checks if a status is a terminal state (Completed, UpToDate, Failed).
func (s StageStatus) IsTerminal() bool {
	switch s {
	case StageStatusCompleted, StageStatusUpToDate, StageStatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeStageStatus converts a string to a StageStatus, defaulting to pending if unknown.
func NormalizeStageStatus(s string) StageStatus {
	switch strings.ToLower(s) {
	case string(StageStatusRunning):
		return StageStatusRunning
	case string(StageStatusCompleted):
		return StageStatusCompleted
	case string(StageStatusUpToDate):
		return StageStatusUpToDate
	case string(StageStatusFailed):
		return StageStatusFailed
	default:
		return StageStatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
