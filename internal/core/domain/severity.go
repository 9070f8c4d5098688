package domain

import "log/slog"

// Severity classifies how urgent a fault is for logging and alerting.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// LogLevel maps a severity to the slog level used when recording it.
func (s Severity) LogLevel() slog.Level {
	switch s {
	case SeverityCritical, SeverityHigh:
		return slog.LevelError
	case SeverityMedium:
		return slog.LevelWarn
	case SeverityLow:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}
