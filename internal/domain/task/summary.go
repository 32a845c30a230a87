package task

import (
	"fmt"
	"strings"
	"time"
)

// Status lines used as the first line of the notification text.
const (
	StatusCompleted = "Terminé"
	StatusFailed    = "Falló"
)

// MinReportedSeconds is the floor for the elapsed time shown to the user, so
// near-instant tasks never report "0.00s".
const MinReportedSeconds = 0.01

// ResolveElapsedSeconds picks the reported execution time: a positive
// caller-supplied value wins over the measured wall-clock duration. Both are
// floored at MinReportedSeconds.
func ResolveElapsedSeconds(measuredSeconds float64, providedSeconds *float64) float64 {
	if providedSeconds != nil && *providedSeconds > 0 {
		return max(*providedSeconds, MinReportedSeconds)
	}
	return max(measuredSeconds, MinReportedSeconds)
}

// BuildSummary renders the multi-line notification text for a finished task.
// defaultRepository is used when the task carries no repository name of its
// own.
func BuildSummary(status string, t StartedTask, elapsedSeconds float64, defaultRepository string) string {
	repository := NormalizeRepositoryName(t.RepositoryName)
	if repository == "" {
		repository = defaultRepository
	}

	lines := []string{
		status,
		"Repositorio: " + repository,
		fmt.Sprintf("Tiempo de ejecucion: %.2fs", elapsedSeconds),
	}
	if t.StartDatetime != nil {
		lines = append(lines, "Inicio: "+FormatUTC(*t.StartDatetime))
	}
	if t.EndDatetime != nil {
		lines = append(lines, "Fin: "+FormatUTC(*t.EndDatetime))
	}
	lines = append(lines, fmt.Sprintf("Archivos modificados: %d", NormalizeFilesCount(t.ModifiedFilesCount)))

	return strings.Join(lines, "\n")
}

// FormatUTC renders a timestamp as ISO-8601 UTC with a Z suffix.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
