package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SummaryConfig holds configuration for bench summary formatting.
type SummaryConfig struct {
	// Command is the subordinate command line that was benched.
	Command string

	// Timeout is the per-invocation wall-clock budget.
	Timeout time.Duration

	// Runs is the number of invocations that were requested.
	Runs int
}

// FormatBenchSummary formats the bench results for display at exit.
// The summary goes to stderr; stdout stays reserved for subordinate
// output.
func FormatBenchSummary(r *Recorder, cfg SummaryConfig) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	b.WriteString("                        isorun bench summary\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n\n")

	fmt.Fprintf(&b, "Command:      %s\n", cfg.Command)
	fmt.Fprintf(&b, "Timeout:      %s\n", cfg.Timeout)
	fmt.Fprintf(&b, "Runs:         %d\n\n", cfg.Runs)

	completed := r.Count("completed")
	if missed := r.Total() - completed; missed > 0 {
		fmt.Fprintf(&b, "⚠️  %d of %d runs did not complete within the timeout\n\n",
			missed, r.Total())
	}

	b.WriteString("Outcomes:\n")
	for _, outcome := range sortedOutcomes(r.Outcomes()) {
		fmt.Fprintf(&b, "  %-14s %d\n", outcome+":", r.Count(outcome))
	}
	b.WriteString("\n")

	if r.Total() > 0 {
		b.WriteString("Duration:\n")
		fmt.Fprintf(&b, "  min:          %s\n", FormatDuration(r.Min()))
		fmt.Fprintf(&b, "  p50:          %s\n", FormatDuration(r.Quantile(0.50)))
		fmt.Fprintf(&b, "  p95:          %s\n", FormatDuration(r.Quantile(0.95)))
		fmt.Fprintf(&b, "  p99:          %s\n", FormatDuration(r.Quantile(0.99)))
		fmt.Fprintf(&b, "  max:          %s\n", FormatDuration(r.Max()))
	}

	return b.String()
}

// sortedOutcomes returns the outcome names in a stable order.
func sortedOutcomes(outcomes map[string]int) []string {
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatDuration renders a duration with millisecond precision, which
// is plenty for human-scale process runtimes.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Millisecond).String()
}
