package indexing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

// serializeFull renders a small extraction payload at full fidelity. Small
// documents cannot exceed the downstream chunk-size cap, so no byte counter
// is needed here; only the sample-record count is bounded.
func serializeFull(v models.PayloadView) string {
	var b strings.Builder
	for _, line := range headerLines(v) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if v.Summary != "" {
		b.WriteString("Summary: " + v.Summary + "\n")
	}
	if len(v.Parameters) > 0 {
		b.WriteString("Parameters:\n")
		for _, p := range v.Parameters {
			b.WriteString(parameterLine(p))
			b.WriteByte('\n')
		}
	}
	if len(v.Records) > 0 {
		b.WriteString("Sample records:\n")
		n := len(v.Records)
		if n > maxSampleRecords {
			n = maxSampleRecords
		}
		for _, r := range v.Records[:n] {
			b.WriteString(renderRecord(r))
			b.WriteByte('\n')
		}
		if len(v.Records) > maxSampleRecords {
			b.WriteString(fmt.Sprintf("(%d records total, showing first %d)\n", len(v.Records), maxSampleRecords))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// serializeSummary renders a large or tabular payload under a strict byte
// budget. Priority when the budget is tight: header fields and date range,
// then the free-text summary, then the parameter list (cheap, high search
// value), then sample records only while at least 20% of the budget remains.
// Structured metadata and parameter names are worth more for retrieval than
// a handful of raw rows, so they are guaranteed space first.
func serializeSummary(v models.PayloadView, budgetBytes int) string {
	w := newBudgetWriter(budgetBytes)

	for _, line := range headerLines(v) {
		w.tryLine(line)
	}
	if v.Summary != "" {
		w.tryLine("Summary: " + v.Summary)
	}
	if len(v.Parameters) > 0 {
		w.tryLine("Parameters:")
		for _, p := range v.Parameters {
			w.tryLine(parameterLine(p))
		}
	}

	if len(v.Records) > 0 {
		note := fmt.Sprintf("(%d records total, budget-capped)", len(v.Records))
		w.reserve(len(note) + 1)

		written := 0
		if w.remaining() >= budgetBytes/5 {
			w.tryLine("Sample records:")
			for _, r := range v.Records {
				if !w.tryLine(renderRecord(r)) {
					break
				}
				written++
			}
		}
		w.release()
		if written < len(v.Records) {
			w.tryLine(note)
		}
	}

	return strings.TrimRight(w.String(), "\n")
}

func headerLines(v models.PayloadView) []string {
	var lines []string
	if v.DocumentType != "" {
		lines = append(lines, "Document type: "+v.DocumentType)
	}
	if v.PermitNumber != "" {
		lines = append(lines, "Permit number: "+v.PermitNumber)
	}
	if v.State != "" {
		lines = append(lines, "State: "+v.State)
	}
	if v.DateStart != "" || v.DateEnd != "" {
		lines = append(lines, fmt.Sprintf("Period: %s to %s", v.DateStart, v.DateEnd))
	}
	if v.OutfallCount > 0 {
		lines = append(lines, fmt.Sprintf("Outfalls: %d", v.OutfallCount))
	}
	if v.LimitCount > 0 {
		lines = append(lines, fmt.Sprintf("Limits: %d", v.LimitCount))
	}
	return lines
}

func parameterLine(p models.ParameterStats) string {
	line := "- " + p.Parameter
	if p.Unit != "" {
		line += " (" + p.Unit + ")"
	}
	if p.ResultCount > 0 {
		line += fmt.Sprintf(": %d results", p.ResultCount)
		if p.ExceedanceCount > 0 {
			line += fmt.Sprintf(", %d exceedances", p.ExceedanceCount)
		}
	}
	return line
}

// renderRecord flattens one data row as "key: value" pairs with stable order.
func renderRecord(r models.Record) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, r[k]))
	}
	return strings.Join(parts, "; ")
}

// budgetWriter accumulates lines while tracking cumulative bytes, refusing
// any line that would exceed the limit.
type budgetWriter struct {
	b        strings.Builder
	limit    int
	used     int
	reserved int
}

func newBudgetWriter(limit int) *budgetWriter {
	return &budgetWriter{limit: limit}
}

// tryLine appends line plus a newline if it fits; reports whether it did.
func (w *budgetWriter) tryLine(line string) bool {
	n := len(line) + 1
	if w.used+w.reserved+n > w.limit {
		return false
	}
	w.b.WriteString(line)
	w.b.WriteByte('\n')
	w.used += n
	return true
}

// reserve holds back n bytes so a closing line is guaranteed to fit.
func (w *budgetWriter) reserve(n int) { w.reserved = n }

func (w *budgetWriter) release() { w.reserved = 0 }

func (w *budgetWriter) remaining() int { return w.limit - w.used - w.reserved }

func (w *budgetWriter) String() string { return w.b.String() }
