package indexing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

func labView(records int) models.PayloadView {
	v := models.PayloadView{
		DocumentType: "lab_report",
		PermitNumber: "WV1020889",
		State:        "WV",
		DateStart:    "2024-01-01",
		DateEnd:      "2024-06-30",
		Summary:      "Quarterly effluent sampling for outfalls 001 and 002.",
		Parameters: []models.ParameterStats{
			{Parameter: "pH", Unit: "SU", ResultCount: 120},
			{Parameter: "Iron, total", Unit: "mg/L", ResultCount: 120, ExceedanceCount: 3},
		},
	}
	for i := 0; i < records; i++ {
		v.Records = append(v.Records, models.Record{
			"sample_date": fmt.Sprintf("2024-01-%02d", i%28+1),
			"parameter":   "pH",
			"value":       7.1,
		})
	}
	return v
}

func TestSerializeSummaryRespectsByteBudget(t *testing.T) {
	v := labView(500)
	budget := 2048

	out := serializeSummary(v, budget)

	assert.LessOrEqual(t, len(out), budget)
	assert.Contains(t, out, "Permit number: WV1020889")
	assert.Contains(t, out, "Period: 2024-01-01 to 2024-06-30")
	assert.Contains(t, out, "- Iron, total (mg/L): 120 results, 3 exceedances")
	assert.Contains(t, out, "(500 records total, budget-capped)")
}

func TestSerializeSummaryHeadersBeforeRecords(t *testing.T) {
	out := serializeSummary(labView(500), 2048)

	headerAt := strings.Index(out, "Document type:")
	summaryAt := strings.Index(out, "Summary:")
	paramsAt := strings.Index(out, "Parameters:")
	recordsAt := strings.Index(out, "Sample records:")

	require.GreaterOrEqual(t, headerAt, 0)
	assert.Less(t, headerAt, summaryAt)
	assert.Less(t, summaryAt, paramsAt)
	assert.Less(t, paramsAt, recordsAt)
}

func TestSerializeSummaryAllRecordsFitNoNote(t *testing.T) {
	out := serializeSummary(labView(3), DefaultSummaryByteBudget)

	assert.Contains(t, out, "Sample records:")
	assert.NotContains(t, out, "budget-capped")
}

func TestSerializeSummarySkipsRecordsWhenBudgetNearlySpent(t *testing.T) {
	v := models.PayloadView{
		DocumentType: "lab",
		Summary:      strings.Repeat("S", 150),
	}
	for i := 0; i < 3; i++ {
		v.Records = append(v.Records, models.Record{"value": i})
	}

	// Headers and summary leave under 20% of the budget, so no record is
	// worth starting, but the truncation note still lands.
	out := serializeSummary(v, 260)

	assert.LessOrEqual(t, len(out), 260)
	assert.NotContains(t, out, "Sample records:")
	assert.Contains(t, out, "(3 records total, budget-capped)")
}

func TestSerializeFullCapsSampleRecords(t *testing.T) {
	v := labView(maxSampleRecords + 10)

	out := serializeFull(v)

	assert.Contains(t, out, fmt.Sprintf("(%d records total, showing first %d)", maxSampleRecords+10, maxSampleRecords))
	assert.Equal(t, maxSampleRecords, strings.Count(out, "sample_date:"))
}

func TestSerializeFullSmallPayload(t *testing.T) {
	out := serializeFull(labView(2))

	assert.Contains(t, out, "Document type: lab_report")
	assert.Contains(t, out, "Summary: Quarterly effluent sampling")
	assert.Equal(t, 2, strings.Count(out, "sample_date:"))
	assert.NotContains(t, out, "showing first")
}

func TestRenderRecordStableKeyOrder(t *testing.T) {
	r := models.Record{"unit": "mg/L", "parameter": "Iron", "value": 1.2}

	assert.Equal(t, "parameter: Iron; unit: mg/L; value: 1.2", renderRecord(r))
}

func TestParameterLine(t *testing.T) {
	assert.Equal(t, "- pH (SU): 120 results",
		parameterLine(models.ParameterStats{Parameter: "pH", Unit: "SU", ResultCount: 120}))
	assert.Equal(t, "- Iron, total (mg/L): 120 results, 3 exceedances",
		parameterLine(models.ParameterStats{Parameter: "Iron, total", Unit: "mg/L", ResultCount: 120, ExceedanceCount: 3}))
	assert.Equal(t, "- Selenium", parameterLine(models.ParameterStats{Parameter: "Selenium"}))
}

func TestBudgetWriterReserve(t *testing.T) {
	w := newBudgetWriter(30)
	require.True(t, w.tryLine("ten chars!"))

	w.reserve(10)
	// 11 used, 10 reserved: a 9-byte line (plus newline) no longer fits.
	assert.False(t, w.tryLine("nine char"))
	assert.True(t, w.tryLine("ok"))

	w.release()
	assert.True(t, w.tryLine("last line"))
	assert.LessOrEqual(t, len(w.String()), 30)
}
