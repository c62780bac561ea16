package indexing

import (
	"fmt"
	"strings"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

// buildMetadataText renders the reserved index-0 chunk from cheap,
// already-known fields. Every document gets this one retrievable chunk even
// when full extraction fails entirely.
func buildMetadataText(src *models.SourceDocument, view *models.PayloadView) string {
	var lines []string
	lines = append(lines, "File: "+src.FileName)
	if src.Category != "" {
		lines = append(lines, "Category: "+src.Category)
	}
	if src.StateCode != "" {
		lines = append(lines, "State: "+src.StateCode)
	}

	if view != nil {
		if view.PermitNumber != "" {
			lines = append(lines, "Permit number: "+view.PermitNumber)
		}
		if view.DocumentType != "" {
			lines = append(lines, "Extraction type: "+view.DocumentType)
		}
		if view.DateStart != "" || view.DateEnd != "" {
			lines = append(lines, fmt.Sprintf("Period: %s to %s", view.DateStart, view.DateEnd))
		}
		if view.Summary != "" {
			lines = append(lines, "Summary: "+view.Summary)
		}
		if view.OutfallCount > 0 {
			lines = append(lines, fmt.Sprintf("Outfalls: %d", view.OutfallCount))
		}
		if view.LimitCount > 0 {
			lines = append(lines, fmt.Sprintf("Limits: %d", view.LimitCount))
		}
	}

	return strings.Join(lines, "\n")
}
