package models

import (
	"encoding/json"
	"fmt"
)

// ExtractionPayload is the parsed form of a queue item's extracted_data blob.
// The upstream parsers emit a different shape per document category, so the
// payload is a tagged union keyed by category; exactly one variant is set.
type ExtractionPayload struct {
	Category string

	Permit  *PermitExtraction
	Lab     *LabExtraction
	DMR     *DMRExtraction
	Generic *GenericExtraction
}

// PermitExtraction is the permit parser's output: identifiers, the permit
// window, and the outfall/limit table.
type PermitExtraction struct {
	DocumentType   string          `json:"document_type"`
	PermitNumber   string          `json:"permit_number"`
	State          string          `json:"state"`
	FacilityName   string          `json:"facility_name"`
	EffectiveDate  string          `json:"effective_date"`
	ExpirationDate string          `json:"expiration_date"`
	Summary        string          `json:"summary"`
	Outfalls       []PermitOutfall `json:"outfalls"`
}

// PermitOutfall is one discharge point and its numeric limits.
type PermitOutfall struct {
	OutfallID string        `json:"outfall_id"`
	Limits    []PermitLimit `json:"limits"`
}

// PermitLimit is a single parameter limit at an outfall.
type PermitLimit struct {
	Parameter  string   `json:"parameter"`
	Unit       string   `json:"unit"`
	DailyMax   *float64 `json:"daily_max"`
	MonthlyAvg *float64 `json:"monthly_avg"`
}

// LabExtraction is the lab-data parser's output. Records can run to
// thousands of rows, which is why lab payloads are always summarized.
type LabExtraction struct {
	DocumentType    string           `json:"document_type"`
	LabName         string           `json:"lab_name"`
	PermitNumber    string           `json:"permit_number"`
	State           string           `json:"state"`
	SampleDateStart string           `json:"sample_date_start"`
	SampleDateEnd   string           `json:"sample_date_end"`
	Summary         string           `json:"summary"`
	Parameters      []ParameterStats `json:"parameters"`
	Records         []Record         `json:"records"`
}

// DMRExtraction is the DMR-bundle parser's output.
type DMRExtraction struct {
	DocumentType          string           `json:"document_type"`
	PermitNumber          string           `json:"permit_number"`
	State                 string           `json:"state"`
	MonitoringPeriodStart string           `json:"monitoring_period_start"`
	MonitoringPeriodEnd   string           `json:"monitoring_period_end"`
	Summary               string           `json:"summary"`
	Parameters            []ParameterStats `json:"parameters"`
	Records               []Record         `json:"records"`
}

// GenericExtraction covers any document the classifier could not place.
type GenericExtraction struct {
	DocumentType string         `json:"document_type"`
	Summary      string         `json:"summary"`
	Fields       map[string]any `json:"fields"`
	Records      []Record       `json:"records"`
}

// ParameterStats summarizes one measured parameter across a payload.
type ParameterStats struct {
	Parameter       string `json:"parameter"`
	Unit            string `json:"unit"`
	ResultCount     int    `json:"result_count"`
	ExceedanceCount int    `json:"exceedance_count"`
}

// Record is one raw data row from the upstream parser.
type Record map[string]any

// ParseExtraction decodes raw extracted_data into the variant for category.
// A nil or empty blob yields a nil payload and no error: the caller decides
// whether missing content is fatal.
func ParseExtraction(category string, raw json.RawMessage) (*ExtractionPayload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	p := &ExtractionPayload{Category: category}
	var err error
	switch category {
	case CategoryPermit:
		p.Permit = &PermitExtraction{}
		err = json.Unmarshal(raw, p.Permit)
	case CategoryLabData:
		p.Lab = &LabExtraction{}
		err = json.Unmarshal(raw, p.Lab)
	case CategoryDMR:
		p.DMR = &DMRExtraction{}
		err = json.Unmarshal(raw, p.DMR)
	default:
		p.Generic = &GenericExtraction{}
		err = json.Unmarshal(raw, p.Generic)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s extraction: %w", category, err)
	}
	return p, nil
}

// PayloadView is the flattened, category-agnostic projection the serializer
// and metadata builder work from.
type PayloadView struct {
	DocumentType string
	PermitNumber string
	State        string
	DateStart    string
	DateEnd      string
	Summary      string
	Parameters   []ParameterStats
	Records      []Record
	OutfallCount int
	LimitCount   int
}

// View flattens the active variant.
func (p *ExtractionPayload) View() PayloadView {
	switch {
	case p.Permit != nil:
		v := PayloadView{
			DocumentType: p.Permit.DocumentType,
			PermitNumber: p.Permit.PermitNumber,
			State:        p.Permit.State,
			DateStart:    p.Permit.EffectiveDate,
			DateEnd:      p.Permit.ExpirationDate,
			Summary:      p.Permit.Summary,
			OutfallCount: len(p.Permit.Outfalls),
		}
		for _, o := range p.Permit.Outfalls {
			v.LimitCount += len(o.Limits)
			for _, l := range o.Limits {
				v.Parameters = append(v.Parameters, ParameterStats{Parameter: l.Parameter, Unit: l.Unit})
				v.Records = append(v.Records, permitLimitRecord(o.OutfallID, l))
			}
		}
		return v
	case p.Lab != nil:
		return PayloadView{
			DocumentType: p.Lab.DocumentType,
			PermitNumber: p.Lab.PermitNumber,
			State:        p.Lab.State,
			DateStart:    p.Lab.SampleDateStart,
			DateEnd:      p.Lab.SampleDateEnd,
			Summary:      p.Lab.Summary,
			Parameters:   p.Lab.Parameters,
			Records:      p.Lab.Records,
		}
	case p.DMR != nil:
		return PayloadView{
			DocumentType: p.DMR.DocumentType,
			PermitNumber: p.DMR.PermitNumber,
			State:        p.DMR.State,
			DateStart:    p.DMR.MonitoringPeriodStart,
			DateEnd:      p.DMR.MonitoringPeriodEnd,
			Summary:      p.DMR.Summary,
			Parameters:   p.DMR.Parameters,
			Records:      p.DMR.Records,
		}
	case p.Generic != nil:
		v := PayloadView{
			DocumentType: p.Generic.DocumentType,
			Summary:      p.Generic.Summary,
			Records:      p.Generic.Records,
		}
		if len(p.Generic.Fields) > 0 {
			v.Records = append([]Record{Record(p.Generic.Fields)}, v.Records...)
		}
		return v
	}
	return PayloadView{}
}

func permitLimitRecord(outfallID string, l PermitLimit) Record {
	r := Record{
		"outfall":   outfallID,
		"parameter": l.Parameter,
		"unit":      l.Unit,
	}
	if l.DailyMax != nil {
		r["daily_max"] = *l.DailyMax
	}
	if l.MonthlyAvg != nil {
		r["monthly_avg"] = *l.MonthlyAvg
	}
	return r
}
