package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical holding fields that registry column labels map onto.
const (
	FieldParticipantID   = "participant_id"
	FieldParticipantName = "participant_name"
	FieldAddress         = "address"
	FieldShares          = "shares"
	FieldSharesPct       = "shares_pct"
)

var canonicalFields = map[string]bool{
	FieldParticipantID:   true,
	FieldParticipantName: true,
	FieldAddress:         true,
	FieldShares:          true,
	FieldSharesPct:       true,
}

var requiredFields = []string{FieldParticipantID, FieldParticipantName, FieldSharesPct}

// DefaultColumnLabels are the CCASS search result headers as rendered by the
// registry. The participant name header carries an embedded line break.
var DefaultColumnLabels = map[string]string{
	"Participant ID": FieldParticipantID,
	"Name of CCASS Participant\n(* for Consenting Investor Participants )": FieldParticipantName,
	"Address":      FieldAddress,
	"Shareholding": FieldShares,
	"% of the total number of Issued Shares/ Warrants/ Units": FieldSharesPct,
}

// ColumnMap maps registry column labels to canonical fields. Labels are
// compared with whitespace runs collapsed, so a header split over two lines
// matches its single-line spelling.
type ColumnMap struct {
	fields map[string]string // normalized label → field
}

// NewColumnMap validates labels and builds a ColumnMap. Every target must be
// a canonical field and participant_id, participant_name and shares_pct must
// each be covered.
func NewColumnMap(labels map[string]string) (ColumnMap, error) {
	fields := make(map[string]string, len(labels))
	covered := make(map[string]bool, len(labels))
	for label, field := range labels {
		if !canonicalFields[field] {
			return ColumnMap{}, fmt.Errorf("label %q maps to unknown field %q", label, field)
		}
		key := normalizeLabel(label)
		if key == "" {
			return ColumnMap{}, fmt.Errorf("empty label for field %q", field)
		}
		if prev, ok := fields[key]; ok && prev != field {
			return ColumnMap{}, fmt.Errorf("label %q maps to both %q and %q", label, prev, field)
		}
		fields[key] = field
		covered[field] = true
	}
	for _, f := range requiredFields {
		if !covered[f] {
			return ColumnMap{}, fmt.Errorf("no label maps to required field %q", f)
		}
	}
	return ColumnMap{fields: fields}, nil
}

// DefaultColumnMap returns the map for the CCASS registry headers.
func DefaultColumnMap() ColumnMap {
	m, err := NewColumnMap(DefaultColumnLabels)
	if err != nil {
		panic(err)
	}
	return m
}

// IsZero reports whether m was never initialized.
func (m ColumnMap) IsZero() bool { return m.fields == nil }

// Field returns the canonical field for a registry label.
func (m ColumnMap) Field(label string) (string, bool) {
	f, ok := m.fields[normalizeLabel(label)]
	return f, ok
}

// Labels returns the normalized labels known to m, sorted.
func (m ColumnMap) Labels() []string {
	labels := make([]string, 0, len(m.fields))
	for l := range m.fields {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Record converts a raw registry row into a HoldingRecord dated date.
// Unknown labels, missing required values and unparseable numbers fail with
// a *SchemaMismatchError.
func (m ColumnMap) Record(date Date, row RawRow) (HoldingRecord, error) {
	values := make(map[string]string, len(row))
	labels := make(map[string]string, len(row))
	for label, value := range row {
		field, ok := m.Field(label)
		if !ok {
			return HoldingRecord{}, &SchemaMismatchError{Label: label, Reason: "unrecognized column label"}
		}
		values[field] = strings.TrimSpace(value)
		labels[field] = label
	}

	rec := HoldingRecord{
		Date:            date,
		ParticipantID:   values[FieldParticipantID],
		ParticipantName: values[FieldParticipantName],
		Address:         values[FieldAddress],
	}
	if rec.ParticipantID == "" {
		return HoldingRecord{}, &SchemaMismatchError{Label: FieldParticipantID, Reason: "missing value"}
	}

	pct, ok := values[FieldSharesPct]
	if !ok {
		return HoldingRecord{}, &SchemaMismatchError{Label: FieldSharesPct, Reason: "missing value"}
	}
	p, err := ParsePercent(pct)
	if err != nil {
		return HoldingRecord{}, &SchemaMismatchError{Label: labels[FieldSharesPct], Value: pct, Reason: "invalid percentage"}
	}
	rec.SharesPct = p

	if s, ok := values[FieldShares]; ok {
		shares, err := ParseShares(s)
		if err != nil {
			return HoldingRecord{}, &SchemaMismatchError{Label: labels[FieldShares], Value: s, Reason: "invalid share count"}
		}
		rec.Shares = shares
	}

	return rec, nil
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(label), " ")
}
