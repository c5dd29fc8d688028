package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only date form the sources are trusted to use (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Source identifies where a booking came from. The declaration order is the
// merge priority: earlier sources win.
type Source int

const (
	SourceJSON Source = iota
	SourceSheetNew
	SourceSheetOld
)

// Sources lists every source in merge priority order.
var Sources = []Source{SourceJSON, SourceSheetNew, SourceSheetOld}

// String returns the provenance label written to the export.
func (s Source) String() string {
	switch s {
	case SourceJSON:
		return "JSON"
	case SourceSheetNew:
		return "Planilha"
	case SourceSheetOld:
		return "Planilha Antiga"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ID is the identifier used in plans and configuration.
func (s Source) ID() string {
	switch s {
	case SourceJSON:
		return "json"
	case SourceSheetNew:
		return "sheet_new"
	case SourceSheetOld:
		return "sheet_old"
	default:
		return ""
	}
}

// MarshalText encodes the source as its provenance label.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts either a provenance label or an identifier.
func (s *Source) UnmarshalText(text []byte) error {
	for _, src := range Sources {
		if src.String() == string(text) {
			*s = src
			return nil
		}
	}
	parsed, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSource resolves a plan/config identifier into a Source.
func ParseSource(id string) (Source, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "-", "_")
	for _, s := range Sources {
		if s.ID() == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown source type %q", id)
}

// Cents is a monetary amount in centavos.
type Cents int64

// Reais returns the amount in whole currency units, for display only.
func (c Cents) Reais() float64 {
	return float64(c) / 100
}

// Booking is the canonical shape every source adapter produces. A Booking
// always has a non-empty Name and a valid EventDate.
type Booking struct {
	Name      string
	EventDate time.Time
	Amount    Cents
	Guests    int
	Theme     *string
	Honoree   *string
	Source    Source
	// Row is the 1-based position of the record inside its source.
	Row int
}

// Entry is one consolidated booking of the ledger.
type Entry struct {
	Key       string
	Name      string
	EventDate time.Time
	Amount    Cents
	Guests    int
	Theme     *string
	Honoree   *string
	Source    Source
}

// Date returns the event date in DD/MM/YYYY form.
func (e Entry) Date() string {
	return e.EventDate.Format(DateLayout)
}

// Rejection records a source row that could not become a Booking.
type Rejection struct {
	Source Source `json:"source"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
	Name   string `json:"name,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Text returns a pointer to s, or nil when s is blank.
func Text(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
