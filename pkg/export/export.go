// Package export turns the frozen ledger into the artifact consumed by the
// downstream import: a chronologically sorted JSON array.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/yurifrl/festas/pkg/models"
)

// Record is one exported booking.
type Record struct {
	Name    string       `json:"nome_cliente"`
	Date    string       `json:"data_evento"`
	Amount  models.Cents `json:"valor_total"`
	Guests  int          `json:"numero_convidados"`
	Theme   *string      `json:"tema"`
	Honoree *string      `json:"aniversariante"`
	Source  string       `json:"fonte"`
}

// Sort orders entries by event date. Entries on the same day keep their
// ledger order.
func Sort(entries []models.Entry) []models.Entry {
	out := make([]models.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventDate.Before(out[j].EventDate)
	})
	return out
}

// Records sorts the entries and converts them to export records. Empty or
// whitespace-only optional text is always written as null.
func Records(entries []models.Entry) []Record {
	sorted := Sort(entries)
	out := make([]Record, len(sorted))
	for i, e := range sorted {
		out[i] = NewRecord(e)
	}
	return out
}

// NewRecord converts a single entry.
func NewRecord(e models.Entry) Record {
	return Record{
		Name:    e.Name,
		Date:    e.Date(),
		Amount:  e.Amount,
		Guests:  e.Guests,
		Theme:   sanitize(e.Theme),
		Honoree: sanitize(e.Honoree),
		Source:  e.Source.String(),
	}
}

func sanitize(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// Marshal encodes records as indented JSON, leaving non-ASCII text as is.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the export of entries to w.
func WriteJSON(w io.Writer, entries []models.Entry) error {
	data, err := Marshal(Records(entries))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Header is the CSV header matching Record.Columns.
var Header = []string{"nome_cliente", "data_evento", "valor_total", "numero_convidados", "tema", "aniversariante", "fonte"}

// Columns renders the record as CSV cells; null text becomes an empty cell.
func (r Record) Columns() []string {
	return []string{
		r.Name,
		r.Date,
		strconv.FormatInt(int64(r.Amount), 10),
		strconv.Itoa(r.Guests),
		models.Deref(r.Theme),
		models.Deref(r.Honoree),
		r.Source,
	}
}
