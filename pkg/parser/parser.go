package parser

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/festas/pkg/models"
)

// Parser turns source files into canonical bookings.
type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// Batch is everything one source produced.
type Batch struct {
	Source     models.Source
	Read       int
	Bookings   []models.Booking
	Rejections []models.Rejection
}

// ProcessBytes dispatches a source file to its adapter. sheet is ignored for
// the JSON source.
func (p *Parser) ProcessBytes(data []byte, filename string, source models.Source, sheet string) (*Batch, error) {
	p.logger.Debug("processing source", "source", source, "filename", filename)

	switch source {
	case models.SourceJSON:
		return p.ParseContractsJSON(data)
	case models.SourceSheetNew:
		table, err := p.ReadTable(data, filename, TableOptions{
			Sheet:       sheet,
			HeaderHint:  sheetNewColumns.Name,
			DateColumns: []string{sheetNewColumns.EventDate},
		})
		if err != nil {
			return nil, err
		}
		return p.ParseSheetNew(table)
	case models.SourceSheetOld:
		table, err := p.ReadTable(data, filename, TableOptions{
			Sheet:       sheet,
			HeaderHint:  sheetOldColumns.Name,
			DateColumns: []string{sheetOldColumns.EventDate},
		})
		if err != nil {
			return nil, err
		}
		return p.ParseSheetOld(table)
	default:
		return nil, fmt.Errorf("unknown source %v", source)
	}
}

// canonicalFields is the source-independent view of one row, filled by each
// adapter from its own row type.
type canonicalFields struct {
	name      models.RawValue
	eventDate models.RawValue
	value     models.RawValue
	guests    models.RawValue
	theme     models.RawValue
	honoree   models.RawValue
}

func (f canonicalFields) blank() bool {
	return f.name.IsBlank() && f.eventDate.IsBlank() && f.value.IsBlank() &&
		f.guests.IsBlank() && f.theme.IsBlank() && f.honoree.IsBlank()
}

// add converts one row into the batch, either as a booking or a rejection.
func (p *Parser) add(batch *Batch, row int, f canonicalFields) {
	if f.blank() {
		p.logger.Debug("skipping empty row", "source", batch.Source, "row", row)
		return
	}
	batch.Read++

	name := f.name.String()
	if f.name.IsBlank() || NormalizeName(name) == "" {
		p.reject(batch, row, "missing name", "", f.eventDate.String())
		return
	}
	date, ok := ParseDate(f.eventDate)
	if !ok {
		reason := "invalid date"
		if f.eventDate.IsBlank() {
			reason = "missing date"
		}
		p.reject(batch, row, reason, name, f.eventDate.String())
		return
	}

	batch.Bookings = append(batch.Bookings, models.Booking{
		Name:      name,
		EventDate: date,
		Amount:    ParseCurrency(f.value),
		Guests:    ParseGuestCount(f.guests),
		Theme:     f.theme.OptionalText(),
		Honoree:   f.honoree.OptionalText(),
		Source:    batch.Source,
		Row:       row,
	})
}

func (p *Parser) reject(batch *Batch, row int, reason, name, date string) {
	p.logger.Warn("rejecting record", "source", batch.Source, "row", row, "reason", reason, "name", name, "date", date)
	batch.Rejections = append(batch.Rejections, models.Rejection{
		Source: batch.Source,
		Row:    row,
		Reason: reason,
		Name:   name,
		Date:   date,
	})
}
