package parser

import (
	"github.com/yurifrl/festas/pkg/models"
)

// sheetColumns names the spreadsheet headers feeding each canonical field.
// An empty header means the layout has no such column.
type sheetColumns struct {
	Name      string
	EventDate string
	Value     string
	Guests    string
	Theme     string
	Honoree   string
}

var sheetNewColumns = sheetColumns{
	Name:      "Nome do Contratante",
	EventDate: "Data do Evento",
	Value:     "Valor da Festa",
	Guests:    "Número de Convidados",
	Theme:     "Tema da Festa",
	Honoree:   "Nome do Aniversariante",
}

// columnIndex holds the resolved position of each column in a table.
type columnIndex struct {
	name, eventDate, value, guests, theme, honoree int
}

func (c sheetColumns) resolve(t *Table) (columnIndex, error) {
	idx := columnIndex{
		name:      t.Column(c.Name),
		eventDate: t.Column(c.EventDate),
		value:     -1,
		guests:    -1,
		theme:     -1,
		honoree:   -1,
	}
	if idx.name < 0 {
		return idx, missingColumn(c.Name)
	}
	if idx.eventDate < 0 {
		return idx, missingColumn(c.EventDate)
	}
	for _, opt := range []struct {
		header string
		dst    *int
	}{
		{c.Value, &idx.value},
		{c.Guests, &idx.guests},
		{c.Theme, &idx.theme},
		{c.Honoree, &idx.honoree},
	} {
		if opt.header != "" {
			*opt.dst = t.Column(opt.header)
		}
	}
	return idx, nil
}

// SheetNewRow is one row of the newer spreadsheet ("Proximos-eventos").
type SheetNewRow struct {
	Line      int
	Name      models.RawValue
	EventDate models.RawValue
	Value     models.RawValue
	Guests    models.RawValue
	Theme     models.RawValue
	Honoree   models.RawValue
}

func (r SheetNewRow) canonical() canonicalFields {
	return canonicalFields{
		name:      r.Name,
		eventDate: r.EventDate,
		value:     r.Value,
		guests:    r.Guests,
		theme:     r.Theme,
		honoree:   r.Honoree,
	}
}

// BindSheetNew maps a table onto the newer spreadsheet layout.
func BindSheetNew(t *Table) ([]SheetNewRow, error) {
	idx, err := sheetNewColumns.resolve(t)
	if err != nil {
		return nil, err
	}

	rows := make([]SheetNewRow, 0, len(t.Rows))
	for i, cells := range t.Rows {
		rows = append(rows, SheetNewRow{
			Line:      t.FirstRow + i,
			Name:      t.Cell(cells, idx.name),
			EventDate: t.Cell(cells, idx.eventDate),
			Value:     t.Cell(cells, idx.value),
			Guests:    t.Cell(cells, idx.guests),
			Theme:     t.Cell(cells, idx.theme),
			Honoree:   t.Cell(cells, idx.honoree),
		})
	}
	return rows, nil
}

// ParseSheetNew adapts the newer spreadsheet.
func (p *Parser) ParseSheetNew(t *Table) (*Batch, error) {
	rows, err := BindSheetNew(t)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Source: models.SourceSheetNew}
	for _, row := range rows {
		p.add(batch, row.Line, row.canonical())
	}

	p.logger.Info("sheet parsed", "source", batch.Source, "rows", len(rows), "bookings", len(batch.Bookings), "rejected", len(batch.Rejections))
	return batch, nil
}
