package parser

import (
	"fmt"

	"github.com/yurifrl/festas/pkg/models"
)

// The old layout has no theme or honoree columns. Its real headers carry
// stray spaces ("Data da  Festa", "Valor "), which Table.Column tolerates.
var sheetOldColumns = sheetColumns{
	Name:      "Nome do cliente",
	EventDate: "Data da Festa",
	Value:     "Valor",
	Guests:    "N° de convidados",
}

// SheetOldRow is one row of the older spreadsheet ("Próximasfestas").
type SheetOldRow struct {
	Line      int
	Name      models.RawValue
	EventDate models.RawValue
	Value     models.RawValue
	Guests    models.RawValue
}

func (r SheetOldRow) canonical() canonicalFields {
	return canonicalFields{
		name:      r.Name,
		eventDate: r.EventDate,
		value:     r.Value,
		guests:    r.Guests,
	}
}

// BindSheetOld maps a table onto the older spreadsheet layout.
func BindSheetOld(t *Table) ([]SheetOldRow, error) {
	idx, err := sheetOldColumns.resolve(t)
	if err != nil {
		return nil, err
	}

	rows := make([]SheetOldRow, 0, len(t.Rows))
	for i, cells := range t.Rows {
		rows = append(rows, SheetOldRow{
			Line:      t.FirstRow + i,
			Name:      t.Cell(cells, idx.name),
			EventDate: t.Cell(cells, idx.eventDate),
			Value:     t.Cell(cells, idx.value),
			Guests:    t.Cell(cells, idx.guests),
		})
	}
	return rows, nil
}

// ParseSheetOld adapts the older spreadsheet.
func (p *Parser) ParseSheetOld(t *Table) (*Batch, error) {
	rows, err := BindSheetOld(t)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Source: models.SourceSheetOld}
	for _, row := range rows {
		p.add(batch, row.Line, row.canonical())
	}

	p.logger.Info("sheet parsed", "source", batch.Source, "rows", len(rows), "bookings", len(batch.Bookings), "rejected", len(batch.Rejections))
	return batch, nil
}

func missingColumn(name string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, name)
}
