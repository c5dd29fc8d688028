package parser

import (
	"encoding/json"
	"fmt"

	"github.com/yurifrl/festas/pkg/models"
)

// ContractRow is one object of the contracts JSON export.
type ContractRow struct {
	Name      models.RawValue `json:"nome_contratante"`
	EventDate models.RawValue `json:"data_evento"`
	Value     models.RawValue `json:"valor_festa"`
	Guests    models.RawValue `json:"numero_convidados"`
	Theme     models.RawValue `json:"tema_festa"`
	Honoree   models.RawValue `json:"nome_aniversariante"`
}

func (r ContractRow) canonical() canonicalFields {
	return canonicalFields{
		name:      r.Name,
		eventDate: r.EventDate,
		value:     r.Value,
		guests:    r.Guests,
		theme:     r.Theme,
		honoree:   r.Honoree,
	}
}

// ParseContractsJSON reads the contracts export, a JSON array of objects.
func (p *Parser) ParseContractsJSON(data []byte) (*Batch, error) {
	var rows []ContractRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode contracts json: %w", err)
	}

	batch := &Batch{Source: models.SourceJSON}
	for i, row := range rows {
		p.add(batch, i+1, row.canonical())
	}

	p.logger.Info("contracts parsed", "records", len(rows), "bookings", len(batch.Bookings), "rejected", len(batch.Rejections))
	return batch, nil
}
