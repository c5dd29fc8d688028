package service

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/festas/pkg/models"
	"github.com/yurifrl/festas/pkg/parser"
	"github.com/yurifrl/festas/pkg/plan"
)

const contractsJSON = `[
  {"nome_contratante": "Ana Silva", "data_evento": "10/05/2025", "valor_festa": "",
   "numero_convidados": "50+10", "tema_festa": "", "nome_aniversariante": "Lia"},
  {"nome_contratante": "Bruno", "data_evento": "15/03/2025", "valor_festa": "R$ 1.000,00"},
  {"nome_contratante": "Sem Data", "data_evento": ""}
]`

const sheetNewCSV = "Nome do Contratante;Data do Evento;Valor da Festa;Número de Convidados;Tema da Festa;Nome do Aniversariante\n" +
	"ana silva;10/05/2025;R$ 2.000,00;80;Safari;Outra\n" +
	"Carla;20/03/2025;R$ 2.000,00;30;;\n"

const sheetOldCSV = "Nome do cliente;Data da  Festa;Valor ;N° de convidados\n" +
	"Ana Silva;10/05/2025;R$ 9.999,00;100\n" +
	"Davi;01/01/2025;R$ 500,00;20\n" +
	"Davi;01/01/2025;R$ 700,00;25\n"

func writeSources(t *testing.T) *plan.Plan {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"contratos.json":       contractsJSON,
		"Proximos-eventos.csv": sheetNewCSV,
		"Proximasfestas.csv":   sheetOldCSV,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return &plan.Plan{Sources: []plan.Source{
		{Type: "sheet_old", File: filepath.Join(dir, "Proximasfestas.csv")},
		{Type: "json", File: filepath.Join(dir, "contratos.json")},
		{Type: "sheet_new", File: filepath.Join(dir, "Proximos-eventos.csv")},
	}}
}

func TestRun(t *testing.T) {
	processor := NewProcessor(log.New(io.Discard))

	result, err := processor.Run(writeSources(t))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Ledger.Len())
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, "missing date", result.Rejections[0].Reason)

	records := result.Records()
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Davi", "Bruno", "Carla", "Ana Silva"}, names)

	ana := records[3]
	assert.Equal(t, "JSON", ana.Source)
	assert.Equal(t, models.Cents(200000), ana.Amount, "amount completed from the newer sheet")
	assert.Equal(t, 60, ana.Guests)
	assert.Equal(t, "Safari", models.Deref(ana.Theme))
	assert.Equal(t, "Lia", models.Deref(ana.Honoree))

	davi := records[0]
	assert.Equal(t, "Planilha Antiga", davi.Source)
	assert.Equal(t, models.Cents(50000), davi.Amount)

	s := result.Summary
	assert.Equal(t, 4, s.Entries)
	assert.Equal(t, models.Cents(550000), s.Total)
	require.Len(t, s.Sources, 3)
	assert.Equal(t, models.SourceJSON, s.Sources[0].Source)
	assert.Equal(t, 3, s.Sources[0].Read)
	assert.Equal(t, 1, s.Sources[0].Rejected)
	assert.Equal(t, 2, s.Sources[0].Created)
	assert.Equal(t, 1, s.Sources[1].Completed)
	assert.Equal(t, 1, s.Sources[2].Duplicates)
	require.Len(t, s.Months, 3)
	assert.Equal(t, "01/2025", s.Months[0].Label())
	assert.Equal(t, models.Cents(300000), s.Months[1].Total)
}

func TestRunMissingFile(t *testing.T) {
	pl := writeSources(t)
	pl.Sources[1].File = filepath.Join(t.TempDir(), "missing.json")

	_, err := NewProcessor(log.New(io.Discard)).Run(pl)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

const emptySheetOldCSV = "Nome do cliente;Data da  Festa;Valor ;N° de convidados\n"

func TestReconcileUnreadableSource(t *testing.T) {
	inputs := []Input{
		{Source: models.SourceJSON, Filename: "contratos.json", Data: []byte(contractsJSON)},
		{Source: models.SourceSheetNew, Filename: "eventos.csv", Data: []byte("Cliente;Data\nAna;10/05/2025\n")},
		{Source: models.SourceSheetOld, Filename: "Proximasfestas.csv", Data: []byte(sheetOldCSV)},
	}

	_, err := NewProcessor(log.New(io.Discard)).Reconcile(inputs)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, parser.ErrMissingColumn)
}

func TestReconcileRequiresEverySource(t *testing.T) {
	inputs := []Input{
		{Source: models.SourceJSON, Filename: "contratos.json", Data: []byte(contractsJSON)},
		{Source: models.SourceSheetOld, Filename: "Proximasfestas.csv", Data: []byte(sheetOldCSV)},
	}

	result, err := NewProcessor(log.New(io.Discard)).Reconcile(inputs)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "sheet_new")
	assert.Nil(t, result)
}

func TestRunPartialPlan(t *testing.T) {
	pl := writeSources(t)
	pl.Sources = pl.Sources[:1]

	_, err := NewProcessor(log.New(io.Discard)).Run(pl)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestReconcileCompletesAmountAndTheme(t *testing.T) {
	contracts := `[{"nome_contratante": "Ana Silva", "data_evento": "10/05/2025", "valor_festa": "1500,00"}]`
	sheetNew := "Nome do Contratante;Data do Evento;Valor da Festa;Número de Convidados;Tema da Festa;Nome do Aniversariante\n" +
		"Ana Silva;10/05/2025;R$ 2.000,00;;Safari;\n"
	inputs := []Input{
		{Source: models.SourceJSON, Filename: "contratos.json", Data: []byte(contracts)},
		{Source: models.SourceSheetNew, Filename: "Proximos-eventos.csv", Data: []byte(sheetNew)},
		{Source: models.SourceSheetOld, Filename: "Proximasfestas.csv", Data: []byte(emptySheetOldCSV)},
	}

	result, err := NewProcessor(log.New(io.Discard)).Reconcile(inputs)
	require.NoError(t, err)

	records := result.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Ana Silva", records[0].Name)
	assert.Equal(t, models.Cents(150000), records[0].Amount)
	assert.Equal(t, "Safari", models.Deref(records[0].Theme))
	assert.Equal(t, "JSON", records[0].Source)
}
