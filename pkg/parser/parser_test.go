package parser

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/festas/pkg/models"
)

func newTestParser() *Parser {
	return New(log.New(io.Discard))
}

func TestParseContractsJSON(t *testing.T) {
	content := []byte(`[
  {"nome_contratante": "Ana Silva", "data_evento": "10/05/2025", "valor_festa": "1500,00",
   "numero_convidados": "50+10", "tema_festa": "", "nome_aniversariante": "Lia"},
  {"nome_contratante": "Bruno", "data_evento": "2025-05-11", "valor_festa": 900},
  {"nome_contratante": "  ", "data_evento": "12/05/2025"},
  {"nome_contratante": "Carla", "data_evento": "13/05/2025", "valor_festa": 1200.5,
   "numero_convidados": 70, "tema_festa": null}
]`)

	batch, err := newTestParser().ParseContractsJSON(content)
	require.NoError(t, err)

	assert.Equal(t, models.SourceJSON, batch.Source)
	assert.Equal(t, 4, batch.Read)
	require.Len(t, batch.Bookings, 2)
	require.Len(t, batch.Rejections, 2)

	ana := batch.Bookings[0]
	assert.Equal(t, "Ana Silva", ana.Name)
	assert.Equal(t, models.Cents(150000), ana.Amount)
	assert.Equal(t, 60, ana.Guests)
	assert.Nil(t, ana.Theme)
	require.NotNil(t, ana.Honoree)
	assert.Equal(t, "Lia", *ana.Honoree)
	assert.Equal(t, 1, ana.Row)

	carla := batch.Bookings[1]
	assert.Equal(t, models.Cents(120050), carla.Amount)
	assert.Equal(t, 70, carla.Guests)
	assert.Nil(t, carla.Theme)

	assert.Equal(t, "invalid date", batch.Rejections[0].Reason)
	assert.Equal(t, "Bruno", batch.Rejections[0].Name)
	assert.Equal(t, 2, batch.Rejections[0].Row)
	assert.Equal(t, "missing name", batch.Rejections[1].Reason)
}

func TestParseContractsJSONInvalid(t *testing.T) {
	_, err := newTestParser().ParseContractsJSON([]byte(`{"nome_contratante": "Ana"}`))
	assert.Error(t, err)
}

func TestProcessBytesSheetNewCSV(t *testing.T) {
	content := []byte("Nome do Contratante;Data do Evento;Valor da Festa;Número de Convidados;Tema da Festa;Nome do Aniversariante\n" +
		"Ana Silva;10/05/2025;R$ 2.000,00;80;Safari;Lia\n" +
		";;;;;\n" +
		"Sem Data;;R$ 100,00;10;;\n")

	batch, err := newTestParser().ProcessBytes(content, "Proximos-eventos.csv", models.SourceSheetNew, "")
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Read)
	require.Len(t, batch.Bookings, 1)
	b := batch.Bookings[0]
	assert.Equal(t, models.SourceSheetNew, b.Source)
	assert.Equal(t, models.Cents(200000), b.Amount)
	assert.Equal(t, 80, b.Guests)
	require.NotNil(t, b.Theme)
	assert.Equal(t, "Safari", *b.Theme)
	assert.Equal(t, 2, b.Row)

	require.Len(t, batch.Rejections, 1)
	assert.Equal(t, "missing date", batch.Rejections[0].Reason)
	assert.Equal(t, 4, batch.Rejections[0].Row)
}

func TestProcessBytesCSVNumericDatesRejected(t *testing.T) {
	// CSV cells carry no type, so numbers in the date column are not serials.
	content := []byte("Nome do Contratante;Data do Evento;Valor da Festa\n" +
		"Ana;2025;R$ 100,00\n" +
		"Bruno;45731;R$ 200,00\n")

	batch, err := newTestParser().ProcessBytes(content, "Proximos-eventos.csv", models.SourceSheetNew, "")
	require.NoError(t, err)

	assert.Empty(t, batch.Bookings)
	require.Len(t, batch.Rejections, 2)
	for _, r := range batch.Rejections {
		assert.Equal(t, "invalid date", r.Reason)
	}
	assert.Equal(t, "2025", batch.Rejections[0].Date)
	assert.Equal(t, "45731", batch.Rejections[1].Date)
}

func TestProcessBytesSheetOldHeaders(t *testing.T) {
	// Title rows above the header and the stray spaces of the real layout.
	content := []byte("Próximas Festas,,,\n" +
		",,,\n" +
		"Nome do cliente,Data da  Festa,Valor ,N° de convidados\n" +
		"Pedro,20/06/2025,\"1.100,00\",40+5\n")

	batch, err := newTestParser().ProcessBytes(content, "Proximasfestas.csv", models.SourceSheetOld, "")
	require.NoError(t, err)

	require.Len(t, batch.Bookings, 1)
	b := batch.Bookings[0]
	assert.Equal(t, "Pedro", b.Name)
	assert.Equal(t, models.Cents(110000), b.Amount)
	assert.Equal(t, 45, b.Guests)
	assert.Nil(t, b.Theme)
	assert.Nil(t, b.Honoree)
	assert.Equal(t, 4, b.Row)
}

func TestProcessBytesMissingColumn(t *testing.T) {
	content := []byte("Nome do Contratante;Valor da Festa\nAna;100\n")

	_, err := newTestParser().ProcessBytes(content, "eventos.csv", models.SourceSheetNew, "")
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = newTestParser().ProcessBytes([]byte("Cliente;Data\n"), "eventos.csv", models.SourceSheetOld, "")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestProcessBytesUnsupportedFormat(t *testing.T) {
	_, err := newTestParser().ProcessBytes([]byte("x"), "eventos.pdf", models.SourceSheetNew, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcessBytesXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Eventos"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	rows := [][]any{
		{"Nome do Contratante", "Data do Evento", "Valor da Festa", "Número de Convidados", "Tema da Festa", "Nome do Aniversariante"},
		{"Ana Silva", "10/05/2025", "R$ 2.000,00", "80", "Safari", "Lia"},
		{"Bruno", 45731, 1500.5, 60, nil, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	batch, err := newTestParser().ProcessBytes(buf.Bytes(), "Proximos-eventos.xlsx", models.SourceSheetNew, sheet)
	require.NoError(t, err)
	require.Len(t, batch.Bookings, 2)

	ana := batch.Bookings[0]
	assert.Equal(t, models.Cents(200000), ana.Amount)
	assert.Equal(t, 80, ana.Guests)

	bruno := batch.Bookings[1]
	assert.Equal(t, "15/03/2025", bruno.EventDate.Format(models.DateLayout))
	assert.Equal(t, models.Cents(150050), bruno.Amount)
	assert.Equal(t, 60, bruno.Guests)
	assert.Nil(t, bruno.Theme)
	assert.Equal(t, 3, bruno.Row)
}

func TestProcessBytesXLSXMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = newTestParser().ProcessBytes(buf.Bytes(), "eventos.xlsx", models.SourceSheetNew, "Inexistente")
	assert.Error(t, err)
}

func TestTableColumn(t *testing.T) {
	table := &Table{Header: []string{"Nome do cliente", "Data da  Festa", "Valor "}}
	assert.Equal(t, 0, table.Column("nome do cliente"))
	assert.Equal(t, 1, table.Column("Data da Festa"))
	assert.Equal(t, 2, table.Column("Valor"))
	assert.Equal(t, -1, table.Column("Tema da Festa"))
}
