package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	content := `
sources:
  - type: json
    file: data/contratos.json
  - type: sheet-old
    file: /srv/festas/Proximasfestas.xls
    sheet: Festas
output:
  json: out/festas.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p.Sources, 2)
	assert.Equal(t, filepath.Join(dir, "data/contratos.json"), p.Sources[0].File)
	assert.Equal(t, "/srv/festas/Proximasfestas.xls", p.Sources[1].File)
	assert.Equal(t, "Festas", p.Sources[1].Sheet)
	assert.Equal(t, filepath.Join(dir, "out/festas.json"), p.Output.JSON)
	assert.Empty(t, p.Output.CSV)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr bool
	}{
		{"empty", Plan{}, true},
		{"unknown type", Plan{Sources: []Source{{Type: "ynab", File: "x"}}}, true},
		{"duplicate type", Plan{Sources: []Source{{Type: "json", File: "a"}, {Type: "JSON", File: "b"}}}, true},
		{"missing file", Plan{Sources: []Source{{Type: "sheet_new"}}}, true},
		{"valid", Plan{Sources: []Source{{Type: "json", File: "a"}, {Type: "sheet_new", File: "b"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.ErrorIs(t, (&Plan{}).Validate(), ErrNoSources)
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expand("~/festas.json", "/base")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "festas.json"), got)

	got, err = expand("", "/base")
	require.NoError(t, err)
	assert.Empty(t, got)
}
