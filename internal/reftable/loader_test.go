package reftable

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	csv := strings.Join([]string{
		"Nombre2,Código,N.I.F.,Nacimiento,Puesto,Sexo,Alta,Final,Antiguedad",
		"\"PEREZ GOMEZ, JUAN\",C-104,12345678Z,01/02/1980,SOLDADOR,V,01/01/2020,,01/01/2020",
		",C-105,,,,,,,",
	}, "\n")

	entries, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1, "nameless rows are dropped")

	e := entries[0]
	assert.Equal(t, "PEREZ GOMEZ, JUAN", e.Name)
	assert.Equal(t, "C-104", e.Code)
	assert.Equal(t, "SOLDADOR", e.Position)
	assert.Equal(t, "01/01/2020", e.Alta)
}

func TestLoadXLSXHeaderNotOnFirstRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"LISTADO DE PERSONAL"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Nombre2", "Código", "Puesto"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"PEREZ GOMEZ, JUAN", "C-104", "SOLDADOR"}))
	require.NoError(t, f.SetSheetRow(sheet, "A5", &[]any{"GARCIA RUIZ, ANA", "C-105", "TORNERA"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	entries, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "PEREZ GOMEZ, JUAN", entries[0].Name)
	assert.Equal(t, "C-104", entries[0].Code)
	assert.Equal(t, "TORNERA", entries[1].Position)
}

func TestLoadXLSXMissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"sin", "cabecera"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := LoadXLSX(path)
	assert.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("roster.ods")
	assert.Error(t, err)
}
