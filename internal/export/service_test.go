package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmarrero/vidalaboral/constants"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

func sampleEmployees(t *testing.T, withClient bool) []entity.ReconciledEmployee {
	t.Helper()
	alta, err := entity.ParseDate("01/01/2020")
	require.NoError(t, err)
	baja, err := entity.ParseDate("15/06/2023")
	require.NoError(t, err)

	events := []entity.StatusEvent{
		{
			Affiliation: "28 0123456789",
			Situacion:   constants.Alta,
			DocumentID:  "0 12345678Z",
			RealAlta:    alta,
			EfectoAlta:  alta,
			Name:        "PEREZ GOMEZ JUAN",
			GCM:         "08",
			TC:          "540",
			CTP:         constants.DefaultCTP,
			TiposATIT:   "1,80",
			CLV:         "FE4",
		},
		{
			Affiliation: "28 0123456789",
			Situacion:   constants.Baja,
			DocumentID:  "0 12345678Z",
			RealAlta:    alta,
			EfectoAlta:  alta,
			RealSit:     baja,
			EfectoSit:   baja,
			Name:        "PEREZ GOMEZ JUAN",
		},
	}
	if withClient {
		events[0].Client = &entity.ClientInfo{Code: "C-104", Position: "SOLDADOR"}
		events[1].Client = &entity.ClientInfo{Code: "C-104", Position: "SOLDADOR"}
	}
	return []entity.ReconciledEmployee{{
		Name:        "PEREZ GOMEZ JUAN",
		Affiliation: "28 0123456789",
		Events:      events,
	}}
}

func TestXLSXRoundTrip(t *testing.T) {
	svc := NewService(nil)
	b, err := svc.XLSX(sampleEmployees(t, false), false)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per event")

	assert.Equal(t, constants.OutputColumns, rows[0])
	assert.Equal(t, "ALTA", rows[1][1])
	assert.Equal(t, "01/01/2020", rows[1][3])
	assert.Equal(t, "BAJA", rows[2][1])
	assert.Equal(t, "15/06/2023", rows[2][5])
}

func TestXLSXClientColumns(t *testing.T) {
	svc := NewService(nil)
	b, err := svc.XLSX(sampleEmployees(t, true), true)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows[0], len(constants.OutputColumns)+len(constants.ClientColumns))
	assert.Equal(t, "Codigo_Cliente", rows[0][len(constants.OutputColumns)])
	assert.Equal(t, "C-104", rows[1][len(constants.OutputColumns)])
}

func TestCSVWritesHeaderAndRows(t *testing.T) {
	svc := NewService(nil)
	var buf bytes.Buffer
	require.NoError(t, svc.CSV(&buf, sampleEmployees(t, false)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Numero_Afiliacion,Situacion"))
	assert.Contains(t, lines[1], "ALTA")
	assert.Contains(t, lines[2], "BAJA")
}

func TestRowsEmptyInput(t *testing.T) {
	assert.Empty(t, Rows(nil))
}

func TestCompleteness(t *testing.T) {
	rows := Rows(sampleEmployees(t, true))
	counts := Completeness(rows)

	// Every column is accounted for, filled or not.
	assert.Len(t, counts, len(constants.OutputColumns)+len(constants.ClientColumns))

	assert.Equal(t, 2, counts["Numero_Afiliacion"])
	assert.Equal(t, 2, counts["Situacion"])
	assert.Equal(t, 2, counts["F_Real_Alta"])
	assert.Equal(t, 1, counts["F_Real_Sit"], "only the baja row has a sit date")
	assert.Equal(t, 1, counts["CLV"])
	assert.Equal(t, 1, counts["T_C"])
	assert.Equal(t, 0, counts["EP_OC"])
	assert.Equal(t, 2, counts["Codigo_Cliente"])
	assert.Equal(t, 0, counts["Sexo"])
}

func TestCompletenessEmpty(t *testing.T) {
	counts := Completeness(nil)
	assert.Equal(t, 0, counts["Numero_Afiliacion"])
}
