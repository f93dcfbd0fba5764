package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarrero/vidalaboral/constants"
	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

func mustDate(t *testing.T, s string) entity.Date {
	t.Helper()
	d, err := entity.ParseDate(s)
	require.NoError(t, err)
	return d
}

func statusField(line int, sit constants.Situation) entity.ParsedField {
	return entity.ParsedField{Kind: entity.KindStatus, Page: 1, Line: line, Situation: sit, Text: string(sit)}
}

func dateField(t *testing.T, line, col int, s string) entity.ParsedField {
	return entity.ParsedField{Kind: entity.KindDate, Page: 1, Line: line, Column: col, Date: mustDate(t, s), Text: s}
}

func numField(line, col int, text string) entity.ParsedField {
	return entity.ParsedField{Kind: entity.KindNumeric, Page: 1, Line: line, Column: col, Text: text}
}

func codeField(line int, text string) entity.ParsedField {
	return entity.ParsedField{Kind: entity.KindCode, Page: 1, Line: line, Text: text}
}

func block(name string, fields ...entity.ParsedField) entity.EmployeeBlock {
	return entity.EmployeeBlock{
		Affiliation: "28 0123456789",
		DocumentID:  "0 12345678Z",
		Name:        name,
		Page:        1,
		StartLine:   1,
		Fields:      fields,
	}
}

func TestReconcileAltaAndBajaOrdered(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(3, constants.Baja),
		dateField(t, 3, 0, "15/06/2023"),
		statusField(2, constants.Alta),
		dateField(t, 2, 0, "01/01/2020"),
	)
	// Reorder fields so BAJA appears first in the document: the output
	// must still be chronological.
	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)

	emp := emps[0]
	assert.Equal(t, "JUAN GARCIA", emp.Name)
	require.Len(t, emp.Events, 2)
	assert.Equal(t, constants.Alta, emp.Events[0].Situacion)
	assert.Equal(t, "01/01/2020", emp.Events[0].RealAlta.String())
	assert.Equal(t, constants.Baja, emp.Events[1].Situacion)
	assert.Equal(t, "15/06/2023", emp.Events[1].RealSit.String())
}

func TestReconcileSingleDateFillsBothSlots(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")

	alta := block("JUAN GARCIA",
		statusField(2, constants.Alta),
		dateField(t, 2, 0, "01/01/2020"),
	)
	baja := block("ANA RUIZ LOPEZ",
		statusField(2, constants.Baja),
		dateField(t, 2, 0, "15/06/2023"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{alta, baja}, diag)
	require.Len(t, emps, 2)

	a := emps[0].Events[0]
	assert.Equal(t, "01/01/2020", a.RealAlta.String())
	assert.Equal(t, "01/01/2020", a.EfectoAlta.String())

	bj := emps[1].Events[0]
	assert.Equal(t, "15/06/2023", bj.RealSit.String())
	assert.Equal(t, "15/06/2023", bj.EfectoSit.String())
}

func TestReconcileBajaFourDates(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(2, constants.Baja),
		dateField(t, 2, 0, "10/05/2018"),
		dateField(t, 2, 1, "10/05/2018"),
		dateField(t, 2, 2, "30/09/2021"),
		dateField(t, 2, 3, "01/10/2021"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	ev := emps[0].Events[0]
	assert.Equal(t, "10/05/2018", ev.RealAlta.String())
	assert.Equal(t, "10/05/2018", ev.EfectoAlta.String())
	assert.Equal(t, "30/09/2021", ev.RealSit.String())
	assert.Equal(t, "01/10/2021", ev.EfectoSit.String())
}

func TestReconcileCombinedRowSplitsAndShares(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(2, constants.Alta),
		statusField(2, constants.Baja),
		dateField(t, 2, 0, "10/05/2018"),
		dateField(t, 2, 1, "10/05/2018"),
		dateField(t, 2, 2, "30/09/2021"),
		dateField(t, 2, 3, "01/10/2021"),
		numField(2, 0, "08"),
		numField(2, 1, "540"),
		numField(2, 2, "0,250"),
		numField(2, 3, "1,80"),
		numField(2, 4, "1,50"),
		numField(2, 5, "3,30"),
		numField(2, 6, "1794"),
		codeField(2, "FE4"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	require.Len(t, emps[0].Events, 2)

	alta, baja := emps[0].Events[0], emps[0].Events[1]
	assert.Equal(t, constants.Alta, alta.Situacion)
	assert.Equal(t, constants.Baja, baja.Situacion)

	// The alta pair comes from the baja row's leading dates.
	assert.Equal(t, "10/05/2018", alta.RealAlta.String())
	assert.Equal(t, "10/05/2018", alta.EfectoAlta.String())
	assert.Equal(t, "30/09/2021", baja.RealSit.String())

	// Numeric columns and CLV are shared by both rows.
	for _, ev := range []entity.StatusEvent{alta, baja} {
		assert.Equal(t, "08", ev.GCM)
		assert.Equal(t, "540", ev.TC)
		assert.Equal(t, constants.DefaultCTP, ev.CTP)
		assert.Equal(t, "0,250", ev.EPOC)
		assert.Equal(t, "1,80", ev.TiposATIT)
		assert.Equal(t, "1,50", ev.IMS)
		assert.Equal(t, "3,30", ev.Total)
		assert.Equal(t, "1794", ev.DiasCot)
		assert.Equal(t, "FE4", ev.CLV)
	}
	assert.Empty(t, diag.Warnings)
}

func TestReconcileNumericsWithoutAnchorWarn(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(2, constants.Alta),
		dateField(t, 2, 0, "01/01/2020"),
		numField(2, 0, "08"),
		numField(2, 1, "540"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	ev := emps[0].Events[0]
	assert.Empty(t, ev.GCM)
	assert.Equal(t, 1, diag.Count(common.ParseWarning))
}

func TestReconcileRetroDateRow(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(2, constants.Alta),
		dateField(t, 3, 0, "01/01/2020"),
		dateField(t, 3, 1, "02/01/2020"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	ev := emps[0].Events[0]
	assert.Equal(t, "01/01/2020", ev.RealAlta.String())
	assert.Equal(t, "02/01/2020", ev.EfectoAlta.String())
}

func TestReconcileDeduplicatesRepeatedOccurrence(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(2, constants.Alta),
		dateField(t, 2, 0, "01/01/2020"),
		dateField(t, 2, 1, "01/01/2020"),
		statusField(5, constants.Alta),
		dateField(t, 5, 0, "01/01/2020"),
		dateField(t, 5, 1, "01/01/2020"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	assert.Len(t, emps[0].Events, 1)
}

func TestReconcileMergesBlocksOfSameEmployee(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")

	// The same occurrence reported in two separate blocks collapses to
	// a single event on a single employee.
	blocks := []entity.EmployeeBlock{
		block("JUAN GARCIA",
			statusField(2, constants.Alta),
			dateField(t, 2, 0, "01/01/2020"),
		),
		block("JUAN GARCIA",
			statusField(20, constants.Alta),
			dateField(t, 20, 0, "01/01/2020"),
		),
	}

	emps := New(Config{}).Reconcile(blocks, diag)
	require.Len(t, emps, 1)
	assert.Len(t, emps[0].Events, 1)
}

func TestReconcileMergeCombinesDistinctEvents(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")

	// Accent differences still group; distinct occurrences accumulate
	// and come out chronological. The second block also backfills the
	// first block's missing identifiers.
	first := block("JOSÉ MUÑOZ VEGA",
		statusField(2, constants.Baja),
		dateField(t, 2, 0, "15/06/2023"),
	)
	first.Affiliation = ""
	first.DocumentID = ""
	second := block("JOSE MUNOZ VEGA",
		statusField(30, constants.Alta),
		dateField(t, 30, 0, "01/01/2020"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{first, second}, diag)
	require.Len(t, emps, 1)

	emp := emps[0]
	assert.Equal(t, "JOSÉ MUÑOZ VEGA", emp.Name, "first-seen name is kept")
	assert.Equal(t, "28 0123456789", emp.Affiliation)
	assert.Equal(t, "0 12345678Z", emp.DocumentID)

	require.Len(t, emp.Events, 2)
	assert.Equal(t, constants.Alta, emp.Events[0].Situacion)
	assert.Equal(t, constants.Baja, emp.Events[1].Situacion)
}

func TestReconcileDifferentEmployeesStaySeparate(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	blocks := []entity.EmployeeBlock{
		block("JUAN GARCIA", statusField(2, constants.Alta), dateField(t, 2, 0, "01/01/2020")),
		block("ANA RUIZ LOPEZ", statusField(10, constants.Alta), dateField(t, 10, 0, "01/01/2020")),
	}

	emps := New(Config{}).Reconcile(blocks, diag)
	require.Len(t, emps, 2)
	assert.Equal(t, "JUAN GARCIA", emps[0].Name)
	assert.Equal(t, "ANA RUIZ LOPEZ", emps[1].Name)
}

func TestReconcileBlockWithoutStatusRows(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA")

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	assert.Empty(t, emps[0].Events)
	assert.Empty(t, diag.Warnings)
}

func TestReconcileInvalidNamesSkipped(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	deny := "LACIOSN ÓZRA NÓCIAZITCO DE ANTCUE OGDICÓ"

	blocks := []entity.EmployeeBlock{
		block(""),
		block("123 456789"),
		block(deny),
		block("JUAN GARCIA", statusField(2, constants.Alta), dateField(t, 2, 0, "01/01/2020")),
	}

	emps := New(Config{NameDenylist: []string{deny}}).Reconcile(blocks, diag)
	require.Len(t, emps, 1)
	assert.Equal(t, "JUAN GARCIA", emps[0].Name)
	assert.Equal(t, 3, diag.Count(common.ValidationSkip))
}

func TestReconcileDatelessEventsSortLast(t *testing.T) {
	diag := common.NewDiagnostics("test.pdf")
	b := block("JUAN GARCIA",
		statusField(2, constants.Baja),
		statusField(8, constants.Alta),
		dateField(t, 8, 0, "01/01/2020"),
	)

	emps := New(Config{}).Reconcile([]entity.EmployeeBlock{b}, diag)
	require.Len(t, emps, 1)
	require.Len(t, emps[0].Events, 2)
	assert.Equal(t, constants.Alta, emps[0].Events[0].Situacion)
	assert.True(t, emps[0].Events[1].EarliestDate().IsZero())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "GARCIA MUNOZ JOSE", NormalizeName("garcía  Muñoz JOSÉ"))
	assert.Equal(t, "PEREZ LOPEZ ANA", NormalizeName(" PEREZ LOPEZ ANA "))
}
