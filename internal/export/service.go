// Package export renders reconciled employees to XLSX workbooks and
// CSV files, one row per status event, in the official column order.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/dmarrero/vidalaboral/constants"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

const sheetName = "Situaciones"

// Service produces export artifacts from reconciled employees.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Row is one flattened output row. Client columns stay empty when no
// roster join was performed.
type Row struct {
	Affiliation string `csv:"Numero_Afiliacion"`
	Situacion   string `csv:"Situacion"`
	DocumentID  string `csv:"Documento_Identificativo"`
	RealAlta    string `csv:"F_Real_Alta"`
	EfectoAlta  string `csv:"F_Efecto_Alta"`
	RealSit     string `csv:"F_Real_Sit"`
	EfectoSit   string `csv:"F_Efecto_Sit"`
	Name        string `csv:"Nombre_Apellidos"`
	GCM         string `csv:"G_C_M"`
	TC          string `csv:"T_C"`
	CTP         string `csv:"C_T_P"`
	EPOC        string `csv:"EP_OC"`
	TiposATIT   string `csv:"Tipos_AT_IT"`
	IMS         string `csv:"IMS"`
	Total       string `csv:"Total"`
	DiasCot     string `csv:"Dias_Cot"`
	CLV         string `csv:"CLV"`

	ClientCode string `csv:"Codigo_Cliente"`
	BirthDate  string `csv:"Nacimiento"`
	Position   string `csv:"Puesto"`
	Sex        string `csv:"Sexo"`
	ClientAlta string `csv:"Alta_Cliente"`
	Final      string `csv:"Final_Cliente"`
	Antiguedad string `csv:"Antiguedad_Cliente"`
}

// Rows flattens employees into output rows, preserving employee order
// and each employee's chronological event order.
func Rows(employees []entity.ReconciledEmployee) []Row {
	var rows []Row
	for _, emp := range employees {
		for i := range emp.Events {
			rows = append(rows, rowOf(&emp.Events[i]))
		}
	}
	return rows
}

func rowOf(ev *entity.StatusEvent) Row {
	r := Row{
		Affiliation: ev.Affiliation,
		Situacion:   string(ev.Situacion),
		DocumentID:  ev.DocumentID,
		RealAlta:    ev.RealAlta.String(),
		EfectoAlta:  ev.EfectoAlta.String(),
		RealSit:     ev.RealSit.String(),
		EfectoSit:   ev.EfectoSit.String(),
		Name:        ev.Name,
		GCM:         ev.GCM,
		TC:          ev.TC,
		CTP:         ev.CTP,
		EPOC:        ev.EPOC,
		TiposATIT:   ev.TiposATIT,
		IMS:         ev.IMS,
		Total:       ev.Total,
		DiasCot:     ev.DiasCot,
		CLV:         ev.CLV,
	}
	if c := ev.Client; c != nil {
		r.ClientCode = c.Code
		r.BirthDate = c.BirthDate
		r.Position = c.Position
		r.Sex = c.Sex
		r.ClientAlta = c.Alta
		r.Final = c.Final
		r.Antiguedad = c.Antiguedad
	}
	return r
}

// Completeness counts filled cells per output column across the given
// rows, client columns included. The counts feed the run summary so
// systematically empty columns are visible without opening the output.
func Completeness(rows []Row) map[string]int {
	headers := append(append([]string{}, constants.OutputColumns...), constants.ClientColumns...)
	counts := make(map[string]int, len(headers))
	for _, h := range headers {
		counts[h] = 0
	}
	for _, r := range rows {
		for i, v := range r.cells(true) {
			if v != "" {
				counts[headers[i]]++
			}
		}
	}
	return counts
}

func (s *Service) logCompleteness(rows []Row) {
	s.logger.Info("export.completeness",
		"rows", len(rows),
		"filled", Completeness(rows),
	)
}

// XLSX returns a workbook with one row per status event. Client
// columns are appended only when a join populated them.
func (s *Service) XLSX(employees []entity.ReconciledEmployee, withClient bool) ([]byte, error) {
	start := time.Now()
	rows := Rows(employees)

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	if def := f.GetSheetName(0); def != sheetName {
		_ = f.DeleteSheet(def)
	}

	headers := constants.OutputColumns
	if withClient {
		headers = append(append([]string{}, headers...), constants.ClientColumns...)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for i, r := range rows {
		cells := r.cells(withClient)
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 16) // affiliation
	_ = f.SetColWidth(sheetName, "C", "C", 14) // document id
	_ = f.SetColWidth(sheetName, "D", "G", 12) // dates
	_ = f.SetColWidth(sheetName, "H", "H", 32) // name

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"employees", len(employees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	s.logCompleteness(rows)
	return buf.Bytes(), nil
}

func (r Row) cells(withClient bool) []string {
	cells := []string{
		r.Affiliation, r.Situacion, r.DocumentID,
		r.RealAlta, r.EfectoAlta, r.RealSit, r.EfectoSit,
		r.Name,
		r.GCM, r.TC, r.CTP, r.EPOC, r.TiposATIT, r.IMS, r.Total, r.DiasCot, r.CLV,
	}
	if withClient {
		cells = append(cells, r.ClientCode, r.BirthDate, r.Position, r.Sex, r.ClientAlta, r.Final, r.Antiguedad)
	}
	return cells
}

// CSV writes all rows with the full header, client columns included;
// they are empty without a roster join.
func (s *Service) CSV(w io.Writer, employees []entity.ReconciledEmployee) error {
	start := time.Now()
	rows := Rows(employees)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	s.logger.Info("export.csv.ok",
		"rows", len(rows),
		"employees", len(employees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	s.logCompleteness(rows)
	return nil
}
