// Package reftable loads the client's reference roster from XLSX or
// CSV. Client workbooks often carry title rows above the real header,
// so the XLSX path scans for the header row instead of assuming row 1.
package reftable

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

// nameHeader is the column the join is keyed on; a sheet without it is
// not a roster.
const nameHeader = "Nombre2"

// headerSetters maps roster header names to entry fields. Matching is
// case-insensitive and ignores surrounding whitespace.
var headerSetters = map[string]func(*entity.RosterEntry, string){
	"nombre2":    func(e *entity.RosterEntry, v string) { e.Name = v },
	"código":     func(e *entity.RosterEntry, v string) { e.Code = v },
	"codigo":     func(e *entity.RosterEntry, v string) { e.Code = v },
	"n.i.f.":     func(e *entity.RosterEntry, v string) { e.NIF = v },
	"nif":        func(e *entity.RosterEntry, v string) { e.NIF = v },
	"nacimiento": func(e *entity.RosterEntry, v string) { e.BirthDate = v },
	"puesto":     func(e *entity.RosterEntry, v string) { e.Position = v },
	"sexo":       func(e *entity.RosterEntry, v string) { e.Sex = v },
	"alta":       func(e *entity.RosterEntry, v string) { e.Alta = v },
	"final":      func(e *entity.RosterEntry, v string) { e.Final = v },
	"antiguedad": func(e *entity.RosterEntry, v string) { e.Antiguedad = v },
	"antigüedad": func(e *entity.RosterEntry, v string) { e.Antiguedad = v },
}

// Load reads a roster file, dispatching on extension.
func Load(path string) ([]entity.RosterEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, common.NewAppError("ROSTER_OPEN_FAILED", "failed to open roster file", err)
		}
		defer f.Close()
		return LoadCSV(f)
	default:
		return nil, common.NewAppError("ROSTER_UNSUPPORTED_FORMAT",
			"roster must be .xlsx or .csv: "+path, common.ErrInvalidInput)
	}
}

// LoadCSV reads a roster from CSV with a header row.
func LoadCSV(r io.Reader) ([]entity.RosterEntry, error) {
	var entries []entity.RosterEntry
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return nil, common.NewAppError("ROSTER_PARSE_FAILED", "failed to parse roster CSV", err)
	}
	return prune(entries), nil
}

// LoadXLSX reads a roster from the first sheet of an XLSX workbook.
func LoadXLSX(path string) ([]entity.RosterEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewAppError("ROSTER_OPEN_FAILED", "failed to open roster workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("ROSTER_EMPTY", "roster workbook has no sheets", common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, common.NewAppError("ROSTER_READ_FAILED", "failed to read roster sheet", err)
	}

	headerIdx, setters := findHeader(rows)
	if headerIdx < 0 {
		return nil, common.NewAppError("ROSTER_NO_HEADER",
			"roster sheet has no "+nameHeader+" header row", common.ErrInvalidInput)
	}

	var entries []entity.RosterEntry
	for _, row := range rows[headerIdx+1:] {
		var e entity.RosterEntry
		for col, set := range setters {
			if col < len(row) {
				set(&e, strings.TrimSpace(row[col]))
			}
		}
		entries = append(entries, e)
	}
	return prune(entries), nil
}

// findHeader locates the header row and returns per-column setters.
func findHeader(rows [][]string) (int, map[int]func(*entity.RosterEntry, string)) {
	for i, row := range rows {
		setters := make(map[int]func(*entity.RosterEntry, string))
		hasName := false
		for col, cell := range row {
			key := strings.ToLower(strings.TrimSpace(cell))
			if set, ok := headerSetters[key]; ok {
				setters[col] = set
				if strings.EqualFold(cell, nameHeader) {
					hasName = true
				}
			}
		}
		if hasName {
			return i, setters
		}
	}
	return -1, nil
}

// prune drops rows with no name: they can never join.
func prune(entries []entity.RosterEntry) []entity.RosterEntry {
	out := entries[:0]
	for _, e := range entries {
		if strings.TrimSpace(e.Name) != "" {
			out = append(out, e)
		}
	}
	return out
}
