// Package reconcile turns employee blocks into validated, ordered
// status events: one output row per ALTA or BAJA occurrence, with
// dates slotted into their real/effect columns and numeric values
// assigned to named columns.
package reconcile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dmarrero/vidalaboral/constants"
	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

// reAnchor matches the Tipos AT/IT column value: a decimal with exactly
// two fraction digits. It anchors positional numeric assignment when no
// header labels are available.
var reAnchor = regexp.MustCompile(`^\d+,\d{2}$`)

var reAllDigits = regexp.MustCompile(`^[\d ]+$`)

// maxRetroRows is how many rows a date-only continuation may trail the
// status row it completes.
const maxRetroRows = 3

type Config struct {
	NameDenylist []string
}

type Engine struct {
	denylist map[string]struct{}
}

func New(cfg Config) *Engine {
	deny := make(map[string]struct{}, len(cfg.NameDenylist))
	for _, n := range cfg.NameDenylist {
		deny[NormalizeName(n)] = struct{}{}
	}
	return &Engine{denylist: deny}
}

// Reconcile validates each block, expands its status rows into events
// and folds blocks of the same employee together. One employee comes
// out per distinct normalized name, in first-seen order; repeated
// occurrences across blocks collapse, the first block's event winning.
// A block with no status rows yields an employee with zero events.
func (e *Engine) Reconcile(blocks []entity.EmployeeBlock, diag *common.Diagnostics) []entity.ReconciledEmployee {
	var out []entity.ReconciledEmployee
	index := make(map[string]int)
	for i := range blocks {
		b := &blocks[i]
		if reason := e.invalidName(b.Name); reason != "" {
			diag.AddValidationSkip(b.Page, b.StartLine, b.Name, "employee block skipped: %s", reason)
			continue
		}
		emp := e.reconcileBlock(b, diag)
		j, seen := index[emp.NormalizedName]
		if !seen {
			index[emp.NormalizedName] = len(out)
			out = append(out, emp)
			continue
		}
		merge(&out[j], &emp)
	}
	return out
}

// merge folds a later block of the same employee into the first one.
// Identity fields fill empty slots; duplicate occurrences are dropped
// and the combined events re-sorted.
func merge(dst, src *entity.ReconciledEmployee) {
	if dst.Affiliation == "" {
		dst.Affiliation = src.Affiliation
	}
	if dst.DocumentID == "" {
		dst.DocumentID = src.DocumentID
	}
	for i := range src.Events {
		dup := false
		for j := range dst.Events {
			if dst.Events[j].SameOccurrence(&src.Events[i]) {
				dup = true
				break
			}
		}
		if !dup {
			dst.Events = append(dst.Events, src.Events[i])
		}
	}
	sortEvents(dst.Events)
}

func (e *Engine) invalidName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "empty name"
	}
	if reAllDigits.MatchString(trimmed) {
		return "numeric name"
	}
	if _, deny := e.denylist[NormalizeName(trimmed)]; deny {
		return "denylisted name"
	}
	return ""
}

// pendingEvent is an event still waiting for its dates from a
// continuation row.
type pendingEvent struct {
	ev       *entity.StatusEvent
	rowsLeft int
}

func (e *Engine) reconcileBlock(b *entity.EmployeeBlock, diag *common.Diagnostics) entity.ReconciledEmployee {
	emp := entity.ReconciledEmployee{
		Name:           b.Name,
		NormalizedName: NormalizeName(b.Name),
		Affiliation:    b.Affiliation,
		DocumentID:     b.DocumentID,
	}

	var events []*entity.StatusEvent
	var pending []pendingEvent

	for _, row := range rowsOf(b.Fields) {
		statuses := row.ofKind(entity.KindStatus)
		dates := datesOf(row)

		if len(statuses) == 0 {
			// Continuation row: dates here complete the most recent
			// event that is still missing them.
			if len(dates) > 0 && len(pending) > 0 {
				p := pending[len(pending)-1]
				applyDates(p.ev, dates)
				pending = pending[:len(pending)-1]
			}
			pending = ageOut(pending)
			continue
		}

		rowEvents := e.expandRow(b, row, statuses, dates, diag)
		for _, ev := range rowEvents {
			events = append(events, ev)
			if !hasDates(ev) {
				pending = append(pending, pendingEvent{ev: ev, rowsLeft: maxRetroRows})
			}
		}
		pending = ageOut(pending)
	}

	emp.Events = dedupe(events)
	sortEvents(emp.Events)
	return emp
}

// expandRow builds the events for one status row. A combined row
// carrying both ALTA and BAJA becomes two events that share the row's
// numeric columns and CLV code; the BAJA's leading date pair doubles as
// the ALTA's dates.
func (e *Engine) expandRow(b *entity.EmployeeBlock, row lineRow, statuses []entity.ParsedField, dates []entity.Date, diag *common.Diagnostics) []*entity.StatusEvent {
	var evs []*entity.StatusEvent
	for _, sit := range uniqueSituations(statuses) {
		ev := &entity.StatusEvent{
			Affiliation: b.Affiliation,
			DocumentID:  b.DocumentID,
			Name:        b.Name,
			Situacion:   sit,
		}
		switch sit {
		case constants.Alta:
			applyAltaDates(ev, dates)
		case constants.Baja:
			applyBajaDates(ev, dates)
		}
		evs = append(evs, ev)
	}

	nums := row.ofKind(entity.KindNumeric)
	labels := row.ofKind(entity.KindColumnLabel)
	if len(nums) > 0 {
		if !assignNumerics(evs, nums, labels) {
			diag.AddParseWarning(row.page, row.line, rowText(nums),
				"numeric columns left unassigned: no anchor or labels")
		}
	}
	if code := row.ofKind(entity.KindCode); len(code) > 0 {
		for _, ev := range evs {
			ev.CLV = code[len(code)-1].Text
		}
	}
	return evs
}

// uniqueSituations keeps one status per situation, in order of first
// appearance so ALTA precedes BAJA on combined rows. Repeats of a
// situation collapse; dates and numerics are row-level, so the repeats
// carry no information of their own.
func uniqueSituations(statuses []entity.ParsedField) []constants.Situation {
	seen := make(map[constants.Situation]bool, 2)
	var out []constants.Situation
	for _, f := range statuses {
		if !seen[f.Situation] {
			seen[f.Situation] = true
			out = append(out, f.Situation)
		}
	}
	return out
}

// applyAltaDates slots an ALTA row's dates: real then effect; a lone
// date serves as both.
func applyAltaDates(ev *entity.StatusEvent, dates []entity.Date) {
	switch {
	case len(dates) >= 2:
		ev.RealAlta, ev.EfectoAlta = dates[0], dates[1]
	case len(dates) == 1:
		ev.RealAlta, ev.EfectoAlta = dates[0], dates[0]
	}
}

// applyBajaDates slots a BAJA row's dates. Full rows repeat the alta
// pair before the baja pair; shorter rows carry only the baja side.
func applyBajaDates(ev *entity.StatusEvent, dates []entity.Date) {
	switch {
	case len(dates) >= 4:
		ev.RealAlta, ev.EfectoAlta = dates[0], dates[1]
		ev.RealSit, ev.EfectoSit = dates[2], dates[3]
	case len(dates) == 3:
		ev.RealAlta = dates[0]
		ev.RealSit, ev.EfectoSit = dates[1], dates[2]
	case len(dates) == 2:
		ev.RealSit, ev.EfectoSit = dates[0], dates[1]
	case len(dates) == 1:
		ev.RealSit, ev.EfectoSit = dates[0], dates[0]
	}
}

func applyDates(ev *entity.StatusEvent, dates []entity.Date) {
	switch ev.Situacion {
	case constants.Alta:
		applyAltaDates(ev, dates)
	case constants.Baja:
		applyBajaDates(ev, dates)
	}
}

// assignNumerics maps a row's numeric values onto the named columns of
// every event built from that row. Header labels on the same row win;
// otherwise the two-decimal Tipos AT/IT value anchors positional
// assignment. Returns false when neither strategy applies.
func assignNumerics(evs []*entity.StatusEvent, nums, labels []entity.ParsedField) bool {
	if len(evs) == 0 {
		return true
	}

	if len(labels) == len(nums) && len(labels) > 0 {
		for i, lf := range labels {
			setColumn(evs, lf.Label, nums[i].Text)
		}
		fillDefaults(evs)
		return true
	}

	anchor := -1
	for i, f := range nums {
		if reAnchor.MatchString(f.Text) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return false
	}

	before := nums[:anchor]
	switch len(before) {
	case 4:
		setColumn(evs, "G_C_M", before[0].Text)
		setColumn(evs, "T_C", before[1].Text)
		setColumn(evs, "C_T_P", before[2].Text)
		setColumn(evs, "EP_OC", before[3].Text)
	case 3:
		setColumn(evs, "G_C_M", before[0].Text)
		setColumn(evs, "T_C", before[1].Text)
		setColumn(evs, "EP_OC", before[2].Text)
	case 2:
		setColumn(evs, "G_C_M", before[0].Text)
		setColumn(evs, "T_C", before[1].Text)
	case 1:
		setColumn(evs, "G_C_M", before[0].Text)
	}

	setColumn(evs, "Tipos_AT_IT", nums[anchor].Text)

	after := nums[anchor+1:]
	slots := []string{"IMS", "Total", "Dias_Cot"}
	for i, f := range after {
		if i >= len(slots) {
			break
		}
		setColumn(evs, slots[i], f.Text)
	}

	fillDefaults(evs)
	return true
}

func setColumn(evs []*entity.StatusEvent, column, value string) {
	for _, ev := range evs {
		switch column {
		case "G_C_M":
			ev.GCM = value
		case "T_C":
			ev.TC = value
		case "C_T_P":
			ev.CTP = value
		case "EP_OC":
			ev.EPOC = value
		case "Tipos_AT_IT":
			ev.TiposATIT = value
		case "IMS":
			ev.IMS = value
		case "Total":
			ev.Total = value
		case "Dias_Cot":
			ev.DiasCot = value
		}
	}
}

// fillDefaults applies the full-time default to rows that omit the
// part-time percentage column.
func fillDefaults(evs []*entity.StatusEvent) {
	for _, ev := range evs {
		if ev.CTP == "" {
			ev.CTP = constants.DefaultCTP
		}
	}
}

func hasDates(ev *entity.StatusEvent) bool {
	return !ev.EarliestDate().IsZero()
}

func ageOut(pending []pendingEvent) []pendingEvent {
	kept := pending[:0]
	for _, p := range pending {
		p.rowsLeft--
		if p.rowsLeft > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

// dedupe drops exact repeats of the same occurrence, keeping the first.
func dedupe(events []*entity.StatusEvent) []entity.StatusEvent {
	var out []entity.StatusEvent
	for _, ev := range events {
		dup := false
		for i := range out {
			if out[i].SameOccurrence(ev) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, *ev)
		}
	}
	return out
}

// sortEvents orders chronologically by earliest date; dateless events
// sink to the end in their original relative order.
func sortEvents(events []entity.StatusEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		di, dj := events[i].EarliestDate(), events[j].EarliestDate()
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.Before(dj)
	})
}

// lineRow is a block's fields regrouped by source line, in order.
type lineRow struct {
	page, line int
	fields     []entity.ParsedField
}

func (r lineRow) ofKind(kind entity.FieldKind) []entity.ParsedField {
	var out []entity.ParsedField
	for _, f := range r.fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func datesOf(r lineRow) []entity.Date {
	var out []entity.Date
	for _, f := range r.ofKind(entity.KindDate) {
		out = append(out, f.Date)
	}
	return out
}

func rowText(fields []entity.ParsedField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

func rowsOf(fields []entity.ParsedField) []lineRow {
	var rows []lineRow
	for _, f := range fields {
		n := len(rows)
		if n > 0 && rows[n-1].page == f.Page && rows[n-1].line == f.Line {
			rows[n-1].fields = append(rows[n-1].fields, f)
			continue
		}
		rows = append(rows, lineRow{page: f.Page, line: f.Line, fields: []entity.ParsedField{f}})
	}
	return rows
}
