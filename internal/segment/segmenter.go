// Package segment groups parsed fields into per-employee blocks. A
// block opens at an affiliation number, or at a bare name when no
// block is open, and collects the status rows that follow until the
// next anchor or a page break.
package segment

import (
	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

// maxAttachDistance is how many lines a detached row may trail the
// block it belongs to. Page breaks split a block's rows across pages;
// anything further away is treated as noise.
const maxAttachDistance = 3

type Segmenter struct{}

func New() *Segmenter {
	return &Segmenter{}
}

// lineGroup is all fields parsed from one source line.
type lineGroup struct {
	page, line int
	fields     []entity.ParsedField
}

// Segment walks fields in document order and produces employee blocks.
// Rows that cannot be attached to any block are dropped and recorded
// on the diagnostics report. Blocks without status rows are still
// emitted; validation happens downstream.
func (s *Segmenter) Segment(fields []entity.ParsedField, diag *common.Diagnostics) []entity.EmployeeBlock {
	groups := groupByLine(fields)

	var out []*entity.EmployeeBlock
	var cur *entity.EmployeeBlock
	var last *entity.EmployeeBlock
	sinceClose := 0

	closeCur := func() {
		if cur == nil {
			return
		}
		// A name anchor that never collected an identifier or a single
		// data row is extraction noise, not an employee.
		if cur.Affiliation == "" && cur.DocumentID == "" && len(cur.Fields) == 0 {
			diag.AddSegmentationWarning(cur.Page, cur.StartLine, cur.Name,
				"name anchor with no attached rows dropped")
			cur = nil
			return
		}
		out = append(out, cur)
		last = cur
		cur = nil
		sinceClose = 0
	}

	open := func(g lineGroup) {
		cur = &entity.EmployeeBlock{Page: g.page, StartLine: g.line}
		attach(cur, g)
	}

	for _, g := range groups {
		if cur != nil && g.page != cur.Page {
			closeCur()
		}

		if anchor := firstOfKind(g.fields, entity.KindIdentifier); anchor != nil {
			// A name anchor just above adopts the identifier instead of
			// being displaced by it.
			adopt := cur != nil && cur.Affiliation == "" && len(cur.Fields) == 0 &&
				g.line-cur.StartLine <= maxAttachDistance
			if !adopt {
				closeCur()
				open(g)
				continue
			}
			attach(cur, g)
			continue
		}

		name := firstOfKind(g.fields, entity.KindName)

		if cur == nil {
			switch {
			case name != nil:
				open(g)
			case hasData(g.fields):
				if last != nil && sinceClose < maxAttachDistance {
					attach(last, g)
				} else {
					diag.AddSegmentationWarning(g.page, g.line, describe(g.fields),
						"data row outside any employee block dropped")
				}
				sinceClose++
			}
			continue
		}

		// A fresh bare name while a named block is open anchors the
		// next employee.
		if name != nil && cur.Name != "" && name.Text != cur.Name && !hasData(g.fields) {
			closeCur()
			open(g)
			continue
		}

		attach(cur, g)
	}

	closeCur()

	blocks := make([]entity.EmployeeBlock, len(out))
	for i, b := range out {
		blocks[i] = *b
	}
	return blocks
}

// attach folds a line's fields into a block. Identity fields fill empty
// slots; everything else joins the block's field list for the
// reconciliation engine.
func attach(b *entity.EmployeeBlock, g lineGroup) {
	for _, f := range g.fields {
		switch f.Kind {
		case entity.KindIdentifier:
			if b.Affiliation == "" {
				b.Affiliation = f.Text
			}
		case entity.KindDocumentID:
			if b.DocumentID == "" {
				b.DocumentID = f.Text
			}
		case entity.KindName:
			if b.Name == "" {
				b.Name = f.Text
			}
		default:
			b.Fields = append(b.Fields, f)
		}
	}
}

func hasData(fields []entity.ParsedField) bool {
	for _, f := range fields {
		switch f.Kind {
		case entity.KindStatus, entity.KindDate, entity.KindNumeric, entity.KindCode:
			return true
		}
	}
	return false
}

func firstOfKind(fields []entity.ParsedField, kind entity.FieldKind) *entity.ParsedField {
	for i := range fields {
		if fields[i].Kind == kind {
			return &fields[i]
		}
	}
	return nil
}

func describe(fields []entity.ParsedField) string {
	if len(fields) == 0 {
		return ""
	}
	return fields[0].Text
}

func groupByLine(fields []entity.ParsedField) []lineGroup {
	var groups []lineGroup
	for _, f := range fields {
		n := len(groups)
		if n > 0 && groups[n-1].page == f.Page && groups[n-1].line == f.Line {
			groups[n-1].fields = append(groups[n-1].fields, f)
			continue
		}
		groups = append(groups, lineGroup{page: f.Page, line: f.Line, fields: []entity.ParsedField{f}})
	}
	return groups
}
