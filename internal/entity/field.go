package entity

import (
	"github.com/shopspring/decimal"

	"github.com/dmarrero/vidalaboral/constants"
)

// FieldKind tags the typed value a ParsedField carries.
type FieldKind string

const (
	KindDate        FieldKind = "DATE"
	KindStatus      FieldKind = "STATUS"
	KindIdentifier  FieldKind = "IDENTIFIER"  // affiliation number
	KindDocumentID  FieldKind = "DOCUMENT_ID" // DNI/NIE
	KindName        FieldKind = "NAME"
	KindNumeric     FieldKind = "NUMERIC"
	KindColumnLabel FieldKind = "COLUMN_LABEL"
	KindCode        FieldKind = "CODE" // trailing CLV code
)

// ParsedField is one typed value recognized on a cleaned line. Page/Line
// are a weak back-reference to the source line; Column is the field's
// ordinal position among same-line fields of the same kind; Offset is
// the byte offset of the match, used to reconstruct row structure when
// one line carries several field kinds.
type ParsedField struct {
	Kind   FieldKind
	Page   int
	Line   int
	Column int
	Offset int

	Text      string              // canonical text form of the value
	Date      Date                // set for KindDate
	Situation constants.Situation // set for KindStatus
	Value     decimal.Decimal     // set for KindNumeric
	Label     string              // set for KindColumnLabel and labelled numerics
}
