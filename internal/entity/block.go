package entity

// EmployeeBlock groups the ParsedFields believed to belong to one
// employee, anchored by an affiliation number, a document ID, or a bare
// name when no identifier is present. Mutable during segmentation only;
// the reconciliation engine consumes it and discards it.
type EmployeeBlock struct {
	Affiliation string
	DocumentID  string
	Name        string
	Page        int
	StartLine   int
	Fields      []ParsedField
}

// HasAnchor reports whether the block carries any identifying anchor.
func (b *EmployeeBlock) HasAnchor() bool {
	return b.Affiliation != "" || b.DocumentID != "" || b.Name != ""
}

// StatusCount counts the Situacion keywords attached to the block.
func (b *EmployeeBlock) StatusCount() int {
	n := 0
	for _, f := range b.Fields {
		if f.Kind == KindStatus {
			n++
		}
	}
	return n
}
