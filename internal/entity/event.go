package entity

import (
	"github.com/dmarrero/vidalaboral/constants"
)

// StatusEvent is one reconciled output row: one employee, one ALTA or
// BAJA event. Numeric columns keep their source locale form ("1,80");
// they are validated during parsing, not re-rendered.
type StatusEvent struct {
	Affiliation string
	Situacion   constants.Situation
	DocumentID  string

	RealAlta   Date
	EfectoAlta Date
	RealSit    Date
	EfectoSit  Date

	Name string

	GCM       string
	TC        string
	CTP       string
	EPOC      string
	TiposATIT string
	IMS       string
	Total     string
	DiasCot   string
	CLV       string

	Client *ClientInfo
}

// ReconciledEmployee is the set of StatusEvents belonging to one
// employee, ordered chronologically by effective date.
type ReconciledEmployee struct {
	Name           string
	NormalizedName string
	Affiliation    string
	DocumentID     string
	Events         []StatusEvent
}

// EarliestDate returns the event's earliest non-empty date field, or the
// zero Date when the event carries no dates at all.
func (e *StatusEvent) EarliestDate() Date {
	var earliest Date
	for _, d := range []Date{e.RealAlta, e.EfectoAlta, e.RealSit, e.EfectoSit} {
		if d.IsZero() {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	return earliest
}

// SameOccurrence reports whether two events are exact duplicates for
// deduplication purposes: same Situacion and all four dates equal.
func (e *StatusEvent) SameOccurrence(other *StatusEvent) bool {
	return e.Situacion == other.Situacion &&
		e.RealAlta == other.RealAlta &&
		e.EfectoAlta == other.EfectoAlta &&
		e.RealSit == other.RealSit &&
		e.EfectoSit == other.EfectoSit
}
