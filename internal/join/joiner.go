// Package join matches reconciled employees against a client roster by
// name. Exact matches on the normalized name come first; a bounded
// fuzzy fallback absorbs minor extraction noise. Unmatched employees
// pass through untouched, and roster rows with no counterpart in the
// report are ignored.
package join

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dmarrero/vidalaboral/internal/entity"
	"github.com/dmarrero/vidalaboral/internal/reconcile"
)

type Config struct {
	// FuzzyThreshold is the minimum similarity for a fuzzy name match,
	// in (0,1]. Exact matches bypass it.
	FuzzyThreshold float64
}

type Joiner struct {
	threshold float64
}

func New(cfg Config) *Joiner {
	return &Joiner{threshold: cfg.FuzzyThreshold}
}

// rosterKey is a roster row indexed under its normalized name.
type rosterKey struct {
	key  string
	info entity.ClientInfo
}

// Result summarizes one join pass.
type Result struct {
	Matched   int
	Fuzzy     int
	Unmatched int
}

// Join annotates each employee's events with client data when a roster
// row matches the employee's name. Employees are modified in place.
func (j *Joiner) Join(employees []entity.ReconciledEmployee, roster []entity.RosterEntry) Result {
	exact := make(map[string]entity.ClientInfo, len(roster))
	keys := make([]rosterKey, 0, len(roster))
	for _, r := range roster {
		key := NormalizeRosterName(r.Name)
		if key == "" {
			continue
		}
		info := entity.ClientInfo{
			Code:       r.Code,
			BirthDate:  r.BirthDate,
			Position:   r.Position,
			Sex:        r.Sex,
			Alta:       r.Alta,
			Final:      r.Final,
			Antiguedad: r.Antiguedad,
		}
		if _, dup := exact[key]; !dup {
			exact[key] = info
			keys = append(keys, rosterKey{key: key, info: info})
		}
	}

	var res Result
	for i := range employees {
		emp := &employees[i]
		info, kind := j.lookup(emp.NormalizedName, exact, keys)
		switch kind {
		case matchNone:
			res.Unmatched++
			continue
		case matchExact:
			res.Matched++
		case matchFuzzy:
			res.Fuzzy++
		}
		for k := range emp.Events {
			c := info
			emp.Events[k].Client = &c
		}
	}
	return res
}

type matchKind int

const (
	matchNone matchKind = iota
	matchExact
	matchFuzzy
)

func (j *Joiner) lookup(name string, exact map[string]entity.ClientInfo, keys []rosterKey) (entity.ClientInfo, matchKind) {
	if name == "" {
		return entity.ClientInfo{}, matchNone
	}
	if info, ok := exact[name]; ok {
		return info, matchExact
	}

	best := entity.ClientInfo{}
	bestScore := j.threshold
	found := false
	for _, rk := range keys {
		score := similarity(name, rk.key)
		if score > bestScore || (score == bestScore && !found) {
			best = rk.info
			bestScore = score
			found = true
		}
	}
	if !found {
		return entity.ClientInfo{}, matchNone
	}
	return best, matchFuzzy
}

// similarity maps Levenshtein distance into [0,1]: 1 is identical, 0
// shares nothing.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// NormalizeRosterName folds a roster name into the same key space as
// extracted names. Rosters commonly use "APELLIDOS, NOMBRE"; the comma
// form is flipped into the report's "APELLIDOS NOMBRE" order.
func NormalizeRosterName(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i] + " " + s[i+1:]
	}
	return reconcile.NormalizeName(s)
}
