package constants

import (
	"strings"
)

// Situation is the canonical employment-status vocabulary found in
// Vida Laboral reports.
type Situation string

const (
	Alta Situation = "ALTA"
	Baja Situation = "BAJA"
)

var allSituations = []Situation{Alta, Baja}

func AsStringSlice() []string {
	result := make([]string, len(allSituations))
	for i, sit := range allSituations {
		result[i] = string(sit)
	}
	return result
}

// Canonicalize maps free text onto the Situation vocabulary.
// Matching is case-insensitive and whole-word only.
func Canonicalize(input string) (Situation, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	for _, sit := range allSituations {
		if normalized == string(sit) {
			return sit, true
		}
	}
	return "", false
}
