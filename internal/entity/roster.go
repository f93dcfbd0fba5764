package entity

// RosterEntry is one row of the client's reference table, keyed by the
// employee's name. Supplementary fields are carried as strings exactly
// as the client supplied them.
type RosterEntry struct {
	Name       string `csv:"Nombre2"`
	Code       string `csv:"Código"`
	NIF        string `csv:"N.I.F."`
	BirthDate  string `csv:"Nacimiento"`
	Position   string `csv:"Puesto"`
	Sex        string `csv:"Sexo"`
	Alta       string `csv:"Alta"`
	Final      string `csv:"Final"`
	Antiguedad string `csv:"Antiguedad"`
}

// ClientInfo is the subset of roster data attached to a StatusEvent
// after a successful join.
type ClientInfo struct {
	Code       string
	BirthDate  string
	Position   string
	Sex        string
	Alta       string
	Final      string
	Antiguedad string
}
