package constants

// Output column headers, in the order the reconciled table is written.
// The order mirrors the official report layout.
var OutputColumns = []string{
	"Numero_Afiliacion",
	"Situacion",
	"Documento_Identificativo",
	"F_Real_Alta",
	"F_Efecto_Alta",
	"F_Real_Sit",
	"F_Efecto_Sit",
	"Nombre_Apellidos",
	"G_C_M",
	"T_C",
	"C_T_P",
	"EP_OC",
	"Tipos_AT_IT",
	"IMS",
	"Total",
	"Dias_Cot",
	"CLV",
}

// ClientColumns are appended when a client roster join is performed.
var ClientColumns = []string{
	"Codigo_Cliente",
	"Nacimiento",
	"Puesto",
	"Sexo",
	"Alta_Cliente",
	"Final_Cliente",
	"Antiguedad_Cliente",
}

// Numeric column labels as they appear in the source table header.
// Keys are the normalized label tokens recognized by the parser; values
// are the canonical output column names.
var NumericLabels = map[string]string{
	"G.C.M.":      "G_C_M",
	"G.C./M.":     "G_C_M",
	"GC":          "G_C_M",
	"T.C.":        "T_C",
	"TC":          "T_C",
	"C.T.P.":      "C_T_P",
	"CTP":         "C_T_P",
	"EP/OC":       "EP_OC",
	"AT/IT":       "Tipos_AT_IT",
	"IMS":         "IMS",
	"TOTAL":       "Total",
	"DIAS":        "Dias_Cot",
	"DIAS.COTIZ.": "Dias_Cot",
}

// DefaultCTP is the part-time percentage implied when the C.T.P. column
// is absent from a row: a full-time contract.
const DefaultCTP = "100"

// DateLayout is the serialization format for all date columns.
const DateLayout = "02/01/2006"
