package entity

// RawLine is a single line of text pulled out of a PDF by the extraction
// adapter, with its page and in-document position. Immutable once produced.
type RawLine struct {
	Page int    `json:"page"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// CleanedLine is a RawLine after corruption-marker removal and whitespace
// normalization. Raw keeps the original text for audit messages.
type CleanedLine struct {
	Page int    `json:"page"`
	Line int    `json:"line"`
	Text string `json:"text"`
	Raw  string `json:"raw"`
}
