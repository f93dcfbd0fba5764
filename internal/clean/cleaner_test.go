package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarrero/vidalaboral/internal/entity"
)

func TestCleanText(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "corruption marker inside a name",
			input: "(cid:12)JUAN(cid:9) GARCIA",
			want:  "JUAN GARCIA",
		},
		{
			name:  "multiple markers on one line",
			input: "(cid:1)(cid:2)(cid:3)ALTA (cid:44)10-05-2018",
			want:  "ALTA 10-05-2018",
		},
		{
			name:  "truncated trailing marker",
			input: "PEREZ LOPEZ MARIA (cid:12",
			want:  "PEREZ LOPEZ MARIA",
		},
		{
			name:  "truncated marker missing digits",
			input: "PEREZ LOPEZ MARIA (cid:",
			want:  "PEREZ LOPEZ MARIA",
		},
		{
			name:  "truncated marker missing colon",
			input: "PEREZ LOPEZ MARIA (ci",
			want:  "PEREZ LOPEZ MARIA",
		},
		{
			name:  "whitespace collapse and separator trim",
			input: "  | EMPLEADO:   JUAN   GARCIA ;; ",
			want:  "EMPLEADO: JUAN GARCIA",
		},
		{
			name:  "hyphens in dates survive trimming",
			input: "BAJA 15-07-2024 15-07-2024",
			want:  "BAJA 15-07-2024 15-07-2024",
		},
		{
			name:  "empty line stays empty",
			input: "",
			want:  "",
		},
		{
			name:  "line that is only markers",
			input: "(cid:3)(cid:3)",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CleanText(tt.input))
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	inputs := []string{
		"(cid:12)JUAN(cid:9) GARCIA",
		"ALTA 10-05-2018 10-05-2018 08 540 0,250 1,80 1,50 3,30 1794",
		"  spaced   out  (cid:7",
	}
	for _, in := range inputs {
		once := c.CleanText(in)
		twice := c.CleanText(once)
		assert.Equal(t, once, twice, "cleaning must be idempotent for %q", in)
	}
}

func TestCleanLineKeepsRawAndPosition(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	raw := entity.RawLine{Page: 3, Line: 41, Text: "(cid:5)GOMEZ RUIZ ANA"}
	got := c.CleanLine(raw)

	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 41, got.Line)
	assert.Equal(t, "GOMEZ RUIZ ANA", got.Text)
	assert.Equal(t, raw.Text, got.Raw)
}

func TestCleanLinesOneToOne(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	lines := []entity.RawLine{
		{Page: 1, Line: 1, Text: "(cid:1)A"},
		{Page: 1, Line: 2, Text: "B"},
	}
	out := c.CleanLines(lines)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Text)
	assert.Equal(t, "B", out[1].Text)
}

func TestExtraPattern(t *testing.T) {
	c, err := New(`\[gl:\d+\]`)
	require.NoError(t, err)
	assert.Equal(t, "JUAN GARCIA", c.CleanText("[gl:7]JUAN [gl:9]GARCIA"))
}

func TestBadExtraPattern(t *testing.T) {
	_, err := New(`[`)
	assert.Error(t, err)
}
