package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "bare object",
			text:  `{"a":1}`,
			want:  `{"a":1}`,
			found: true,
		},
		{
			name:  "prose before and after",
			text:  "Claro! Aqui está o JSON:\n{\"a\":1}\nEspero ter ajudado.",
			want:  `{"a":1}`,
			found: true,
		},
		{
			name:  "nested objects",
			text:  `resultado: {"items":[{"amount":30}]} fim`,
			want:  `{"items":[{"amount":30}]}`,
			found: true,
		},
		{
			name:  "braces inside string values",
			text:  `{"desc":"almoço {especial}","n":1}`,
			want:  `{"desc":"almoço {especial}","n":1}`,
			found: true,
		},
		{
			name:  "escaped quote inside string",
			text:  `{"desc":"disse \"oi\" e {saiu}"}`,
			want:  `{"desc":"disse \"oi\" e {saiu}"}`,
			found: true,
		},
		{
			name:  "trailing prose with closing brace",
			text:  `{"a":1} e também } solto`,
			want:  `{"a":1}`,
			found: true,
		},
		{
			name: "no object at all",
			text: "não consegui entender os gastos",
		},
		{
			name: "unbalanced object",
			text: `{"a":1`,
		},
		{
			name: "empty input",
			text: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, found := extractJSONObject(tc.text)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.want, got)
		})
	}
}
