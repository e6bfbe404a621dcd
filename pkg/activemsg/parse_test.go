package activemsg_test

import (
	"testing"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]any
		want     string
	}{
		{"replaces token", "Hello {name}", map[string]any{"name": "Ann"}, "Hello Ann"},
		{"keeps unknown token", "Hi {missing}", map[string]any{}, "Hi {missing}"},
		{"keeps unknown token with other data", "Hi {missing} {name}", map[string]any{"name": "Ann"}, "Hi {missing} Ann"},
		{"single pass", "{a}", map[string]any{"a": "{b}", "b": "deep"}, "{b}"},
		{"unterminated brace", "oops {name", map[string]any{"name": "Ann"}, "oops {name"},
		{"nested braces", "{{name}}", map[string]any{"name": "Ann"}, "{Ann}"},
		{"list value", "To: {to}", map[string]any{"to": []string{"a@x", "b@x"}}, "To: a@x, b@x"},
		{"number value", "{n} items", map[string]any{"n": 3}, "3 items"},
		{"nil value", "[{v}]", map[string]any{"v": nil}, "[]"},
		{"repeated token", "{x}-{x}", map[string]any{"x": "y"}, "y-y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, activemsg.ParseTemplate(tt.template, tt.data))
		})
	}
}

func TestApplyParse_ParsesEachFieldOnce(t *testing.T) {
	m := activemsg.New(newWelcome())
	m.SetBodyHTML("<p>{a}</p>")
	m.SetBodyText("{name}")

	m.ApplyParse(map[string]any{"a": "{name}", "name": "Ann"})

	assert.Equal(t, "<p>{name}</p>", m.BodyHTML())
	assert.Equal(t, "Ann", m.BodyText())
	assert.Equal(t, "Welcome Ann", m.Subject())
}

func TestApplyParse_KeepsEmptyResult(t *testing.T) {
	w := newWelcome()
	m := activemsg.New(w)
	m.SetSubject("{blank}")

	m.ApplyParse(map[string]any{"blank": ""})

	assert.Equal(t, "", m.Subject())
	assert.Equal(t, 0, w.subjectCalls)
}
