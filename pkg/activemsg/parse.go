package activemsg

import (
	"fmt"
	"strings"
)

// ParseTemplate replaces every {name} token whose name is a key of data with
// the stringified value. Unknown tokens are kept as written. The input is
// scanned once, left to right, and replaced text is never scanned again.
func ParseTemplate(template string, data map[string]any) string {
	if len(data) == 0 || !strings.Contains(template, "{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	i := 0
	for i < len(template) {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			b.WriteString(template[i:])
			break
		}
		open += i
		b.WriteString(template[i:open])

		end := strings.IndexByte(template[open+1:], '}')
		if end < 0 {
			b.WriteString(template[open:])
			break
		}
		end += open + 1

		if v, ok := data[template[open+1:end]]; ok {
			b.WriteString(Stringify(v))
			i = end + 1
			continue
		}

		b.WriteByte('{')
		i = open + 1
	}

	return b.String()
}

// Stringify renders a substitution value as text.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// ApplyParse substitutes tokens in the subject and both bodies. Each field is
// parsed exactly once.
func (m *Message) ApplyParse(data map[string]any) {
	m.subject.resolve(ParseTemplate(m.Subject(), data))
	m.bodyText.resolve(ParseTemplate(m.BodyText(), data))
	m.bodyHTML.resolve(ParseTemplate(m.BodyHTML(), data))
}
