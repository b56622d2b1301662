package messages

import (
	"strconv"
	"strings"
)

// Format substitutes {code} and positional {N} placeholders. Placeholders
// without a matching argument render as an empty string; unmatched braces are
// copied through.
func Format(template, code string, args []string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template) + 16)
	for i := 0; i < len(template); {
		c := template[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		key := template[i+1 : i+end]
		switch n, err := strconv.Atoi(key); {
		case key == "code":
			b.WriteString(code)
		case err == nil && n >= 0:
			if n < len(args) {
				b.WriteString(args[n])
			}
		default:
			b.WriteString(template[i : i+end+1])
		}
		i += end + 1
	}
	return b.String()
}
