package parser

import (
	"strconv"
	"strings"
)

// StringValue возвращает содержимое строкового литерала без префикса и
// кавычек. Escape-последовательности раскрываются для обычных строк; для
// сырых строк текст возвращается как есть. Соседние литералы ("a" "b")
// склеиваются.
func StringValue(text string) string {
	var b strings.Builder
	rest := strings.TrimSpace(text)
	for rest != "" {
		q := strings.IndexAny(rest, "'\"")
		if q < 0 {
			break
		}
		prefix := strings.ToLower(rest[:q])
		quote := rest[q : q+1]
		if strings.HasPrefix(rest[q:], strings.Repeat(quote, 3)) {
			quote = strings.Repeat(quote, 3)
		}
		body := rest[q+len(quote):]
		end := closingQuote(body, quote)
		content := body
		if end >= 0 {
			content = body[:end]
			rest = strings.TrimSpace(body[end+len(quote):])
		} else {
			rest = ""
		}
		if strings.Contains(prefix, "r") {
			b.WriteString(content)
		} else {
			b.WriteString(unescape(content))
		}
	}
	return b.String()
}

func closingQuote(body, quote string) int {
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(body[i:], quote) {
			return i
		}
	}
	return -1
}

func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for len(s) > 0 {
		if s[0] == '\\' && len(s) > 1 && s[1] == '\n' {
			s = s[2:] // продолжение строки
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		if multibyte || r >= 0x80 {
			b.WriteRune(r)
		} else {
			b.WriteByte(byte(r))
		}
		s = tail
	}
	return b.String()
}
