package export

import (
	"fmt"
	"strings"
)

// FormatList renders a list cell as a bracketed sequence of quoted strings,
// ex. ['Action', 'Drama']. Elements are single quoted unless they contain a
// single quote and no double quote.
func FormatList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quoteItem(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func quoteItem(item string) string {
	quote := '\''
	if strings.ContainsRune(item, '\'') && !strings.ContainsRune(item, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range item {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case quote:
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// ParseList is the inverse of FormatList.
func ParseList(cell string) ([]string, error) {
	cell = strings.TrimSpace(cell)
	if len(cell) < 2 || cell[0] != '[' || cell[len(cell)-1] != ']' {
		return nil, fmt.Errorf("list %q is not bracketed", cell)
	}
	inner := cell[1 : len(cell)-1]

	items := []string{}
	i := skipSpaces(inner, 0)
	for i < len(inner) {
		quote := inner[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("list %q: expected quote at %d", cell, i+1)
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(inner) {
			c := inner[i]
			if c == '\\' && i+1 < len(inner) {
				switch inner[i+1] {
				case 'n':
					b.WriteByte('\n')
				case 'r':
					b.WriteByte('\r')
				case 't':
					b.WriteByte('\t')
				default:
					b.WriteByte(inner[i+1])
				}
				i += 2
				continue
			}
			i++
			if c == quote {
				closed = true
				break
			}
			b.WriteByte(c)
		}
		if !closed {
			return nil, fmt.Errorf("list %q: unterminated item", cell)
		}
		items = append(items, b.String())

		i = skipSpaces(inner, i)
		if i == len(inner) {
			break
		}
		if inner[i] != ',' {
			return nil, fmt.Errorf("list %q: expected ',' at %d", cell, i+1)
		}
		i = skipSpaces(inner, i+1)
		if i == len(inner) {
			return nil, fmt.Errorf("list %q: trailing ','", cell)
		}
	}
	return items, nil
}

func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}
