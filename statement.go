package yatb

import (
	"strings"
	"unicode"
)

type StatementKind uint8

const (
	StatementRead StatementKind = 1 + iota
	StatementWrite
	StatementOther
)

var (
	readKeywords = map[string]bool{
		"SELECT":   true,
		"WITH":     true,
		"SHOW":     true,
		"EXPLAIN":  true,
		"DESCRIBE": true,
		"VALUES":   true,
	}
	writeKeywords = map[string]bool{
		"INSERT":  true,
		"UPDATE":  true,
		"DELETE":  true,
		"REPLACE": true,
		"MERGE":   true,
	}
)

// SplitStatements splits a script into its statements on the semicolons
// outside of quotes. Comments are dropped and empty statements skipped.
func SplitStatements(text string) []string {
	ret := make([]string, 0, 1)
	var buf strings.Builder
	flush := func() {
		s := strings.TrimSpace(buf.String())
		if len(s) > 0 {
			ret = append(ret, s)
		}
		buf.Reset()
	}
	var quote rune
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if quote != 0 {
			buf.WriteRune(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			buf.WriteRune(c)
		case c == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			buf.WriteRune('\n')
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++
			buf.WriteRune(' ')
		case c == ';':
			flush()
		default:
			buf.WriteRune(c)
		}
	}
	flush()
	return ret
}

// ClassifyStatement tells the kind of a single statement by its leading keyword.
func ClassifyStatement(statement string) StatementKind {
	s := strings.TrimLeftFunc(statement, func(r rune) bool {
		return unicode.IsSpace(r) || r == '('
	})
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end >= 0 {
		s = s[:end]
	}
	keyword := strings.ToUpper(s)
	switch {
	case readKeywords[keyword]:
		return StatementRead
	case writeKeywords[keyword]:
		return StatementWrite
	default:
		return StatementOther
	}
}

// CountStatements counts the statements of a script by kind.
func CountStatements(text string) (reads, writes, other int) {
	for _, s := range SplitStatements(text) {
		switch ClassifyStatement(s) {
		case StatementRead:
			reads++
		case StatementWrite:
			writes++
		default:
			other++
		}
	}
	return
}
