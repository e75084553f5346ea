package store

import (
	"strings"
	"unicode/utf8"
)

// splitStatements breaks a schema or seed file into individual
// statements. Statements are separated by semicolons; lines beginning
// with -- are comments and are stripped before execution. Empty
// fragments are dropped.
func splitStatements(text string) []string {
	var stmts []string
	for _, raw := range strings.Split(text, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// truncateQuery shortens query text for log output. The cut lands on a
// rune boundary so multibyte literals stay valid UTF-8.
func truncateQuery(query string) string {
	const max = 80
	q := strings.Join(strings.Fields(query), " ")
	if len(q) <= max {
		return q
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(q[cut]) {
		cut--
	}
	return q[:cut] + "..."
}
