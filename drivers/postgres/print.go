package postgres

import "strings"

// Print renders t as a complete "CREATE TABLE ...;" statement, column
// order preserved (spec §3, testable scenario S1).
func (t *CreateTable) Print() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(t.Name))
	b.WriteString(" (\n")
	for i, c := range t.Columns {
		b.WriteString("    ")
		b.WriteString(quoteIdent(c.Name))
		b.WriteByte(' ')
		b.WriteString(c.Type.String())
		if !c.IsNullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(");\n")
	return b.String()
}

// quoteIdent double-quotes name only when needed to preserve case or
// escape a character that would otherwise be folded or rejected by
// PostgreSQL's unquoted-identifier rules.
func quoteIdent(name string) string {
	needsQuote := name == ""
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral single-quotes s as a SQL string literal, escaping any
// embedded single quotes by doubling them (spec §4.4 dblink arguments).
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
