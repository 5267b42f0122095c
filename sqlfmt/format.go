// Package sqlfmt pretty-prints the accumulated query buffer on a
// best-effort basis. Fragments are not statement-aligned, so most calls
// see an incomplete statement; Format then returns the input unchanged
// rather than failing. Every call re-formats from the full buffer with no
// parse state carried between calls, so a later call on the completed
// statement succeeds regardless of earlier fallbacks.
package sqlfmt

import "strings"

const indentUnit = "  "

// A statement must open with one of these for formatting to be attempted.
var statementStarters = map[string]bool{
	"SELECT": true, "WITH": true, "INSERT": true, "UPDATE": true, "DELETE": true,
}

// Clause keywords that begin a new line at the current paren depth.
var clauseStarters = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true,
	"ORDER": true, "HAVING": true, "LIMIT": true, "OFFSET": true,
	"UNION": true, "VALUES": true, "SET": true, "JOIN": true,
	"LEFT": true, "RIGHT": true, "INNER": true, "FULL": true, "CROSS": true,
}

// Qualifiers that keep the following JOIN on the same line.
var joinQualifiers = map[string]bool{
	"LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true,
	"FULL": true, "CROSS": true,
}

// Format pretty-prints raw as a SQL statement with a two-space indent
// unit. When raw is not yet a complete, lexable, balanced statement the
// input is returned unchanged. Format never fails.
func Format(raw string) string {
	tokens, err := lex(raw)
	if err != nil || len(tokens) == 0 {
		return raw
	}
	if tokens[0].kind != tokenKeyword || !statementStarters[tokens[0].text] {
		return raw
	}
	if !balanced(tokens) {
		return raw
	}
	return print(tokens)
}

func balanced(tokens []token) bool {
	depth := 0
	for _, tok := range tokens {
		switch tok.kind {
		case tokenOpenParen:
			depth++
		case tokenCloseParen:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func print(tokens []token) string {
	var b strings.Builder
	depth := 0
	for i, tok := range tokens {
		if tok.kind == tokenCloseParen && depth > 0 {
			depth--
		}
		b.WriteString(separator(tokens, i, depth))
		b.WriteString(tok.text)
		if tok.kind == tokenOpenParen {
			depth++
		}
	}
	return b.String()
}

func separator(tokens []token, i, depth int) string {
	if i == 0 {
		return ""
	}
	cur, prev := tokens[i], tokens[i-1]

	if cur.kind == tokenKeyword {
		switch {
		case clauseStarters[cur.text] && !suppressBreak(prev, cur):
			return "\n" + strings.Repeat(indentUnit, depth)
		case cur.text == "AND" || cur.text == "OR":
			return "\n" + strings.Repeat(indentUnit, depth+1)
		}
	}

	switch cur.kind {
	case tokenComma, tokenCloseParen, tokenSemicolon:
		return ""
	}
	if prev.kind == tokenOpenParen {
		return ""
	}
	if cur.kind == tokenOpenParen && prev.kind == tokenIdent {
		// function call: MIN(price), not MIN (price)
		return ""
	}
	return " "
}

func suppressBreak(prev, cur token) bool {
	if prev.kind != tokenKeyword {
		return false
	}
	if cur.text == "JOIN" && joinQualifiers[prev.text] {
		return true
	}
	// DELETE FROM and INSERT ... SELECT read as one clause opener.
	if cur.text == "FROM" && prev.text == "DELETE" {
		return true
	}
	return false
}
