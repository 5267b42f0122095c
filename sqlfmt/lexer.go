package sqlfmt

import (
	"errors"
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenKeyword tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenOperator
	tokenComma
	tokenOpenParen
	tokenCloseParen
	tokenSemicolon
)

type token struct {
	kind tokenKind
	text string
}

// Keywords recognized by the printer. Anything else that looks like a word
// lexes as an identifier, which also covers function names such as MIN.
var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"ORDER": true, "HAVING": true, "LIMIT": true, "OFFSET": true,
	"UNION": true, "ALL": true, "DISTINCT": true, "AS": true,
	"AND": true, "OR": true, "NOT": true, "IN": true, "IS": true,
	"NULL": true, "LIKE": true, "BETWEEN": true, "EXISTS": true,
	"JOIN": true, "LEFT": true, "RIGHT": true, "INNER": true,
	"OUTER": true, "FULL": true, "CROSS": true, "ON": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true,
	"SET": true, "DELETE": true, "WITH": true, "ASC": true, "DESC": true,
	"CASE": true, "WHEN": true, "THEN": true, "ELSE": true, "END": true,
}

var errUnterminated = errors.New("unterminated literal")

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9') || c == '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lex splits the accumulated buffer into tokens. The lexer is whitespace
// insensitive, which is what makes reformatting the printer's own output
// a no-op. Any byte it cannot classify is an error, and the caller falls
// back to the raw text.
func lex(s string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			lit, next, err := lexQuoted(s, i, c)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: lit})
			i = next
		case isWordStart(c):
			j := i + 1
			for j < len(s) && isWordPart(s[j]) {
				j++
			}
			word := s[i:j]
			upper := strings.ToUpper(word)
			if keywords[upper] {
				tokens = append(tokens, token{kind: tokenKeyword, text: upper})
			} else {
				tokens = append(tokens, token{kind: tokenIdent, text: word})
			}
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: s[i:j]})
			i = j
		case c == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ","})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenOpenParen, text: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenCloseParen, text: ")"})
			i++
		case c == ';':
			tokens = append(tokens, token{kind: tokenSemicolon, text: ";"})
			i++
		case strings.IndexByte("=<>!+-*/%", c) >= 0:
			j := i + 1
			if j < len(s) && twoByteOperator(c, s[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokenOperator, text: s[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected byte %q at offset %d", c, i)
		}
	}
	return tokens, nil
}

func twoByteOperator(a, b byte) bool {
	switch string([]byte{a, b}) {
	case "<=", ">=", "!=", "<>":
		return true
	}
	return false
}

// lexQuoted scans a quoted literal starting at open. Doubled quote
// characters escape themselves. Returns errUnterminated when the closing
// quote has not arrived yet, which is routine mid-stream.
func lexQuoted(s string, open int, quote byte) (string, int, error) {
	i := open + 1
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return s[open : i+1], i + 1, nil
		}
		i++
	}
	return "", 0, errUnterminated
}
