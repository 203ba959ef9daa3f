package formats

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/sherman/pkg/encoding"
)

// MaxLineSize is the longest line Tokenize accepts, in bytes.
const MaxLineSize = 1024 * 1024

// Token is one word of a CXP or MIS file.
type Token struct {
	Text   string
	Line   int
	Quoted bool
}

// Tokenize splits text the way a shell does: whitespace separates tokens,
// double quotes keep spaces, and // starts a comment that runs to end of line.
// Input is decoded as UTF-8 or Windows-1252. A line longer than MaxLineSize
// stops tokenizing; the tokens before it are returned with a *TextError.
func Tokenize(data []byte) ([]Token, error) {
	scanner := bufio.NewScanner(strings.NewReader(encoding.DecodeText(data)))
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)

	var tokens []Token
	line := 0
	for scanner.Scan() {
		line++
		tokens = tokenizeLine(scanner.Text(), line, tokens)
	}
	if err := scanner.Err(); err != nil {
		return tokens, &TextError{Line: line + 1, Reason: err.Error()}
	}
	return tokens, nil
}

func tokenizeLine(s string, line int, out []Token) []Token {
	var cur strings.Builder
	inToken, inQuote, quoted := false, false, false

	flush := func() {
		if inToken {
			out = append(out, Token{Text: cur.String(), Line: line, Quoted: quoted})
		}
		cur.Reset()
		inToken, quoted = false, false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			} else {
				cur.WriteByte(c)
			}
		case c == '"':
			inQuote, inToken, quoted = true, true, true
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			flush()
			return out
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			flush()
		default:
			inToken = true
			cur.WriteByte(c)
		}
	}
	// An unterminated quote ends at end of line.
	flush()
	return out
}

// tokenStream is a cursor over a token slice.
type tokenStream struct {
	tokens []Token
	pos    int
}

func (ts *tokenStream) done() bool { return ts.pos >= len(ts.tokens) }

// line returns the line of the current token, or of the last token at EOF.
func (ts *tokenStream) line() int {
	switch {
	case ts.pos < len(ts.tokens):
		return ts.tokens[ts.pos].Line
	case len(ts.tokens) > 0:
		return ts.tokens[len(ts.tokens)-1].Line
	default:
		return 0
	}
}

func (ts *tokenStream) errorf(tok string, format string, args ...any) error {
	return &TextError{Line: ts.line(), Token: tok, Reason: fmt.Sprintf(format, args...)}
}

func (ts *tokenStream) peek() (Token, bool) {
	if ts.done() {
		return Token{}, false
	}
	return ts.tokens[ts.pos], true
}

func (ts *tokenStream) next(what string) (Token, error) {
	if ts.done() {
		return Token{}, ts.errorf("", "unexpected end of file, expected %s", what)
	}
	t := ts.tokens[ts.pos]
	ts.pos++
	return t, nil
}

func (ts *tokenStream) str(what string) (string, error) {
	t, err := ts.next(what)
	return t.Text, err
}

// keyword consumes a token that must equal kw, ignoring case.
func (ts *tokenStream) keyword(kw string) error {
	t, err := ts.next(kw)
	if err != nil {
		return err
	}
	if !strings.EqualFold(t.Text, kw) {
		ts.pos--
		return ts.errorf(t.Text, "expected %s", kw)
	}
	return nil
}

func (ts *tokenStream) integer(what string) (int, error) {
	t, err := ts.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(t.Text)
	if err != nil {
		ts.pos--
		return 0, ts.errorf(t.Text, "%s is not an integer", what)
	}
	return v, nil
}

func (ts *tokenStream) integers(what string, dst []int) error {
	for i := range dst {
		v, err := ts.integer(what)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// number accepts an optional trailing f or F suffix.
func (ts *tokenStream) number(what string) (float32, error) {
	t, err := ts.next(what)
	if err != nil {
		return 0, err
	}
	v, ok := parseFloatToken(t.Text)
	if !ok {
		ts.pos--
		return 0, ts.errorf(t.Text, "%s is not a number", what)
	}
	return v, nil
}

func (ts *tokenStream) numbers(what string, dst []float32) error {
	for i := range dst {
		v, err := ts.number(what)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// flag accepts 0/1 and the usual boolean words.
func (ts *tokenStream) flag(what string) (bool, error) {
	t, err := ts.next(what)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(t.Text) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	if n, err := strconv.Atoi(t.Text); err == nil {
		return n != 0, nil
	}
	ts.pos--
	return false, ts.errorf(t.Text, "%s is not a flag", what)
}

func parseFloatToken(s string) (float32, bool) {
	s = strings.TrimSuffix(strings.TrimSuffix(s, "f"), "F")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}
