package lexer

import (
	"fmt"
	"strings"
)

// lexQuotedString scans a `"..."` or `"""..."""` literal starting at
// the opening quote. raw disables escape processing and interpolation
// (`r"..."`); explicitF is purely cosmetic (`f"..."` forwards to the
// same interpolation scanning plain `"..."` already gets) (§4.1).
func (l *Lexer) lexQuotedString(raw, explicitF bool) Token {
	start, startLine, startCol := l.pos, l.line, l.column
	_ = explicitF

	triple := l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"'
	if triple {
		l.advance()
		l.advance()
		l.advance()
	} else {
		l.advance()
	}

	atLineStart := false
	if triple && l.peek() == '\n' {
		l.advance()
		atLineStart = true
	}

	var textBuf strings.Builder
	var parts []TemplatePart
	var startsLine []bool // parallel to parts; true when a part begins a fresh source line
	hasInterp := false

	flush := func() {
		if textBuf.Len() > 0 {
			s := textBuf.String()
			parts = append(parts, TemplatePart{Kind: TemplateText, Value: s})
			startsLine = append(startsLine, atLineStart)
			atLineStart = strings.HasSuffix(s, "\n")
			textBuf.Reset()
		}
	}

	closed := func() bool {
		if triple {
			return l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"'
		}
		return l.peek() == '"'
	}

	for l.pos < len(l.input) && !closed() {
		ch := l.peek()

		if ch == '\\' && !raw {
			l.advance()
			textBuf.WriteRune(l.decodeEscape())
			continue
		}

		if ch == '{' && !raw {
			flush()
			hasInterp = true
			part, err := l.lexInterpolationSpan()
			if err != nil {
				return l.errorToken(start, startLine, startCol, err.Error())
			}
			parts = append(parts, part)
			startsLine = append(startsLine, false)
			atLineStart = false // text after the `{...}` continues its line
			continue
		}

		if !triple && ch == '\n' {
			return l.errorToken(start, startLine, startCol, "unterminated string literal")
		}

		textBuf.WriteRune(ch)
		l.advance()
	}

	if l.pos >= len(l.input) {
		return l.errorToken(start, startLine, startCol, "unterminated string literal")
	}

	flush()

	if triple {
		l.advance()
		l.advance()
		l.advance()
		closingIndent := trimClosingLine(&parts, &startsLine)
		dedentParts(parts, startsLine, closingIndent)
	} else {
		l.advance()
	}

	if !hasInterp {
		value := ""
		if len(parts) > 0 {
			value = parts[0].Value
		}
		return l.finish(STRING, value, start, startLine, startCol)
	}

	tok := l.finish(STRING_TEMPLATE, l.input[start:l.pos], start, startLine, startCol)
	tok.Template = parts
	return tok
}

// decodeEscape interprets one `\x` escape sequence (the backslash has
// already been consumed) and returns the decoded rune.
func (l *Lexer) decodeEscape() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.peek()
	l.advance()
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '\'':
		return '\''
	case '0':
		return 0
	default:
		return ch
	}
}

// lexInterpolationSpan captures one `{...}` span inside a string
// literal by bracket-balancing (respecting nested quoted strings and
// escapes), then recursively lexes the interior with a fresh lexer
// seeded with the correct line/column offsets and depth counter (§4.1).
func (l *Lexer) lexInterpolationSpan() (TemplatePart, error) {
	if l.interpDepth >= l.maxInterpDepth {
		return TemplatePart{}, errDepthExceeded(l.filename, l.line, l.column)
	}

	braceLine, braceCol := l.line, l.column
	l.advance() // consume '{'

	sourceStart := l.pos
	depth := 1
	for l.pos < len(l.input) && depth > 0 {
		ch := l.peek()
		switch {
		case ch == '\\':
			l.advance()
			l.advance()
			continue
		case ch == '"':
			if err := l.skipNestedString(); err != nil {
				return TemplatePart{}, err
			}
			continue
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				continue
			}
		}
		l.advance()
	}
	if depth != 0 {
		return TemplatePart{}, errUnterminatedInterp(l.filename, braceLine, braceCol)
	}
	source := l.input[sourceStart:l.pos]
	l.advance() // consume closing '}'

	sub := New(l.filename, source)
	sub.line = braceLine
	sub.column = braceCol + 1
	sub.maxInterpDepth = l.maxInterpDepth
	sub.interpDepth = l.interpDepth + 1

	var tokens []Token
	for {
		tok := sub.NextToken()
		if tok.Kind == EOF {
			break
		}
		tokens = append(tokens, tok)
		if tok.Kind == ERROR {
			return TemplatePart{}, sub.firstError()
		}
	}

	return TemplatePart{Kind: TemplateExpr, Tokens: tokens, Source: source}, nil
}

// skipNestedString advances past a `"..."` (or `"""..."""`) literal
// inside an interpolation span without decoding it; the recursive
// sub-lex handles real decoding once the span is handed off.
func (l *Lexer) skipNestedString() error {
	triple := l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"'
	if triple {
		l.advance()
		l.advance()
		l.advance()
	} else {
		l.advance()
	}
	for l.pos < len(l.input) {
		if l.peek() == '\\' {
			l.advance()
			l.advance()
			continue
		}
		if triple {
			if l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
				l.advance()
				l.advance()
				l.advance()
				return nil
			}
		} else if l.peek() == '"' {
			l.advance()
			return nil
		}
		l.advance()
	}
	return errUnterminatedInterp(l.filename, l.line, l.column)
}

// trimClosingLine removes the final newline and the whitespace indenting
// the closing `"""` delimiter from the last text part, returning that
// indent width so dedentParts can fold the delimiter's own line into the
// common-indent computation (§4.1). Returns -1 when the delimiter shares
// its line with real content (or an interpolation), in which case
// nothing is stripped.
func trimClosingLine(parts *[]TemplatePart, startsLine *[]bool) int {
	ps := *parts
	if len(ps) == 0 {
		return -1
	}
	last := &ps[len(ps)-1]
	if last.Kind != TemplateText {
		return -1
	}
	idx := strings.LastIndexByte(last.Value, '\n')
	if idx < 0 {
		return -1
	}
	tail := last.Value[idx+1:]
	if strings.TrimLeft(tail, " \t") != "" {
		return -1
	}
	last.Value = last.Value[:idx]
	if last.Value == "" {
		*parts = ps[:len(ps)-1]
		*startsLine = (*startsLine)[:len(*startsLine)-1]
	}
	return len(tail)
}

// dedentParts removes the minimum common leading whitespace (computed
// over every line-starting, non-blank segment across all text parts,
// plus the closing delimiter's line) from a triple-quoted string's text
// parts (§4.1 "common-indent dedent"). A part's first segment is only a
// line start when startsLine says so — text following an interpolation
// continues the interpolation's line and is neither measured nor
// stripped.
func dedentParts(parts []TemplatePart, startsLine []bool, closingIndent int) {
	minIndent := -1
	consider := func(indent int) {
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	for i := range parts {
		if parts[i].Kind != TemplateText {
			continue
		}
		for j, line := range strings.Split(parts[i].Value, "\n") {
			if j == 0 && !startsLine[i] {
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			consider(len(line) - len(strings.TrimLeft(line, " \t")))
		}
	}
	if closingIndent >= 0 {
		consider(closingIndent)
	}
	if minIndent <= 0 {
		return
	}
	for i := range parts {
		if parts[i].Kind != TemplateText {
			continue
		}
		lines := strings.Split(parts[i].Value, "\n")
		for j, line := range lines {
			if j == 0 && !startsLine[i] {
				continue
			}
			if len(line) >= minIndent {
				lines[j] = line[minIndent:]
			} else {
				lines[j] = strings.TrimLeft(line, " \t")
			}
		}
		parts[i].Value = strings.Join(lines, "\n")
	}
}

func errDepthExceeded(filename string, line, col int) error {
	return fmt.Errorf("%s:%d:%d — interpolation nesting exceeds maximum depth", filename, line, col)
}

func errUnterminatedInterp(filename string, line, col int) error {
	return fmt.Errorf("%s:%d:%d — unterminated interpolation", filename, line, col)
}
