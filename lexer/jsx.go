package lexer

// isJSXStart reports whether the `<` at the current position begins a
// JSX tag rather than the less-than operator: it must be followed by an
// identifier start, `>` (fragment), or `/` (closing tag), and must not
// follow a value-producing token on the same line (§4.1). A line break
// after a value ends the statement, so a line-start `<div>` is a tag
// even when the previous statement ended in a literal or identifier;
// `a < b` and generic argument lists like `List<Int>` stay operators
// because their `<` shares a line with the value before it.
func (l *Lexer) isJSXStart() bool {
	if l.peek() != '<' {
		return false
	}
	if l.prevProducesValue() && !l.newlineSincePrev {
		return false
	}
	next := l.peekAt(1)
	return isIdentStart(next) || next == '>' || next == '/'
}

// lexJSXOpen scans the `<` that begins a tag, a fragment `<>`, or a
// closing `</tag>` / `</>` header, and transitions the state machine
// accordingly.
func (l *Lexer) lexJSXOpen() Token {
	start, startLine, startCol := l.pos, l.line, l.column
	l.advance() // consume '<'

	if l.peek() == '>' {
		l.advance() // consume '>'
		l.jsxStack = append(l.jsxStack, jsxFrame{kind: frameTag})
		return l.finish(JSX_FRAG_OPEN, "<>", start, startLine, startCol)
	}

	if l.peek() == '/' {
		if l.peekAt(1) == '>' {
			l.advance() // consume '/'
			l.advance() // consume '>'
			l.popFrame()
			return l.finish(JSX_FRAG_CLOSE, "</>", start, startLine, startCol)
		}
		// Leave the '/' unconsumed: the header scanner (lexJSXTag) emits
		// it as JSX_SLASH, which is how the parser tells a closing tag
		// apart from an attribute-less opening tag (both would otherwise
		// produce an identical JSX_OPEN, JSX_TAG, JSX_CLOSE sequence).
		l.jsxTagMode = tagModeClose
		l.needTagName = true
		l.jsxStack = append(l.jsxStack, jsxFrame{kind: frameTagHeader})
		return l.finish(JSX_OPEN, "<", start, startLine, startCol)
	}

	l.jsxTagMode = tagModeOpen
	l.needTagName = true
	l.jsxSelfClosing = false
	l.jsxStack = append(l.jsxStack, jsxFrame{kind: frameTagHeader})
	return l.finish(JSX_OPEN, "<", start, startLine, startCol)
}

func (l *Lexer) popFrame() {
	if n := len(l.jsxStack); n > 0 {
		l.jsxStack = l.jsxStack[:n-1]
	}
}

// lexJSXTag scans tokens inside a tag header: the tag name, attribute
// names, `=`, attribute values (string or `{expr}`), `/`, and the
// closing `>` (§4.1 "Tag mode").
func (l *Lexer) lexJSXTag() Token {
	l.skipJSXTagWhitespace()
	start, startLine, startCol := l.pos, l.line, l.column

	if l.pos >= len(l.input) {
		return l.finish(EOF, "", start, startLine, startCol)
	}

	ch := l.peek()

	switch ch {
	case '/':
		l.advance()
		l.jsxSelfClosing = true
		return l.finish(JSX_SLASH, "/", start, startLine, startCol)

	case '>':
		l.advance()
		closing := l.jsxTagMode == tagModeClose
		selfClosing := l.jsxSelfClosing
		l.jsxTagMode = tagModeNone
		l.jsxSelfClosing = false

		l.popFrame() // pop this tag header's frameTagHeader
		switch {
		case closing:
			l.popFrame() // pop the matching open tag's frameTag
		case selfClosing:
			// no frameTag is pushed for a self-closing tag
		default:
			l.jsxStack = append(l.jsxStack, jsxFrame{kind: frameTag})
		}
		return l.finish(JSX_CLOSE, ">", start, startLine, startCol)

	case '=':
		l.advance()
		return l.finish(JSX_EQUALS, "=", start, startLine, startCol)

	case '"':
		return l.lexJSXAttrString()

	case '{':
		l.advance()
		l.jsxStack = append(l.jsxStack, jsxFrame{kind: frameExpr, depth: 1})
		return l.finish(JSX_LBRACE, "{", start, startLine, startCol)
	}

	if isIdentStart(ch) {
		for l.pos < len(l.input) && (isIdentChar(l.peek()) || l.peek() == '-' || l.peek() == ':') {
			l.advance()
		}
		name := l.input[start:l.pos]
		if l.needTagName {
			l.needTagName = false
			return l.finish(JSX_TAG, name, start, startLine, startCol)
		}
		return l.finish(JSX_ATTR_NAME, name, start, startLine, startCol)
	}

	l.advance()
	return l.errorToken(start, startLine, startCol, "unexpected character in JSX tag")
}

func (l *Lexer) skipJSXTagWhitespace() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// lexJSXAttrString scans a plain double-quoted attribute value. Unlike
// string literals in expression position, JSX attribute strings do not
// support interpolation (§4.1).
func (l *Lexer) lexJSXAttrString() Token {
	start, startLine, startCol := l.pos, l.line, l.column
	l.advance() // opening quote
	valueStart := l.pos
	for l.pos < len(l.input) && l.peek() != '"' {
		if l.peek() == '\n' {
			return l.errorToken(start, startLine, startCol, "unterminated JSX attribute string")
		}
		l.advance()
	}
	if l.pos >= len(l.input) {
		return l.errorToken(start, startLine, startCol, "unterminated JSX attribute string")
	}
	value := l.input[valueStart:l.pos]
	l.advance() // closing quote
	return l.finish(JSX_STRING, value, start, startLine, startCol)
}

// lexJSXChildrenToken scans text, `{expr}` children, and nested tag
// opens while inside an element's children region (§4.1 "Children
// mode"). Bare `if`/`for`/`elif`/`else`/`match` immediately inside a
// `{...}` child switch the lexer into control-flow header scanning
// instead of treating the brace as a plain expression child; the
// parser drives re-entry into children mode for each arm's body via
// PushJSXChildren/PopJSXChildren.
func (l *Lexer) lexJSXChildrenToken(forced bool) Token {
	start, startLine, startCol := l.pos, l.line, l.column

	if l.pos >= len(l.input) {
		return l.finish(EOF, "", start, startLine, startCol)
	}

	ch := l.peek()

	if ch == '<' {
		return l.lexJSXOpen()
	}

	if ch == '{' {
		if kw, ok := l.peekCFKeyword(); ok {
			l.advance() // consume '{'
			l.EnterCFHeader()
			return l.finish(kw, kindCFKeyword(kw), start, startLine, startCol)
		}
		l.advance()
		l.jsxStack = append(l.jsxStack, jsxFrame{kind: frameExpr, depth: 1})
		return l.finish(JSX_LBRACE, "{", start, startLine, startCol)
	}

	// A forced children region (a control-flow arm's body, entered via
	// PushJSXChildren) is delimited by a literal `}` rather than a
	// closing tag, so `}` must terminate text scanning here — unlike
	// ordinary element children, which have no such delimiter and may
	// contain a bare `}` as text.
	if ch == '}' && forced {
		l.advance()
		return l.finish(JSX_RBRACE, "}", start, startLine, startCol)
	}

	// Plain text runs up to the next `<`, `{`, or (inside a forced
	// children region) `}`.
	for l.pos < len(l.input) && l.peek() != '<' && l.peek() != '{' && !(forced && l.peek() == '}') {
		l.advance()
	}
	text := l.input[start:l.pos]
	return l.finish(JSX_TEXT, text, start, startLine, startCol)
}

// peekCFKeyword looks past whitespace following an unconsumed `{` for
// one of the bare control-flow keywords that begin a JSX block
// construct, without consuming input.
func (l *Lexer) peekCFKeyword() (Kind, bool) {
	pos := l.pos + 1 // past '{'
	for pos < len(l.input) {
		ch := l.input[pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			pos++
			continue
		}
		break
	}
	rest := l.input[pos:]
	for word, kind := range map[string]Kind{
		"if": JSX_CF_IF, "elif": JSX_CF_ELIF, "else": JSX_CF_ELSE,
		"for": JSX_CF_FOR, "match": JSX_CF_MATCH,
	} {
		if hasWordPrefix(rest, word) {
			return kind, true
		}
	}
	return 0, false
}

func hasWordPrefix(s, word string) bool {
	if len(s) < len(word) || s[:len(word)] != word {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	return !isIdentChar(rune(s[len(word)]))
}

// lexExprInJSX scans one token of an expression embedded in `{...}`
// (a JSX expression child or attribute value), tracking brace depth on
// the top stack frame so that the matching `}` is reported as
// JSX_RBRACE and pops back to whichever JSX mode was active before the
// expression started.
func (l *Lexer) lexExprInJSX() Token {
	l.skipWhitespaceAndComments()
	start, startLine, startCol := l.pos, l.line, l.column

	if l.pos >= len(l.input) {
		return l.finish(EOF, "", start, startLine, startCol)
	}

	top := len(l.jsxStack) - 1

	switch l.peek() {
	case '\n':
		l.advance()
		return l.finish(NEWLINE, "\n", start, startLine, startCol)
	case '{':
		l.jsxStack[top].depth++
		return l.lexNormal()
	case '}':
		l.jsxStack[top].depth--
		l.advance()
		if l.jsxStack[top].depth == 0 {
			l.popFrame()
			return l.finish(JSX_RBRACE, "}", start, startLine, startCol)
		}
		return l.finish(RBRACE, "}", start, startLine, startCol)
	}

	return l.lexNormal()
}

func kindCFKeyword(k Kind) string {
	switch k {
	case JSX_CF_IF:
		return "if"
	case JSX_CF_ELIF:
		return "elif"
	case JSX_CF_ELSE:
		return "else"
	case JSX_CF_FOR:
		return "for"
	case JSX_CF_MATCH:
		return "match"
	}
	return ""
}
