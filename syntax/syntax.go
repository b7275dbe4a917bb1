// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package syntax implements the Delbin schema grammar (spec.md §6.1): a
// lexer, a recursive-descent parser, and the AST node types they produce.
package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse lexes and parses a complete schema file (the `file` production of
// spec.md §6.1), returning a located error on any malformed input.
func Parse(src []byte) (*File, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	return p.parseFile()
}

func tokenize(src []byte) ([]Token, error) {
	lexer, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	var toks []Token
	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == T_EOF {
			return toks, nil
		}
	}
}

type parser struct {
	src  []byte
	toks []Token
	pos  int
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) text(tok Token) string {
	return string(p.src[tok.Span.Start() : tok.Span.Start()+tok.Span.Len()])
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.cur().Kind == kind
}

func (p *parser) atKeyword(kw string) bool {
	tok := p.cur()
	return tok.Kind == T_IDENT && p.text(tok) == kw
}

func (p *parser) expect(kind TokenKind, want string) (Token, error) {
	if p.cur().Kind == T_EOF && kind != T_EOF {
		return Token{}, errUnexpectedEOF(p.cur().Span.Start(), want)
	}
	if !p.at(kind) {
		return Token{}, errExpected(want, p.cur().Kind, p.text(p.cur()), p.cur().Span)
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		if p.cur().Kind == T_EOF {
			return errUnexpectedEOF(p.cur().Span.Start(), fmt.Sprintf("keyword %q", kw))
		}
		return errExpected(fmt.Sprintf("keyword %q", kw), p.cur().Kind, p.text(p.cur()), p.cur().Span)
	}
	p.advance()
	return nil
}

func (p *parser) expectIdent() (*Ident, error) {
	tok, err := p.expect(T_IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	return &Ident{Span: tok.Span, Name: p.text(tok)}, nil
}

func (p *parser) parseFile() (*File, error) {
	start := p.cur().Span.Start()

	var endian *EndianDirective
	if p.at(T_AT) && p.peek(1).Kind == T_IDENT && p.text(p.peek(1)) == "endian" {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		endian = d
	}

	st, err := p.parseStruct()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(T_EOF, "end of file"); err != nil {
		return nil, err
	}

	end := st.Span.End()
	return &File{
		Span:   Span{start: start, len: end - start},
		Endian: endian,
		Struct: st,
	}, nil
}

func (p *parser) parseDirective() (*EndianDirective, error) {
	start, err := p.expect(T_AT, "'@'")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("endian"); err != nil {
		return nil, err
	}
	if _, err := p.expect(T_EQ, "'='"); err != nil {
		return nil, err
	}
	valueTok, err := p.expect(T_IDENT, "'little' or 'big'")
	if err != nil {
		return nil, err
	}
	value := p.text(valueTok)
	if value != "little" && value != "big" {
		return nil, errInvalidSyntax(
			fmt.Sprintf("unknown endian value %q (expected 'little' or 'big')", value),
			valueTok.Span,
		)
	}
	semi, err := p.expect(T_SEMI, "';'")
	if err != nil {
		return nil, err
	}
	return &EndianDirective{
		Span:  Span{start: start.Span.Start(), len: semi.Span.End() - start.Span.Start()},
		Value: value,
	}, nil
}

func (p *parser) parseStruct() (*Struct, error) {
	startTok := p.cur()
	if err := p.expectKeyword("struct"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var attrs StructAttrs
	for p.at(T_AT) {
		if err := p.parseStructAttr(&attrs); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(T_OPEN_CURL, "'{'"); err != nil {
		return nil, err
	}

	var fields []*Field
	for !p.at(T_CLOSE_CURL) {
		if p.at(T_EOF) {
			return nil, errUnclosedBracket("{", startTok.Span)
		}
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	closeTok, err := p.expect(T_CLOSE_CURL, "'}'")
	if err != nil {
		return nil, err
	}

	return &Struct{
		Span:   Span{start: startTok.Span.Start(), len: closeTok.Span.End() - startTok.Span.Start()},
		Name:   name,
		Attrs:  attrs,
		Fields: fields,
	}, nil
}

func (p *parser) parseStructAttr(attrs *StructAttrs) error {
	if _, err := p.expect(T_AT, "'@'"); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch name.Name {
	case "packed":
		attrs.Packed = true
		return nil
	case "align":
		if _, err := p.expect(T_OPEN_PAREN, "'('"); err != nil {
			return err
		}
		numTok, err := p.expect(T_DEC_INT, "integer")
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(p.text(numTok), 10, 32)
		if err != nil {
			return errInvalidNumber(numTok.Span.Start(), p.text(numTok))
		}
		if _, err := p.expect(T_CLOSE_PAREN, "')'"); err != nil {
			return err
		}
		attrs.Align = int(n)
		return nil
	default:
		return errInvalidSyntax(fmt.Sprintf("unknown struct attribute '@%s'", name.Name), name.Span)
	}
}

func (p *parser) parseField() (*Field, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(T_COLON, "':'"); err != nil {
		return nil, err
	}
	fieldType, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.at(T_EQ) {
		p.advance()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	semi, err := p.expect(T_SEMI, "';'")
	if err != nil {
		return nil, err
	}

	return &Field{
		Span: Span{start: name.Span.Start(), len: semi.Span.End() - name.Span.Start()},
		Name: name,
		Type: fieldType,
		Init: init,
	}, nil
}

func (p *parser) parseFieldType() (*FieldType, error) {
	start := p.cur().Span

	if p.at(T_OPEN_SQUARE) {
		p.advance()
		elemTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		elem, ok := ScalarKindFromName(elemTok.Name)
		if !ok {
			return nil, errInvalidSyntax(fmt.Sprintf("unknown scalar type '%s'", elemTok.Name), elemTok.Span)
		}
		if _, err := p.expect(T_SEMI, "';'"); err != nil {
			return nil, err
		}
		length, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(T_CLOSE_SQUARE, "']'")
		if err != nil {
			return nil, err
		}
		return &FieldType{
			Span:     Span{start: start.Start(), len: closeTok.Span.End() - start.Start()},
			Elem:     elem,
			IsArray:  true,
			ArrayLen: length,
		}, nil
	}

	scalarTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	elem, ok := ScalarKindFromName(scalarTok.Name)
	if !ok {
		return nil, errInvalidSyntax(fmt.Sprintf("unknown scalar type '%s'", scalarTok.Name), scalarTok.Span)
	}
	return &FieldType{
		Span: scalarTok.Span,
		Elem: elem,
	}, nil
}

// parseExpr implements `expr := or` with the precedence climb of spec.md
// §4.1 / §6.1: `|` lowest, then `&`, then shift, then additive, then
// unary `~`, then primary — all binary operators left-associative.
func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(T_PIPE) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Span:  spanFromTo(left.NodeSpan(), right.NodeSpan()),
			Op:    OpOr,
			Left:  left,
			Right: right,
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.at(T_AMP) {
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Span: spanFromTo(left.NodeSpan(), right.NodeSpan()), Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseShift() (Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.at(T_SHL) || p.at(T_SHR) {
		op := OpShl
		if p.at(T_SHR) {
			op = OpShr
		}
		p.advance()
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Span: spanFromTo(left.NodeSpan(), right.NodeSpan()), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAdd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(T_PLUS) || p.at(T_MINUS) {
		op := OpAdd
		if p.at(T_MINUS) {
			op = OpSub
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Span: spanFromTo(left.NodeSpan(), right.NodeSpan()), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.at(T_TILDE) {
		startTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			Span:    spanFromTo(startTok.Span, operand.NodeSpan()),
			Operand: operand,
		}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case T_DEC_INT, T_HEX_INT, T_BIN_INT:
		return p.parseIntLit()
	case T_STRING:
		return p.parseStringLit()
	case T_DOLLAR_CURL:
		return p.parseEnvRef()
	case T_OPEN_PAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(T_CLOSE_PAREN, "')'")
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Span: spanFromTo(tok.Span, closeTok.Span), Inner: inner}, nil
	case T_AT:
		return p.parseCall()
	case T_OPEN_SQUARE:
		return p.parseArrayExpr()
	case T_IDENT:
		return p.expectIdent()
	case T_EOF:
		return nil, errUnexpectedEOF(tok.Span.Start(), "an expression")
	default:
		return nil, errExpected("an expression", tok.Kind, p.text(tok), tok.Span)
	}
}

// parseArrayExpr parses an array initializer: the element-list form
// `[e1, e2, ...]` (including the empty list `[]`) or the repeat form
// `[v; k]` / `[v; _]` (spec.md §3).
func (p *parser) parseArrayExpr() (Expr, error) {
	startTok := p.advance() // "["
	if p.at(T_CLOSE_SQUARE) {
		closeTok := p.advance()
		return &ArrayLit{Span: spanFromTo(startTok.Span, closeTok.Span)}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.at(T_SEMI) {
		p.advance()
		var count Expr
		if p.atKeyword("_") {
			p.advance()
		} else {
			count, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		closeTok, err := p.expect(T_CLOSE_SQUARE, "']'")
		if err != nil {
			return nil, err
		}
		return &ArrayRepeat{Span: spanFromTo(startTok.Span, closeTok.Span), Value: first, Count: count}, nil
	}

	elems := []Expr{first}
	for p.at(T_COMMA) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	closeTok, err := p.expect(T_CLOSE_SQUARE, "']'")
	if err != nil {
		return nil, err
	}
	return &ArrayLit{Span: spanFromTo(startTok.Span, closeTok.Span), Elems: elems}, nil
}

func (p *parser) parseIntLit() (*IntLit, error) {
	tok := p.advance()
	text := p.text(tok)
	var value uint64
	var err error
	switch tok.Kind {
	case T_DEC_INT:
		value, err = strconv.ParseUint(strings.ReplaceAll(text, "_", ""), 10, 64)
	case T_HEX_INT:
		value, err = strconv.ParseUint(strings.ReplaceAll(text[2:], "_", ""), 16, 64)
	case T_BIN_INT:
		value, err = strconv.ParseUint(strings.ReplaceAll(text[2:], "_", ""), 2, 64)
	}
	if err != nil {
		return nil, errInvalidNumber(tok.Span.Start(), text)
	}
	return &IntLit{Span: tok.Span, Value: value}, nil
}

func (p *parser) parseStringLit() (*StringLit, error) {
	tok := p.advance()
	raw := p.text(tok)
	decoded, err := unescapeString(raw[1 : len(raw)-1])
	if err != nil {
		return nil, errInvalidString(tok.Span.Start(), raw, err.Error())
	}
	return &StringLit{Span: tok.Span, Value: decoded}, nil
}

func (p *parser) parseEnvRef() (*EnvRef, error) {
	startTok := p.advance() // "${"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(T_CLOSE_CURL, "'}'")
	if err != nil {
		return nil, err
	}
	return &EnvRef{Span: spanFromTo(startTok.Span, closeTok.Span), Name: name.Name}, nil
}

func (p *parser) parseCall() (Expr, error) {
	startTok := p.advance() // "@"
	nameTok, err := p.expect(T_IDENT, "builtin name")
	if err != nil {
		return nil, err
	}
	name := p.text(nameTok)
	if name == "self" {
		return nil, errInvalidSyntax("'@self' may only be used as a range argument to @crc32/@crc16/@crc/@sha256/@hash", nameTok.Span)
	}

	if _, err := p.expect(T_OPEN_PAREN, "'('"); err != nil {
		return nil, err
	}
	var args []CallArg
	if !p.at(T_CLOSE_PAREN) {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.at(T_COMMA) {
			p.advance()
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	closeTok, err := p.expect(T_CLOSE_PAREN, "')'")
	if err != nil {
		return nil, err
	}
	return &Call{
		Span: spanFromTo(startTok.Span, closeTok.Span),
		Name: name,
		Args: args,
	}, nil
}

func (p *parser) parseArg() (CallArg, error) {
	if p.at(T_AT) && p.peek(1).Kind == T_IDENT && p.text(p.peek(1)) == "self" {
		return p.parseSelfRange()
	}
	return p.parseExpr()
}

func (p *parser) parseSelfRange() (*SelfRange, error) {
	startTok := p.advance() // "@"
	p.advance()             // "self"

	var hasBrackets bool
	var start, end Expr
	endSpan := p.toks[p.pos-1].Span
	if p.at(T_OPEN_SQUARE) {
		hasBrackets = true
		p.advance()
		if p.at(T_DOTDOT) {
			p.advance()
			if !p.at(T_CLOSE_SQUARE) {
				b, err := p.parseBound()
				if err != nil {
					return nil, err
				}
				end = b
			}
		} else {
			b, err := p.parseBound()
			if err != nil {
				return nil, err
			}
			start = b
			if _, err := p.expect(T_DOTDOT, "'..'"); err != nil {
				return nil, err
			}
			if !p.at(T_CLOSE_SQUARE) {
				b, err := p.parseBound()
				if err != nil {
					return nil, err
				}
				end = b
			}
		}
		closeTok, err := p.expect(T_CLOSE_SQUARE, "']'")
		if err != nil {
			return nil, err
		}
		endSpan = closeTok.Span
	}

	return &SelfRange{
		Span:        spanFromTo(startTok.Span, endSpan),
		Start:       start,
		End:         end,
		HasBrackets: hasBrackets,
	}, nil
}

func (p *parser) parseBound() (Expr, error) {
	switch p.cur().Kind {
	case T_DEC_INT, T_HEX_INT, T_BIN_INT:
		return p.parseIntLit()
	case T_IDENT:
		return p.expectIdent()
	default:
		return nil, errExpected("a number or field name", p.cur().Kind, p.text(p.cur()), p.cur().Span)
	}
}

func spanFromTo(a, b Span) Span {
	start := a.Start()
	end := b.End()
	return Span{start: start, len: end - start}
}

func unescapeString(s string) (string, error) {
	var out strings.Builder
	out.Grow(len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '\\' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("trailing backslash")
		}
		switch s[i+1] {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case '\\':
			out.WriteByte('\\')
		case '"':
			out.WriteByte('"')
		case '0':
			out.WriteByte(0)
		case 'x':
			if i+3 >= len(s) {
				return "", fmt.Errorf("incomplete \\x escape")
			}
			b, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape")
			}
			out.WriteByte(byte(b))
			i += 2
		default:
			return "", fmt.Errorf("unknown escape '\\%c'", s[i+1])
		}
		i += 2
	}
	return out.String(), nil
}
