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

// Package eval implements the Delbin initializer-expression evaluator
// (spec.md §4.4): a pure function over (expression, context). The same
// evaluator serves both the layout planner's constant folding (buffer not
// yet materialized) and the encoder's phase-1/phase-2 field evaluation
// (buffer present), distinguished only by what the Context exposes.
package eval

import (
	"go.delbin.dev/delbin/crcenc"
	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

// FieldInfo is what the evaluator knows about a field's placement once the
// layout planner has assigned it. Fields not yet laid out are simply absent
// from Context.Fields.
type FieldInfo struct {
	Offset uint32
	Size   uint32
}

// Context is the explicit, process-wide-state-free evaluation environment
// threaded through every Eval call (spec.md §9 "Context passing").
type Context struct {
	// Env holds the caller-supplied environment map, consulted for
	// `${NAME}` references and bare uppercase flag-like identifiers.
	Env map[string]value.Value

	// Sections holds caller-supplied byte blobs, keyed by name. It does
	// not include the struct's own virtual section; that is resolved via
	// SelfName/Buffer below.
	Sections map[string][]byte

	// SelfName is the struct's declared name; a bare identifier matching
	// it resolves to the struct's own bytes, same as `@self`.
	SelfName string

	// LittleEndian selects the byte order used to pack the elements of
	// array-literal and repeat initializers. Scalar fields are serialized
	// by the encoder, not by Eval.
	LittleEndian bool

	// Fields holds layout information for fields already placed, keyed
	// by field name. During layout planning this grows one entry at a
	// time; during encoding it is complete and fixed for the call.
	Fields map[string]FieldInfo

	// StructSize is the struct's total size. Zero until layout has
	// finished; `@sizeof(@self)` is only meaningful once this is set.
	StructSize uint32

	// Current is the name of the field presently being folded or
	// encoded, used to resolve `@offsetof(self)`-style self-offset
	// patterns against Cursor.
	Current string

	// Cursor is Current's offset: the layout planner's running offset while
	// Current's own array length is being folded, and Current's assigned
	// offset during encoding. `@offsetof` and `@self[...]` bounds that name
	// Current resolve to it.
	Cursor uint32

	// Buffer is the struct's output buffer. Nil while folding array
	// lengths during layout (no bytes exist yet); populated during
	// encoding, where it may be partially written (phase 1 fields ahead
	// of the current field in declaration order, or all of phase 1 plus
	// earlier phase-2 backfills).
	Buffer []byte

	// DestElemWidth is the byte width of Current's array element type,
	// when Current is array-typed; zero for scalar fields. Array literal
	// and repeat initializers need it to pack each element at the right
	// width and endianness.
	DestElemWidth int

	// DestArrayLen is Current's declared element count, used to resolve
	// the `_` sentinel in a repeat-form initializer to "the destination
	// array's length".
	DestArrayLen int
}

// Eval evaluates an expression node to a Value.
func Eval(expr syntax.Node, ctx *Context) (value.Value, error) {
	switch n := expr.(type) {
	case *syntax.IntLit:
		return value.Int(n.Value, false), nil
	case *syntax.StringLit:
		return value.Bytes([]byte(n.Value)), nil
	case *syntax.EnvRef:
		return evalEnvLookup(n.Name, n.Span, ctx)
	case *syntax.Ident:
		return evalEnvLookup(n.Name, n.Span, ctx)
	case *syntax.ParenExpr:
		return Eval(n.Inner, ctx)
	case *syntax.UnaryExpr:
		return evalUnary(n, ctx)
	case *syntax.BinaryExpr:
		return evalBinary(n, ctx)
	case *syntax.Call:
		return evalCall(n, ctx)
	case *syntax.ArrayLit:
		return evalArrayLit(n, ctx)
	case *syntax.ArrayRepeat:
		return evalArrayRepeat(n, ctx)
	default:
		return value.Value{}, errComputationFailed(expr.NodeSpan(), "unsupported expression node")
	}
}

func evalEnvLookup(name string, span syntax.Span, ctx *Context) (value.Value, error) {
	v, ok := ctx.Env[name]
	if !ok {
		return value.Value{}, errUndefinedVariable(name, span)
	}
	return v, nil
}

func evalUnary(n *syntax.UnaryExpr, ctx *Context) (value.Value, error) {
	operand, err := Eval(n.Operand, ctx)
	if err != nil {
		return value.Value{}, err
	}
	bits, ok := operand.Uint64()
	if !ok {
		return value.Value{}, errComputationFailed(n.Span, "bitwise NOT requires an integer operand")
	}
	return value.Int(^bits, operand.Signed()), nil
}

func evalBinary(n *syntax.BinaryExpr, ctx *Context) (value.Value, error) {
	left, err := Eval(n.Left, ctx)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(n.Right, ctx)
	if err != nil {
		return value.Value{}, err
	}
	l, ok := left.Uint64()
	if !ok {
		return value.Value{}, errComputationFailed(n.Left.NodeSpan(), "operator requires an integer operand")
	}
	r, ok := right.Uint64()
	if !ok {
		return value.Value{}, errComputationFailed(n.Right.NodeSpan(), "operator requires an integer operand")
	}

	switch n.Op {
	case syntax.OpOr:
		return value.Int(l|r, left.Signed()), nil
	case syntax.OpAnd:
		return value.Int(l&r, left.Signed()), nil
	case syntax.OpShl:
		if r >= 64 {
			return value.Value{}, errShiftOverflow(r, n.Span)
		}
		return value.Int(l<<r, left.Signed()), nil
	case syntax.OpShr:
		if r >= 64 {
			return value.Value{}, errShiftOverflow(r, n.Span)
		}
		return value.Int(l>>r, left.Signed()), nil
	case syntax.OpAdd:
		return value.Int(l+r, left.Signed()), nil
	case syntax.OpSub:
		return value.Int(l-r, left.Signed()), nil
	default:
		return value.Value{}, errComputationFailed(n.Span, "unknown operator")
	}
}

var builtinNames = map[string]bool{
	"bytes":    true,
	"sizeof":   true,
	"offsetof": true,
	"crc32":    true,
	"crc16":    true,
	"crc":      true,
	"sha256":   true,
	"hash":     true,
}

// IsKnownBuiltin reports whether name is an implemented builtin. It is
// exported for the compiler's semantic pass, which rejects unknown builtin
// names (including the retired `@version_pack`) before layout ever runs.
func IsKnownBuiltin(name string) bool {
	return builtinNames[name]
}

func evalCall(n *syntax.Call, ctx *Context) (value.Value, error) {
	switch n.Name {
	case "crc32", "crc16", "sha256":
		if len(n.Args) > 1 {
			return value.Value{}, errNotImplemented("multi-section ranges are reserved", n.Span)
		}
	}
	switch n.Name {
	case "bytes":
		return evalBytes(n, ctx)
	case "sizeof":
		return evalSizeof(n, ctx)
	case "offsetof":
		return evalOffsetof(n, ctx)
	case "crc32":
		return evalCRC(n, ctx, "crc32", 1)
	case "crc16":
		return evalCRC(n, ctx, "crc16-ccitt", 1)
	case "crc":
		return evalNamedCRC(n, ctx)
	case "sha256":
		return evalHash(n, ctx, "sha256", 1)
	case "hash":
		return evalNamedHash(n, ctx)
	default:
		return value.Value{}, errUnknownBuiltin(n.Name, n.Span)
	}
}

func evalBytes(n *syntax.Call, ctx *Context) (value.Value, error) {
	if len(n.Args) != 1 {
		return value.Value{}, errComputationFailed(n.Span, "@bytes takes exactly one argument")
	}
	argExpr, ok := n.Args[0].(syntax.Expr)
	if !ok {
		return value.Value{}, errComputationFailed(n.Span, "@bytes argument must be an expression")
	}
	v, err := Eval(argExpr, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if b, ok := v.AsBytes(); ok {
		return value.Bytes(b), nil
	}
	return value.Value{}, errComputationFailed(n.Span, "@bytes argument must fold to a string")
}

func evalSizeof(n *syntax.Call, ctx *Context) (value.Value, error) {
	if len(n.Args) != 1 {
		return value.Value{}, errComputationFailed(n.Span, "@sizeof takes exactly one argument")
	}
	size, _, err := resolveSectionSize(n.Args[0], ctx)
	if err != nil {
		return value.Value{}, err
	}
	return value.Int(uint64(size), false), nil
}

func resolveSectionSize(arg syntax.Node, ctx *Context) (int, string, error) {
	switch a := arg.(type) {
	case *syntax.SelfRange:
		if a.HasBrackets {
			return 0, "", errNotImplemented("@sizeof does not accept a bounded range", a.Span)
		}
		return int(ctx.StructSize), ctx.SelfName, nil
	case *syntax.Ident:
		if a.Name == ctx.SelfName {
			return int(ctx.StructSize), ctx.SelfName, nil
		}
		if sec, ok := ctx.Sections[a.Name]; ok {
			return len(sec), a.Name, nil
		}
		return 0, "", errUndefinedSection(a.Name, a.Span)
	default:
		return 0, "", errComputationFailed(arg.NodeSpan(), "expected a section name or @self")
	}
}

func evalOffsetof(n *syntax.Call, ctx *Context) (value.Value, error) {
	if len(n.Args) != 1 {
		return value.Value{}, errComputationFailed(n.Span, "@offsetof takes exactly one argument")
	}
	ident, ok := n.Args[0].(*syntax.Ident)
	if !ok {
		return value.Value{}, errComputationFailed(n.Span, "@offsetof argument must be a field name")
	}
	if ident.Name == ctx.Current || ident.Name == "self" {
		return value.Int(uint64(ctx.Cursor), false), nil
	}
	info, ok := ctx.Fields[ident.Name]
	if !ok {
		return value.Value{}, errInvalidReference(ident.Name, n.Span)
	}
	return value.Int(uint64(info.Offset), false), nil
}

func evalCRC(n *syntax.Call, ctx *Context, algo string, rangeArgIdx int) (value.Value, error) {
	if len(n.Args) != rangeArgIdx {
		return value.Value{}, errComputationFailed(n.Span, "unexpected argument count")
	}
	data, err := resolveRange(n.Args[rangeArgIdx-1], ctx)
	if err != nil {
		return value.Value{}, err
	}
	params, ok := crcenc.Lookup(algo)
	if !ok {
		return value.Value{}, errUnknownAlgorithm(algo, n.Span)
	}
	sum := params.Checksum(data)
	return value.Int(sum, false), nil
}

func evalNamedCRC(n *syntax.Call, ctx *Context) (value.Value, error) {
	if len(n.Args) != 2 {
		return value.Value{}, errComputationFailed(n.Span, "@crc takes (algorithm, range)")
	}
	algo, err := literalString(n.Args[0])
	if err != nil {
		return value.Value{}, err
	}
	return evalCRC(n, ctx, algo, 2)
}

func evalHash(n *syntax.Call, ctx *Context, algo string, rangeArgIdx int) (value.Value, error) {
	if len(n.Args) != rangeArgIdx {
		return value.Value{}, errComputationFailed(n.Span, "unexpected argument count")
	}
	data, err := resolveRange(n.Args[rangeArgIdx-1], ctx)
	if err != nil {
		return value.Value{}, err
	}
	sum, err := crcenc.Hash(algo, data)
	if err != nil {
		return value.Value{}, errUnknownAlgorithm(algo, n.Span)
	}
	return value.Bytes(sum), nil
}

func evalNamedHash(n *syntax.Call, ctx *Context) (value.Value, error) {
	if len(n.Args) != 2 {
		return value.Value{}, errComputationFailed(n.Span, "@hash takes (algorithm, range)")
	}
	algo, err := literalString(n.Args[0])
	if err != nil {
		return value.Value{}, err
	}
	return evalHash(n, ctx, algo, 2)
}

func literalString(arg syntax.Node) (string, error) {
	switch a := arg.(type) {
	case *syntax.StringLit:
		return a.Value, nil
	case *syntax.Ident:
		return a.Name, nil
	default:
		return "", errComputationFailed(arg.NodeSpan(), "expected an algorithm name")
	}
}
