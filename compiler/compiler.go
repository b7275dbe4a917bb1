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

// Package compiler implements the semantic analyzer and layout planner
// (spec.md §4.2, §4.3): it turns a parsed *syntax.File plus an environment
// and section store into a Plan the encoder can drive, or a list of errors.
package compiler

import (
	"go.delbin.dev/delbin/eval"
	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

// Field is one struct field after layout: its declared shape plus its
// assigned offset and size.
type Field struct {
	Name    string
	Type    *syntax.FieldType
	Init    syntax.Expr
	Offset  uint32
	Size    uint32
	SelfRef bool
}

// Plan is the compiled struct, ready for the two-phase encoder.
type Plan struct {
	StructName   string
	LittleEndian bool
	Packed       bool
	Align        int
	Size         uint32
	Fields       []*Field
}

var reservedWords = map[string]bool{
	"struct": true, "endian": true, "packed": true, "align": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"bytes": true, "sizeof": true, "offsetof": true,
	"crc32": true, "crc16": true, "crc": true, "sha256": true, "hash": true,
	"self": true,
}

var selfRefBuiltins = map[string]bool{
	"crc32": true, "crc16": true, "crc": true, "sha256": true, "hash": true,
}

// Compile runs the semantic analyzer and layout planner over a parsed file.
// On success it returns a Plan and no errors (the compiler emits no
// warnings); on failure it returns every semantic error found before layout
// begins, per spec.md §7's propagation policy ("callers receive the
// highest-severity error available rather than the first failure of a later
// phase"), or the single error that stopped layout.
func Compile(file *syntax.File, env map[string]value.Value, sections map[string][]byte) (*Plan, []error) {
	c := &compiler{
		file:     file,
		env:      env,
		sections: sections,
	}
	c.runSemanticChecks()
	if len(c.errors) > 0 {
		return nil, c.errors
	}

	plan, err := c.layout()
	if err != nil {
		return nil, []error{err}
	}
	return plan, nil
}

type compiler struct {
	file     *syntax.File
	env      map[string]value.Value
	sections map[string][]byte
	errors   []error

	fieldIndex map[string]int
}

func (c *compiler) err(err error) {
	c.errors = append(c.errors, err)
}

func (c *compiler) runSemanticChecks() {
	st := c.file.Struct
	if reservedWords[st.Name.Name] {
		c.err(errReservedWord(st.Name.Name, st.Name.Span))
	}

	c.fieldIndex = make(map[string]int, len(st.Fields))
	seen := make(map[string]bool, len(st.Fields))
	for i, f := range st.Fields {
		if reservedWords[f.Name.Name] {
			c.err(errReservedWord(f.Name.Name, f.Name.Span))
		}
		if seen[f.Name.Name] {
			c.err(errDuplicateField(f.Name.Name, f.Name.Span))
			continue
		}
		seen[f.Name.Name] = true
		c.fieldIndex[f.Name.Name] = i
	}

	for i, f := range st.Fields {
		if f.Type.IsArray {
			c.checkExprTree(f.Type.ArrayLen, i, false)
		}
		if f.Init != nil {
			c.checkExprTree(f.Init, i, true)
		}
	}
}

// checkExprTree walks an expression tree belonging to field index
// fieldIdx, validating every environment reference, builtin name, and
// field/section reference it contains. topLevel marks whether node is the
// field's initializer itself (as opposed to a length expression or a
// subexpression); it is passed on to checkCall, but no check depends on it.
// Self-referencing CRC/hash fields are recognized by isSelfRef during layout.
func (c *compiler) checkExprTree(node syntax.Node, fieldIdx int, topLevel bool) {
	switch n := node.(type) {
	case *syntax.IntLit, *syntax.StringLit:
		// leaves, nothing to check
	case *syntax.EnvRef:
		if _, ok := c.env[n.Name]; !ok {
			c.err(errUndefinedVariable(n.Name, n.Span))
		}
	case *syntax.Ident:
		if _, ok := c.env[n.Name]; !ok {
			c.err(errUndefinedVariable(n.Name, n.Span))
		}
	case *syntax.ParenExpr:
		c.checkExprTree(n.Inner, fieldIdx, false)
	case *syntax.UnaryExpr:
		c.checkExprTree(n.Operand, fieldIdx, false)
	case *syntax.BinaryExpr:
		c.checkExprTree(n.Left, fieldIdx, false)
		c.checkExprTree(n.Right, fieldIdx, false)
	case *syntax.Call:
		c.checkCall(n, fieldIdx, topLevel)
	case *syntax.ArrayLit:
		for _, elem := range n.Elems {
			c.checkExprTree(elem, fieldIdx, false)
		}
	case *syntax.ArrayRepeat:
		c.checkExprTree(n.Value, fieldIdx, false)
		if n.Count != nil {
			c.checkExprTree(n.Count, fieldIdx, false)
		}
	default:
		c.err(errInvalidArraySize(node.NodeSpan()))
	}
}

func (c *compiler) checkCall(call *syntax.Call, fieldIdx int, topLevel bool) {
	if !eval.IsKnownBuiltin(call.Name) {
		c.err(errUnknownBuiltin(call.Name, call.Span))
		return
	}

	switch call.Name {
	case "bytes":
		for _, arg := range call.Args {
			if expr, ok := arg.(syntax.Expr); ok {
				c.checkExprTree(expr, fieldIdx, false)
			}
		}
	case "offsetof":
		if len(call.Args) != 1 {
			return
		}
		ident, ok := call.Args[0].(*syntax.Ident)
		if !ok {
			return
		}
		c.checkFieldRef(ident, fieldIdx)
	case "sizeof":
		if len(call.Args) != 1 {
			return
		}
		c.checkSectionRef(call.Args[0], fieldIdx)
	case "crc32", "crc16", "sha256":
		if len(call.Args) == 1 {
			c.checkRangeRef(call.Args[0], fieldIdx)
		}
	case "crc", "hash":
		if len(call.Args) == 2 {
			c.checkRangeRef(call.Args[1], fieldIdx)
		}
	}
}

func (c *compiler) checkFieldRef(ident *syntax.Ident, fieldIdx int) {
	st := c.file.Struct
	if ident.Name == st.Fields[fieldIdx].Name.Name || ident.Name == "self" {
		return
	}
	targetIdx, ok := c.fieldIndex[ident.Name]
	if !ok {
		c.err(errUndefinedField(ident.Name, ident.Span))
		return
	}
	if targetIdx >= fieldIdx {
		c.err(errCircularDependency(ident.Name, ident.Span))
	}
}

func (c *compiler) checkSectionRef(arg syntax.Node, fieldIdx int) {
	switch a := arg.(type) {
	case *syntax.Ident:
		if a.Name == c.file.Struct.Name.Name || a.Name == "self" {
			return
		}
		if _, ok := c.sections[a.Name]; ok {
			return
		}
		c.err(errUndefinedSection(a.Name, a.Span))
	case *syntax.SelfRange:
		c.checkSelfRangeBounds(a, fieldIdx)
	}
}

// checkRangeRef validates the range argument of a @crc32/@crc16/@crc/@sha256
// /@hash call. Unlike @sizeof's range, a bare unbounded `@self` here always
// covers the field's own placeholder bytes (there is no "other struct" to
// name), which is the exact case design notes forbid: a self-ref algorithm
// must never read its own output bytes.
func (c *compiler) checkRangeRef(arg syntax.Node, fieldIdx int) {
	switch a := arg.(type) {
	case *syntax.Ident:
		if a.Name == c.file.Struct.Name.Name || a.Name == "self" {
			c.err(errCircularDependency(a.Name, a.Span))
			return
		}
		if _, ok := c.sections[a.Name]; ok {
			return
		}
		c.err(errUndefinedSection(a.Name, a.Span))
	case *syntax.SelfRange:
		if !a.HasBrackets || (a.Start == nil && a.End == nil) {
			c.err(errCircularDependency(c.file.Struct.Name.Name, a.Span))
			return
		}
		c.checkSelfRangeBounds(a, fieldIdx)
	}
}

func (c *compiler) checkSelfRangeBounds(r *syntax.SelfRange, fieldIdx int) {
	checkBound := func(bound syntax.Expr) {
		ident, ok := bound.(*syntax.Ident)
		if !ok {
			return
		}
		st := c.file.Struct
		if ident.Name == st.Fields[fieldIdx].Name.Name || ident.Name == "self" {
			return
		}
		targetIdx, ok := c.fieldIndex[ident.Name]
		if !ok {
			c.err(errUndefinedField(ident.Name, ident.Span))
			return
		}
		if targetIdx > fieldIdx {
			c.err(errCircularDependency(ident.Name, ident.Span))
		}
	}
	if r.Start != nil {
		checkBound(r.Start)
	}
	if r.End != nil {
		checkBound(r.End)
	}
}

// isSelfRef reports whether a field's initializer is a CRC/hash builtin
// whose range touches the struct itself (spec.md §4.2.4's self-reference
// recognition rule).
func isSelfRef(init syntax.Expr, structName string) bool {
	call, ok := init.(*syntax.Call)
	if !ok || !selfRefBuiltins[call.Name] {
		return false
	}
	var rangeArg syntax.Node
	switch call.Name {
	case "crc32", "crc16", "sha256":
		if len(call.Args) != 1 {
			return false
		}
		rangeArg = call.Args[0]
	case "crc", "hash":
		if len(call.Args) != 2 {
			return false
		}
		rangeArg = call.Args[1]
	}
	switch a := rangeArg.(type) {
	case *syntax.SelfRange:
		return true
	case *syntax.Ident:
		return a.Name == structName || a.Name == "self"
	default:
		return false
	}
}
