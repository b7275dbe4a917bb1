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

package syntax

// Node is implemented by every AST node; it exposes the source span the
// node was parsed from, for diagnostics.
type Node interface {
	NodeSpan() Span
}

// Expr is implemented by every initializer-expression node (spec.md §3,
// "Initializer expression").
type Expr interface {
	Node
	exprNode()
}

// File is the root of a parsed schema (spec.md §3 "File").
type File struct {
	Span     Span
	Endian   *EndianDirective // nil => default little-endian
	Struct   *Struct
}

func (n *File) NodeSpan() Span { return n.Span }

// EndianDirective is the optional `@endian=little|big;` directive.
type EndianDirective struct {
	Span  Span
	Value string // "little" or "big"
}

func (n *EndianDirective) NodeSpan() Span { return n.Span }

// StructAttrs is the set of attributes attached to the struct declaration
// (spec.md §3 "Struct").
type StructAttrs struct {
	Packed bool
	Align  int // 0 => not present
}

// Struct is the single struct declaration a schema must contain.
type Struct struct {
	Span   Span
	Name   *Ident
	Attrs  StructAttrs
	Fields []*Field
}

func (n *Struct) NodeSpan() Span { return n.Span }

// Field is one field of the struct, in declaration order.
type Field struct {
	Span Span
	Name *Ident
	Type *FieldType
	Init Expr // nil => zero-initialized
}

func (n *Field) NodeSpan() Span { return n.Span }

// ScalarKind enumerates the eight scalar primitive types.
type ScalarKind uint8

const (
	ScalarInvalid ScalarKind = iota
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
)

func (k ScalarKind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	default:
		return "<invalid scalar>"
	}
}

func (k ScalarKind) Signed() bool {
	switch k {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (k ScalarKind) Width() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32:
		return 4
	case U64, I64:
		return 8
	default:
		return 0
	}
}

func ScalarKindFromName(name string) (ScalarKind, bool) {
	switch name {
	case "u8":
		return U8, true
	case "u16":
		return U16, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	case "i8":
		return I8, true
	case "i16":
		return I16, true
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	default:
		return ScalarInvalid, false
	}
}

// FieldType is either a bare scalar or a fixed-length array of scalars
// (spec.md §3 "Type").
type FieldType struct {
	Span     Span
	Elem     ScalarKind
	IsArray  bool
	ArrayLen Expr // only set when IsArray; folded by the layout planner
}

func (n *FieldType) NodeSpan() Span { return n.Span }

// Ident is a bare identifier: a field name, a section name, an environment
// flag-like reference, or a struct/type name.
type Ident struct {
	Span Span
	Name string
}

func (n *Ident) NodeSpan() Span { return n.Span }
func (n *Ident) exprNode()      {}

// IntLit is an integer literal (decimal, hex, or binary).
type IntLit struct {
	Span  Span
	Value uint64
}

func (n *IntLit) NodeSpan() Span { return n.Span }
func (n *IntLit) exprNode()      {}

// StringLit is a double-quoted string literal, already escape-decoded.
type StringLit struct {
	Span  Span
	Value string
}

func (n *StringLit) NodeSpan() Span { return n.Span }
func (n *StringLit) exprNode()      {}

// EnvRef is a `${NAME}` environment reference.
type EnvRef struct {
	Span Span
	Name string
}

func (n *EnvRef) NodeSpan() Span { return n.Span }
func (n *EnvRef) exprNode()      {}

// BinOp enumerates the binary operators of the expression grammar, in
// order from lowest to highest precedence (spec.md §4.1).
type BinOp uint8

const (
	OpOr BinOp = iota // |
	OpAnd             // &
	OpShl             // <<
	OpShr             // >>
	OpAdd             // +
	OpSub             // -
)

func (op BinOp) String() string {
	switch op {
	case OpOr:
		return "|"
	case OpAnd:
		return "&"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	default:
		return "?"
	}
}

// BinaryExpr is a left-associative binary operator application.
type BinaryExpr struct {
	Span  Span
	Op    BinOp
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) NodeSpan() Span { return n.Span }
func (n *BinaryExpr) exprNode()      {}

// UnaryExpr is bitwise NOT (`~x`), the only unary operator.
type UnaryExpr struct {
	Span    Span
	Operand Expr
}

func (n *UnaryExpr) NodeSpan() Span { return n.Span }
func (n *UnaryExpr) exprNode()      {}

// ParenExpr preserves an explicit parenthesization, purely so error spans
// and any future unparsing can point at the written form.
type ParenExpr struct {
	Span  Span
	Inner Expr
}

func (n *ParenExpr) NodeSpan() Span { return n.Span }
func (n *ParenExpr) exprNode()      {}

// ArrayLit is an explicit element list `[e1, e2, ...]`, including the empty
// list `[]` (spec.md §3, "explicit list of length L into array of length
// N uses the first min(L,N) elements and zero-pads the tail").
type ArrayLit struct {
	Span  Span
	Elems []Expr
}

func (n *ArrayLit) NodeSpan() Span { return n.Span }
func (n *ArrayLit) exprNode()      {}

// ArrayRepeat is the repeat form `[v; k]` (spec.md §3). Count is nil when
// written as `[v; _]`, meaning "repeat Value for the destination array's
// declared length".
type ArrayRepeat struct {
	Span  Span
	Value Expr
	Count Expr // nil => `_`
}

func (n *ArrayRepeat) NodeSpan() Span { return n.Span }
func (n *ArrayRepeat) exprNode()      {}

// CallArg is one argument to a builtin call: either an expression, a
// range, or a bare identifier naming a section (grammar's `arg`
// production covers all three, and Ident already satisfies Expr).
type CallArg = Node

// Call is a builtin function invocation, `@name(args...)`.
type Call struct {
	Span Span
	Name string
	Args []CallArg
}

func (n *Call) NodeSpan() Span { return n.Span }
func (n *Call) exprNode()      {}

// SelfRange is `@self`, `@self[a..b]`, `@self[..f]`, or `@self[f..]`.
// Start/End are nil when the corresponding bound is omitted; a bound is
// itself either an *IntLit or an *Ident (a field name).
type SelfRange struct {
	Span  Span
	Start Expr
	End   Expr
	// HasBrackets distinguishes bare `@self` (whole-struct, both nil) from
	// `@self[..]` forms. As a CRC/hash range, `@self[..]` with both bounds
	// nil covers the whole struct just like bare `@self`; `@sizeof` accepts
	// only the bare form.
	HasBrackets bool
}

func (n *SelfRange) NodeSpan() Span { return n.Span }
