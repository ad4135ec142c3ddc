// Package ast defines the Lumen abstract syntax tree.
//
// All nodes of one compilation unit live in a single Arena and refer to
// each other through NodeID handles, never through pointers. A node is
// written exactly once, during parsing, and the whole arena is dropped
// together with its Tree. This keeps the AST cycle-free and makes bulk
// teardown trivial.
package ast

import (
	"github.com/lumen-lang/lumen/internal/lexer"
)

// NodeID is a stable handle into an Arena. The zero value NoNode is
// reserved and never refers to a real node.
type NodeID int32

// NoNode is the invalid handle. Optional children use it for "absent".
const NoNode NodeID = 0

// NodeKind discriminates the Node variant.
type NodeKind uint8

const (
	KindBad NodeKind = iota // placeholder produced during error recovery

	KindFile // List: top-level declarations and statements

	// Declarations.
	KindFnDecl     // Text: name; List: params; X: return type; Y: body block (NoNode for forward decl)
	KindParam      // Text: name; X: type
	KindVarDecl    // Op: introducing keyword; Text: name; X: type; Y: initializer; Z: destructuring pattern
	KindStructDecl // Text: name; List: fields
	KindFieldDecl  // Text: name; X: type
	KindTypeDecl   // Text: name; X: aliased type
	KindAttribute  // Text: name; List: argument expressions

	// Statements.
	KindBlock    // Op: delimiter style (LBRACE, INDENT, or 0 for single-statement shortcut); List: statements
	KindExprStmt // X: expression
	KindReturnStmt
	KindIfStmt    // X: condition; Y: then block; Z: else block or else-if statement
	KindWhileStmt // X: condition; Y: body
	KindForStmt   // Text: loop variable; X: iterable; Y: body
	KindBreakStmt
	KindContinueStmt

	// Expressions.
	KindIdent
	KindIntLit
	KindFloatLit
	KindStringLit
	KindBoolLit
	KindUnaryExpr  // Op: operator; X: operand
	KindBinaryExpr // Op: operator; X, Y: operands
	KindAssignExpr // Op: assignment operator; X: target; Y: value
	KindCallExpr   // X: callee; List: arguments
	KindIndexExpr  // X: indexed; Y: index
	KindMemberExpr // X: receiver; Text: member name
	KindTryExpr    // X: operand of postfix ?
	KindTupleExpr  // List: elements
	KindIfExpr     // X: condition; Y: then block; Z: else block
	KindMatchExpr  // X: subject; List: arms
	KindMatchArm   // X: pattern; Y: guard (optional); Z: body expression or block

	// Types.
	KindNamedType   // Text: name
	KindListType    // X: element type
	KindPointerType // X: pointee type
	KindFnType      // List: parameter types; X: result type

	// Patterns.
	KindLiteralPat   // X: literal expression
	KindBindingPat   // Text: bound name
	KindWildcardPat  // _
	KindAggregatePat // Text: type name; List: field patterns; FlagRest when .. present
	KindFieldPat     // Text: field name; X: sub-pattern (NoNode for shorthand binding)
	KindTuplePat     // List: element patterns
)

var kindNames = [...]string{
	KindBad:          "Bad",
	KindFile:         "File",
	KindFnDecl:       "FnDecl",
	KindParam:        "Param",
	KindVarDecl:      "VarDecl",
	KindStructDecl:   "StructDecl",
	KindFieldDecl:    "FieldDecl",
	KindTypeDecl:     "TypeDecl",
	KindAttribute:    "Attribute",
	KindBlock:        "Block",
	KindExprStmt:     "ExprStmt",
	KindReturnStmt:   "ReturnStmt",
	KindIfStmt:       "IfStmt",
	KindWhileStmt:    "WhileStmt",
	KindForStmt:      "ForStmt",
	KindBreakStmt:    "BreakStmt",
	KindContinueStmt: "ContinueStmt",
	KindIdent:        "Ident",
	KindIntLit:       "IntLit",
	KindFloatLit:     "FloatLit",
	KindStringLit:    "StringLit",
	KindBoolLit:      "BoolLit",
	KindUnaryExpr:    "UnaryExpr",
	KindBinaryExpr:   "BinaryExpr",
	KindAssignExpr:   "AssignExpr",
	KindCallExpr:     "CallExpr",
	KindIndexExpr:    "IndexExpr",
	KindMemberExpr:   "MemberExpr",
	KindTryExpr:      "TryExpr",
	KindTupleExpr:    "TupleExpr",
	KindIfExpr:       "IfExpr",
	KindMatchExpr:    "MatchExpr",
	KindMatchArm:     "MatchArm",
	KindNamedType:    "NamedType",
	KindListType:     "ListType",
	KindPointerType:  "PointerType",
	KindFnType:       "FnType",
	KindLiteralPat:   "LiteralPat",
	KindBindingPat:   "BindingPat",
	KindWildcardPat:  "WildcardPat",
	KindAggregatePat: "AggregatePat",
	KindFieldPat:     "FieldPat",
	KindTuplePat:     "TuplePat",
}

// String returns the node kind name.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "NodeKind(?)"
}

// NodeFlags carries boolean properties of a node.
type NodeFlags uint8

const (
	FlagPub    NodeFlags = 1 << iota // pub qualifier
	FlagExtern                       // extern qualifier
	FlagRest                         // aggregate pattern ends with a rest marker
)

// Node is the tagged variant over all grammar productions. The meaning
// of Op, Text, X, Y, Z and List depends on Kind; see the kind constants.
// Nodes are immutable once allocated.
type Node struct {
	Kind  NodeKind
	Flags NodeFlags
	Op    lexer.TokenType
	Span  lexer.Span
	Text  string
	X     NodeID
	Y     NodeID
	Z     NodeID
	List  []NodeID
	Attrs []NodeID
}

// Arena is a bump allocator owning all nodes of one compilation unit.
// Allocation is O(1) amortized; individual nodes are never freed.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena. Index 0 is reserved for NoNode.
func NewArena() *Arena {
	a := &Arena{nodes: make([]Node, 1, 256)}
	a.nodes[0] = Node{Kind: KindBad}
	return a
}

// Alloc stores the node and returns its handle. Handles remain valid
// for the lifetime of the arena.
func (a *Arena) Alloc(n Node) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

// Get returns the node for the handle. NoNode yields the reserved Bad
// node. Callers must not mutate the result.
func (a *Arena) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return &a.nodes[0]
	}
	return &a.nodes[id]
}

// Len returns the number of allocated nodes, including the reserved slot.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Tree is a parsed compilation unit: the arena plus its root handle.
type Tree struct {
	Arena    *Arena
	Root     NodeID
	Filename string
}

// Node returns the node for a handle in this tree.
func (t *Tree) Node(id NodeID) *Node {
	return t.Arena.Get(id)
}

// Equal reports whether two subtrees are structurally equal, ignoring
// source spans.
func Equal(ta *Tree, ida NodeID, tb *Tree, idb NodeID) bool {
	if (ida == NoNode) != (idb == NoNode) {
		return false
	}
	if ida == NoNode {
		return true
	}
	na, nb := ta.Node(ida), tb.Node(idb)
	if na.Kind != nb.Kind || na.Flags != nb.Flags || na.Text != nb.Text {
		return false
	}
	// Block delimiter style is concrete syntax, not structure.
	if na.Kind != KindBlock && na.Op != nb.Op {
		return false
	}
	if !Equal(ta, na.X, tb, nb.X) || !Equal(ta, na.Y, tb, nb.Y) || !Equal(ta, na.Z, tb, nb.Z) {
		return false
	}
	if len(na.List) != len(nb.List) || len(na.Attrs) != len(nb.Attrs) {
		return false
	}
	for i := range na.List {
		if !Equal(ta, na.List[i], tb, nb.List[i]) {
			return false
		}
	}
	for i := range na.Attrs {
		if !Equal(ta, na.Attrs[i], tb, nb.Attrs[i]) {
			return false
		}
	}
	return true
}
