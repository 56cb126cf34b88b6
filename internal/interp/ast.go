// Package interp implements the tree-walking evaluator for the score
// language's AST: lexical scoping, structs, lists, maps, and first-class
// functions/methods with nonlocal return.
package interp

import "github.com/rtcmix/rtcore/internal/value"

// Node is one AST node. Line/File are carried for diagnostics; Eval is not
// a method on Node so that the recursive walk (eval.go) can thread a single
// Evaluator through without boxing it into every node.
type Node interface {
	isNode()
	Pos() Position
}

// Position names a node's source location for diagnostics.
type Position struct {
	Line int
	File string
}

func (p Position) Pos() Position { return p }

func (Constf) isNode()          {}
func (String) isNode()          {}
func (LoadSym) isNode()         {}
func (AutoDeclLoadSym) isNode() {}
func (LoadFuncSym) isNode()     {}
func (List) isNode()            {}
func (ListElem) isNode()        {}
func (SubscriptRead) isNode()   {}
func (SubscriptWrite) isNode()  {}
func (MemberAccess) isNode()    {}
func (Store) isNode()           {}
func (OpAssign) isNode()        {}
func (Operator) isNode()        {}
func (UnaryOperator) isNode()   {}
func (And) isNode()             {}
func (Or) isNode()              {}
func (Not) isNode()             {}
func (Relation) isNode()        {}
func (If) isNode()              {}
func (IfElse) isNode()          {}
func (While) isNode()           {}
func (For) isNode()             {}
func (Block) isNode()           {}
func (Seq) isNode()             {}
func (FuncBodySeq) isNode()     {}
func (FuncDecl) isNode()        {}
func (MethodDecl) isNode()      {}
func (FuncDef) isNode()         {}
func (ArgList) isNode()         {}
func (ArgListElem) isNode()     {}
func (Ret) isNode()             {}
func (Call) isNode()            {}
func (StructDef) isNode()       {}
func (MemberDeclNode) isNode()  {}
func (StructDecl) isNode()      {}

// Constf is a Float literal.
type Constf struct {
	Position
	Val float64
}

// String is a String literal.
type String struct {
	Position
	Val string
}

// LoadSym looks up and copies a symbol's current value.
type LoadSym struct {
	Position
	Name string
}

// AutoDeclLoadSym behaves like LoadSym but autodeclares the name (as Void)
// if no binding is visible, for use inside function-argument contexts.
type AutoDeclLoadSym struct {
	Position
	Name string
}

// LoadFuncSym resolves a function symbol; if none exists, it evaluates to
// the bare name as a String so a builtin can still be dispatched by name.
type LoadFuncSym struct {
	Position
	Name string
}

// List evaluates each ListElem in turn into a fresh List value.
type List struct {
	Position
	Elems []Node
}

// ListElem wraps one list-literal element expression.
type ListElem struct {
	Position
	Expr Node
}

// SubscriptRead implements obj[idx] for List, Map, and String.
type SubscriptRead struct {
	Position
	Obj Node
	Idx Node
}

// SubscriptWrite implements obj[idx] = rhs for List and Map.
type SubscriptWrite struct {
	Position
	Obj Node
	Idx Node
	Rhs Node
}

// MemberAccess implements obj.name: a struct field read, or (on a field
// miss) a mangled-method lookup that stages a pending "this" for Call.
type MemberAccess struct {
	Position
	Obj  Node
	Name string
}

// Store implements lhs = rhs. AllowTypeOverwrite governs what happens when
// lhs already holds a different Kind than rhs.
type Store struct {
	Position
	Lhs                Node
	Rhs                Node
	AllowTypeOverwrite bool
}

// OpAssign implements +=, -=, *=, /=, ++, -- — defined only between Floats.
type OpAssign struct {
	Position
	Lhs Node
	Op  string
	Rhs Node
}

// Operator is a binary arithmetic/string/list operator (+ - * / %).
type Operator struct {
	Position
	Op   string
	L, R Node
}

// UnaryOperator is unary negation.
type UnaryOperator struct {
	Position
	Operand Node
}

// And/Or short-circuit boolean combinators (truthiness: nonzero Float).
type And struct {
	Position
	L, R Node
}

type Or struct {
	Position
	L, R Node
}

// Not yields Float 0/1.
type Not struct {
	Position
	Operand Node
}

// Relation is a comparison operator (== != < <= > >=).
type Relation struct {
	Position
	Op   string
	L, R Node
}

// If/IfElse/While/For are standard control flow; For has a classic
// init/cond/step/body shape.
type If struct {
	Position
	Cond Node
	Then Node
}

type IfElse struct {
	Position
	Cond       Node
	Then, Else Node
}

type While struct {
	Position
	Cond Node
	Body Node
}

type For struct {
	Position
	Init, Cond, Step Node
	Body             Node
}

// Block pushes a new lexical scope around Body and pops it on exit.
type Block struct {
	Position
	Body Node
}

// Seq evaluates A then B, in order, propagating a nonlocal return from
// either.
type Seq struct {
	Position
	A, B Node
}

// FuncBodySeq is a function body followed by its (possibly absent) trailing
// return statement.
type FuncBodySeq struct {
	Position
	Body Node
	Ret  Node
}

// FuncDecl installs a new global Function symbol for Name.
type FuncDecl struct {
	Position
	Name string
}

// MethodDecl installs a mangled global Function symbol for a method.
type MethodDecl struct {
	Position
	StructName string
	Name       string
}

// FuncDef binds a Function value (arglist + body) onto the symbol declared
// by Decl.
type FuncDef struct {
	Position
	Decl     Node
	ArgNames []string
	Body     Node
	IsMethod bool
}

// ArgList declares each formal parameter in the callee scope and copies the
// Nth caller-supplied Value into it.
type ArgList struct {
	Position
	Elems []ArgListElem
}

// ArgListElem is one formal parameter declaration.
type ArgListElem struct {
	Position
	Name string
}

// Ret evaluates Expr and transfers control nonlocally out of the enclosing
// Call.
type Ret struct {
	Position
	Expr Node
}

// Call evaluates Target; if the result is a Function it enters a new call
// frame, if it is a String it dispatches through the builtin/external
// function tables.
type Call struct {
	Position
	Target Node
	Args   []Node
}

// StructDef registers a new struct type and its member declarations.
type StructDef struct {
	Position
	Name    string
	Members []MemberDeclNode
}

// MemberDeclNode is one (name, type, subtype) entry of a StructDef.
type MemberDeclNode struct {
	Position
	Name    string
	Kind    value.Kind
	SubType string // struct subtype name, if Kind == value.Struct
}

// StructDecl instantiates a registered struct type, optionally copying an
// initializer list into members element-wise.
type StructDecl struct {
	Position
	TypeName string
	VarName  string
	Inits    []Node
}
