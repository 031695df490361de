package ast

import (
	"testing"

	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literal(tree *Tree, value int64) *IntegerLiteral {
	lit := &IntegerLiteral{Value: value}
	lit.ValueType = types.Integer
	lit.Constant = true
	tree.Add(lit)
	return lit
}

// buildFunction builds: integer f() { return 1 + 2; @dead; }
func buildFunction(tree *Tree) (*FunctionDecl, *ReturnStmt, *BinaryExpr) {
	sum := &BinaryExpr{Left: literal(tree, 1), Op: types.OpAdd, Right: literal(tree, 2)}
	sum.ValueType = types.Integer
	tree.Adopt(sum, sum.Left, sum.Right)

	ret := &ReturnStmt{Value: sum}
	tree.Adopt(ret, sum)
	ret.ReturnPathID = ret.ID()

	label := &LabelStmt{Name: "dead"}
	label.MarkDead(AfterReturn)
	label.Index = 1

	body := &CodeScope{ScopeKind: ScopeFunctionBody, Statements: []Stmt{ret, label}}
	body.Scope = 1
	body.ReturnPathID = ret.ID()
	tree.Adopt(body, ret, label)

	fn := &FunctionDecl{Name: "f", ReturnType: types.Integer, Body: body}
	tree.Adopt(fn, body)
	return fn, ret, sum
}

func TestTreeHandles(t *testing.T) {
	tree := NewTree()
	fn, ret, sum := buildFunction(tree)

	assert.Equal(t, 7, tree.Len())
	assert.Same(t, ret, tree.Node(ret.ID()))
	assert.Same(t, ret, tree.Parent(sum))
	assert.Same(t, fn.Body, tree.Parent(ret))
	assert.Nil(t, tree.Parent(fn))
	assert.Nil(t, tree.Node(NoNode))
	assert.Nil(t, tree.Node(99))

	before := fn.ID()
	assert.Equal(t, before, tree.Add(fn), "re-adding keeps the handle")

	found := tree.Ancestor(sum, func(n Node) bool {
		_, ok := n.(*FunctionDecl)
		return ok
	})
	assert.Same(t, fn, found)
}

func TestAdoptSkipsNilChildren(t *testing.T) {
	tree := NewTree()
	var missing *CodeScope
	ifStmt := &IfStmt{Cond: literal(tree, 1)}
	tree.Adopt(ifStmt, ifStmt.Cond, missing, nil)
	assert.Equal(t, 2, tree.Len())
	assert.Len(t, Children(ifStmt), 1)
}

func TestCloneIsDetached(t *testing.T) {
	tree := NewTree()
	fn, ret, sum := buildFunction(tree)
	sum.Errors = true

	copied, copyTree := Clone(fn)
	clone, ok := copied.(*FunctionDecl)
	require.True(t, ok)
	assert.NotSame(t, fn, clone)
	assert.Equal(t, tree.Len(), copyTree.Len())
	assert.Equal(t, NoNode, clone.Parent())

	cloneRet := clone.Body.Statements[0].(*ReturnStmt)
	assert.NotSame(t, ret, cloneRet)
	assert.Same(t, cloneRet, copyTree.Node(cloneRet.ReturnPath()))
	assert.Same(t, cloneRet, copyTree.Node(clone.Body.ReturnPath()))

	cloneSum := cloneRet.Value.(*BinaryExpr)
	assert.True(t, cloneSum.HasErrors(), "clones of error nodes stay error nodes")
	assert.Same(t, cloneRet, copyTree.Parent(cloneSum))

	dead := clone.Body.Statements[1]
	assert.True(t, dead.IsDeadCode())
	assert.Equal(t, AfterReturn, dead.DeadCodeKind())
	assert.Equal(t, 1, dead.StatementIndex())

	cloneSum.Left.(*IntegerLiteral).Value = 40
	assert.Equal(t, int64(1), sum.Left.(*IntegerLiteral).Value)
}

func TestCloneClearsOutsideLinks(t *testing.T) {
	tree := NewTree()
	global := &GlobalVariable{Name: "g", DeclType: types.Integer}
	tree.Add(global)
	ref := &VariableRef{Name: "g", VarKind: KindGlobalVariable, Declaration: global.ID()}
	ref.ValueType = types.Integer
	tree.Add(ref)

	copied, _ := CloneExpr(ref)
	cloneRef := copied.(*VariableRef)
	assert.Equal(t, NoNode, cloneRef.Declaration)
	assert.Equal(t, KindGlobalVariable, cloneRef.Kind())
	assert.Equal(t, global.ID(), ref.Declaration)
}

func TestCloneUnit(t *testing.T) {
	tree := NewTree()
	fn, _, _ := buildFunction(tree)
	global := &GlobalVariable{Name: "g", DeclType: types.Float}
	unit := &CompilationUnit{
		Tree:      tree,
		Decls:     []Node{global, fn},
		Globals:   []*GlobalVariable{global},
		Functions: []*FunctionDecl{fn},
		Default:   &StateDecl{Name: "default", IsDefault: true},
		Errors:    true,
	}
	tree.Adopt(unit, global, fn, unit.Default)

	clone := CloneUnit(unit)
	require.NotNil(t, clone)
	assert.True(t, clone.HasErrors())
	assert.NotSame(t, tree, clone.Tree)
	assert.Same(t, clone.Globals[0], clone.Decls[0])
	assert.Same(t, clone.Functions[0], clone.Decls[1])
	assert.Same(t, clone.Default, clone.State("default"))
	assert.Same(t, clone.Functions[0], clone.Function("f"))
	assert.Nil(t, clone.Global("missing"))
}

func TestWalkHelpers(t *testing.T) {
	tree := NewTree()
	fn, _, sum := buildFunction(tree)

	var count int
	Walk(fn, func(Node) { count++ })
	assert.Equal(t, 7, count)

	found, ok := Find[*BinaryExpr](fn)
	require.True(t, ok)
	assert.Same(t, sum, found)

	literals := Collect[*IntegerLiteral](fn)
	assert.Len(t, literals, 2)

	_, ok = Find[*CallExpr](fn)
	assert.False(t, ok)

	var visited int
	Inspect(fn, func(n Node) bool {
		visited++
		_, isReturn := n.(*ReturnStmt)
		return !isReturn
	})
	assert.Equal(t, 4, visited)
}

func TestKindsAndUnwrap(t *testing.T) {
	inner := &VariableRef{Name: "x", VarKind: KindLocalVariable}
	paren := &ParenExpr{Inner: &ParenExpr{Inner: inner}}
	assert.Same(t, inner, Unwrap(paren))
	assert.Equal(t, KindParenthesized, paren.Kind())
	assert.True(t, inner.Kind().IsVariable())
	assert.False(t, KindLibraryConstant.IsVariable())

	call := &CallExpr{Name: "f"}
	assert.Equal(t, KindUserFunctionCall, call.Kind())

	assert.Equal(t, "after return", AfterReturn.String())
	assert.Equal(t, "jumped over", JumpOverCode.String())
	assert.Equal(t, "library constant", KindLibraryConstant.String())
}
