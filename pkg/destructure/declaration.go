// Package destructure implements the destructuring-declaration analysis and
// rewrite: given a single-name binding of record-like or pair-like type, it
// collects every usage of the binding in scope, decides whether replacing
// the binding with a destructuring declaration is safe and worthwhile, and
// produces the rewrite as an atomic command.
package destructure

import (
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// DeclKind discriminates the three declaration shapes that can be
// destructured. Each shape carries its own rewrite strategy.
type DeclKind int

// Declaration kinds.
const (
	// KindLoopParameter is a for-loop binding: `for (e in m)`.
	KindLoopParameter DeclKind = iota

	// KindLambdaParameter is a lambda's single explicit parameter:
	// `{ e -> ... }`.
	KindLambdaParameter

	// KindLocalVariable is a local property: `val e = expr`.
	KindLocalVariable
)

func (k DeclKind) String() string {
	switch k {
	case KindLoopParameter:
		return "loop parameter"
	case KindLambdaParameter:
		return "lambda parameter"
	case KindLocalVariable:
		return "local variable"
	default:
		return "unknown"
	}
}

// Declaration is the sum over the three destructurable shapes.
type Declaration interface {
	// Kind identifies the concrete shape.
	Kind() DeclKind

	// Binding returns the variable_declaration node being replaced.
	Binding() *syntax.Node

	// scope returns the subtree holding the binding's usages plus the byte
	// offset usages must start at or after. The offset matters only for
	// local variables, whose scope is the tail of the enclosing block.
	scope() (*syntax.Node, uint)
}

// LoopParameter is a for-loop binding.
type LoopParameter struct {
	// Loop is the for_statement node.
	Loop *syntax.Node

	// Param is the loop's variable_declaration.
	Param *syntax.Node
}

// Kind implements Declaration.
func (LoopParameter) Kind() DeclKind { return KindLoopParameter }

// Binding implements Declaration.
func (d LoopParameter) Binding() *syntax.Node { return d.Param }

func (d LoopParameter) scope() (*syntax.Node, uint) {
	body := syntax.ForLoopBody(d.Loop)
	if body == nil {
		return nil, 0
	}

	return body, body.Span.Start
}

// LambdaParameter is a lambda's single explicit parameter.
type LambdaParameter struct {
	// Lambda is the lambda_literal node.
	Lambda *syntax.Node

	// Param is the parameter's variable_declaration.
	Param *syntax.Node
}

// Kind implements Declaration.
func (LambdaParameter) Kind() DeclKind { return KindLambdaParameter }

// Binding implements Declaration.
func (d LambdaParameter) Binding() *syntax.Node { return d.Param }

func (d LambdaParameter) scope() (*syntax.Node, uint) {
	body := syntax.LambdaBody(d.Lambda)
	if body == nil {
		return nil, 0
	}

	return body, body.Span.Start
}

// LocalVariable is a local property declaration with an initializer.
type LocalVariable struct {
	// Property is the property_declaration node.
	Property *syntax.Node

	// Var is the property's variable_declaration.
	Var *syntax.Node
}

// Kind implements Declaration.
func (LocalVariable) Kind() DeclKind { return KindLocalVariable }

// Binding implements Declaration.
func (d LocalVariable) Binding() *syntax.Node { return d.Var }

// scope is the remainder of the enclosing block after the declaration.
func (d LocalVariable) scope() (*syntax.Node, uint) {
	return d.Property.Parent, d.Property.Span.End
}

// FindDeclarations returns every declaration in the tree that has a shape
// the analysis can work on. Aggregate resolution and usage collection are
// separate steps; this is purely structural discovery.
func FindDeclarations(tree *syntax.Tree) []Declaration {
	var found []Declaration

	tree.Root.Walk(func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindForStatement:
			// A multi_variable_declaration parameter is already destructured.
			if param := syntax.ForLoopParameter(n); param != nil && param.Kind == syntax.KindVariableDeclaration {
				found = append(found, LoopParameter{Loop: n, Param: param})
			}

		case syntax.KindLambdaLiteral:
			if param := syntax.LambdaParameterOf(n); param != nil {
				found = append(found, LambdaParameter{Lambda: n, Param: param})
			}

		case syntax.KindPropertyDeclaration:
			if local, ok := localVariableOf(n); ok {
				found = append(found, local)
			}
		}

		return true
	})

	return found
}

// localVariableOf narrows a property_declaration to the destructurable
// shape: a single-name binding with an initializer, declared in statement
// position. Kotlin permits destructuring declarations only locally, so
// class-level and top-level properties are excluded.
func localVariableOf(prop *syntax.Node) (LocalVariable, bool) {
	parent := prop.Parent
	if parent == nil {
		return LocalVariable{}, false
	}

	switch parent.Kind {
	case syntax.KindStatements, syntax.KindControlStructureBody:
	default:
		return LocalVariable{}, false
	}

	varDecl := prop.ChildOfKind(syntax.KindVariableDeclaration)
	if varDecl == nil || prop.HasChildOfKind(syntax.KindMultiVariableDecl) {
		return LocalVariable{}, false
	}

	if syntax.PropertyInitializer(prop) == nil {
		return LocalVariable{}, false
	}

	return LocalVariable{Property: prop, Var: varDecl}, true
}
