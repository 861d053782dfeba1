package destructure

import (
	"strconv"

	"github.com/dekot-dev/dekot/pkg/syntax"
)

// assignNames chooses the destructured name for every retained slot:
// a subsumed nested-destructuring entry's name wins, then a subsumed whole
// declaration's name, then the placeholder for unused interior slots, then
// a fresh name synthesized from the accessor and de-collided against every
// name visible in the enclosing scope and every name already taken.
func (a *Analysis) assignNames() {
	taken := a.scopeNames()

	for _, slot := range a.Slots {
		switch {
		case slot.SubsumedEntry != nil:
			slot.Name = syntax.DeclaredName(a.Tree, slot.SubsumedEntry)

		case slot.SubsumedDecl != nil:
			if varDecl := slot.SubsumedDecl.ChildOfKind(syntax.KindVariableDeclaration); varDecl != nil {
				slot.Name = syntax.DeclaredName(a.Tree, varDecl)
			}

		case !slot.used():
			slot.Name = syntax.PlaceholderName

		default:
			slot.Name = freshName(slot.Component.Accessor, taken)
		}

		if slot.Name != "" && slot.Name != syntax.PlaceholderName {
			taken[slot.Name] = struct{}{}
		}
	}
}

// scopeNames collects every declared name visible around the declaration:
// all bindings and parameters inside the enclosing function (or the whole
// file for top-level code). A superset is fine — the cost of avoiding a
// non-colliding name is a numeric suffix, the cost of missing a collision
// is broken code.
func (a *Analysis) scopeNames() map[string]struct{} {
	root := a.Decl.Binding().Ancestor(syntax.KindFunctionDeclaration)
	if root == nil {
		root = a.Tree.Root
	}

	names := make(map[string]struct{})

	root.Walk(func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindVariableDeclaration, syntax.KindClassParameter:
			if name := syntax.DeclaredName(a.Tree, n); name != "" {
				names[name] = struct{}{}
			}
		}

		return true
	})

	return names
}

// freshName derives a scope-unique name from an accessor name by appending
// the smallest numeric suffix that avoids the taken set.
func freshName(base string, taken map[string]struct{}) string {
	if base == "" {
		base = "component"
	}

	if _, exists := taken[base]; !exists {
		return base
	}

	for suffix := 2; ; suffix++ {
		candidate := base + strconv.Itoa(suffix)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}
