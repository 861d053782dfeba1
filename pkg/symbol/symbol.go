// Package symbol defines the minimal semantic model the destructuring
// analysis needs: aggregate types with ordered named components, and a
// Resolver capability that maps syntax to that model. The analysis itself
// never parses or resolves; whatever the Resolver cannot prove is treated
// as "not an aggregate".
package symbol

import "github.com/dekot-dev/dekot/pkg/syntax"

// Kind discriminates record-like from pair-like aggregates.
type Kind int

// Aggregate kinds.
const (
	// KindRecord is a type with a fixed, ordered set of named components,
	// such as a data class with a primary constructor.
	KindRecord Kind = iota

	// KindPair is a two-component key/value type, such as a map entry.
	KindPair
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindPair:
		return "pair"
	default:
		return "unknown"
	}
}

// Component is one positional element of an aggregate.
type Component struct {
	// Index is the component's position, 0-based, in declaration order.
	// Pair aggregates order the key component before the value component.
	Index int

	// Name is the component's declared name.
	Name string

	// Accessor is the property name that reads this component. For data
	// classes it equals Name; for pair types it is "first"/"second" or
	// "key"/"value".
	Accessor string

	// Visible reports whether the accessor is readable from outside the
	// declaring type. Reads through an invisible accessor cannot be
	// rewritten and disqualify the whole analysis.
	Visible bool
}

// Aggregate is a resolved record-like or pair-like type.
type Aggregate struct {
	// Name is the aggregate's type name, e.g. "Point" or "Map.Entry".
	Name string

	// Kind tells record-like from pair-like.
	Kind Kind

	// Components holds the positional components in declaration order.
	Components []Component
}

// Arity returns the number of components.
func (a *Aggregate) Arity() int {
	return len(a.Components)
}

// ComponentByAccessor returns the component read by the given accessor name.
func (a *Aggregate) ComponentByAccessor(accessor string) (Component, bool) {
	for _, comp := range a.Components {
		if comp.Accessor == accessor {
			return comp, true
		}
	}

	return Component{}, false
}

// Resolver supplies semantic answers about declarations. Implementations
// must be conservative: when in doubt, report no aggregate.
type Resolver interface {
	// AggregateOf resolves the aggregate type of a single-name declaration.
	// decl is a variable_declaration node (a local property's binding, a
	// loop parameter, or a lambda parameter). The second result is false
	// when the declared type is unknown or not an aggregate.
	AggregateOf(tree *syntax.Tree, decl *syntax.Node) (*Aggregate, bool)

	// EntriesStrippable reports whether iterated is a map-entry accessor
	// read (the `.entries` form) whose suffix may be dropped when the loop
	// parameter is destructured. Implementations must prove the receiver is
	// map-like; an entry-yielding property on a non-map receiver is not
	// strippable. The returned node is the receiver the iterated expression
	// collapses to.
	EntriesStrippable(tree *syntax.Tree, iterated *syntax.Node) (*syntax.Node, bool)
}
