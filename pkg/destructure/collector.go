package destructure

import (
	"github.com/dekot-dev/dekot/pkg/symbol"
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// Slot is the per-component accumulation unit: the usage sites that read a
// component, at most one subsumed binding, and the name chosen for it.
type Slot struct {
	// Component is the aggregate component this slot stands for.
	Component symbol.Component

	// Usages are the accessor-read sites, each a navigation_expression to
	// be replaced by the slot's name, in the order they were encountered.
	Usages []*syntax.Node

	// SubsumedEntry is the variable_declaration of a nested destructuring
	// entry whose name this slot reuses, or nil.
	SubsumedEntry *syntax.Node

	// SubsumedDecl is a whole property_declaration of the form
	// `val x = d.acc` this slot absorbs, or nil.
	SubsumedDecl *syntax.Node

	// Name is the name assigned to the slot during analysis.
	Name string
}

// used reports whether the slot contributes anything to the rewrite.
func (s *Slot) used() bool {
	return len(s.Usages) > 0 || s.SubsumedEntry != nil || s.SubsumedDecl != nil
}

// Analysis is the complete result of one collection run. It is built once,
// consumed immediately for the applicability decision or the rewrite, and
// not retained.
type Analysis struct {
	// Tree is the parsed source the analysis ran over.
	Tree *syntax.Tree

	// Decl is the declaration under analysis.
	Decl Declaration

	// Aggregate is the declaration's resolved type.
	Aggregate *symbol.Aggregate

	// Slots holds the retained component slots: the aggregate's slots in
	// declaration order with the unused tail trimmed off. Interior unused
	// slots are preserved.
	Slots []*Slot

	// removals are the property_declarations deleted by the rewrite:
	// subsumed nested destructurings and subsumed single declarations.
	removals []*syntax.Node

	// entriesStrip, when non-nil, is the `.entries` navigation suffix to
	// drop from the loop's iterated expression, as [start, end) offsets.
	entriesStrip *syntax.Span
}

// collector walks one declaration's usage scope and accumulates per-slot
// usages. Any disqualifying usage aborts the collection.
type collector struct {
	tree     *syntax.Tree
	decl     Declaration
	agg      *symbol.Aggregate
	name     string
	slots    []*Slot
	removals []*syntax.Node
	failed   bool
}

// collect runs the usage collection for decl. The boolean result is false
// when the declaration cannot be destructured: unresolvable aggregate,
// anonymous binding, or any disqualifying usage in scope.
func collect(tree *syntax.Tree, resolver symbol.Resolver, decl Declaration) (*Analysis, bool) {
	binding := decl.Binding()
	if binding == nil {
		return nil, false
	}

	name := syntax.DeclaredName(tree, binding)
	if name == "" || name == syntax.PlaceholderName {
		return nil, false
	}

	agg, ok := resolver.AggregateOf(tree, binding)
	if !ok || agg.Arity() == 0 {
		return nil, false
	}

	scopeRoot, afterOffset := decl.scope()
	if scopeRoot == nil {
		return nil, false
	}

	c := &collector{
		tree:  tree,
		decl:  decl,
		agg:   agg,
		name:  name,
		slots: make([]*Slot, 0, agg.Arity()),
	}

	for _, comp := range agg.Components {
		c.slots = append(c.slots, &Slot{Component: comp})
	}

	c.inspectScope(scopeRoot, afterOffset)

	if c.failed {
		return nil, false
	}

	analysis := &Analysis{
		Tree:      tree,
		Decl:      decl,
		Aggregate: agg,
		Slots:     trimTrailing(c.slots),
		removals:  c.removals,
	}

	analysis.entriesStrip = entriesStripSpan(tree, resolver, decl, agg)

	return analysis, true
}

// inspectScope visits every node in the usage scope once, stopping early on
// the first disqualifying usage. References inside subtrees that are
// already accounted for (subsumed declarations) were classified through
// their enclosing declaration and are not revisited.
func (c *collector) inspectScope(scopeRoot *syntax.Node, afterOffset uint) {
	scopeRoot.Walk(func(n *syntax.Node) bool {
		if c.failed {
			return false
		}

		if n.Span.End <= afterOffset {
			// Entirely before the declaration; cannot reference it.
			return false
		}

		if n.Kind != syntax.KindSimpleIdentifier || c.tree.Text(n) != c.name {
			return true
		}

		return c.classify(n)
	})
}

// classify handles one occurrence of the declared name. It returns false to
// stop descending (the occurrence was consumed by its enclosing construct).
func (c *collector) classify(ident *syntax.Node) bool {
	parent := ident.Parent
	if parent == nil {
		c.fail()

		return false
	}

	switch parent.Kind {
	case syntax.KindNavigationSuffix:
		// `x.d` reads a member that happens to share the name; not a
		// reference to the binding.
		return true

	case syntax.KindVariableDeclaration, syntax.KindClassParameter:
		// A redeclaration shadows the binding somewhere in scope. The
		// conservative answer is to walk away from the whole rewrite.
		c.fail()

		return false

	case syntax.KindNavigationExpression:
		if syntax.NavigationReceiver(parent) == ident {
			c.classifyAccessorRead(parent)

			return false
		}

		c.fail()

		return false

	case syntax.KindPropertyDeclaration:
		if c.classifyNestedDestructuring(parent, ident) {
			return false
		}

		c.fail()

		return false

	default:
		// Bare reference: passed along, returned, compared — the binding
		// must stay, so no destructuring.
		c.fail()

		return false
	}
}

// classifyAccessorRead handles `d.acc`: a read through a known, visible
// component accessor lands in that component's slot; everything else
// disqualifies.
func (c *collector) classifyAccessorRead(nav *syntax.Node) {
	accessor := syntax.NavigationName(c.tree, nav)
	if accessor == "" {
		c.fail()

		return
	}

	comp, ok := c.agg.ComponentByAccessor(accessor)
	if !ok || !comp.Visible {
		c.fail()

		return
	}

	if isMutationTarget(nav) {
		c.fail()

		return
	}

	slot := c.slots[comp.Index]

	// `val x = d.acc` subsumes the whole declaration: its name is reused
	// and the declaration is deleted.
	if prop, isWhole := wholeDeclarationOf(nav); isWhole {
		if slot.SubsumedDecl != nil || slot.SubsumedEntry != nil {
			c.fail()

			return
		}

		slot.SubsumedDecl = prop
		c.removals = append(c.removals, prop)

		return
	}

	slot.Usages = append(slot.Usages, nav)
}

// classifyNestedDestructuring handles `val (a, b) = d`: each positional
// entry subsumes the matching slot. Excess entries beyond the aggregate's
// arity are ignored; a second subsume on any slot fails the analysis.
func (c *collector) classifyNestedDestructuring(prop, ident *syntax.Node) bool {
	if syntax.PropertyInitializer(prop) != ident {
		return false
	}

	multi := prop.ChildOfKind(syntax.KindMultiVariableDecl)
	if multi == nil {
		return false
	}

	entries := multi.ChildrenOfKind(syntax.KindVariableDeclaration)

	for idx, entry := range entries {
		if idx >= len(c.slots) {
			break
		}

		if syntax.DeclaredName(c.tree, entry) == syntax.PlaceholderName {
			continue
		}

		slot := c.slots[idx]
		if slot.SubsumedEntry != nil || slot.SubsumedDecl != nil {
			c.fail()

			return true
		}

		slot.SubsumedEntry = entry
	}

	if !c.failed {
		c.removals = append(c.removals, prop)
	}

	return true
}

func (c *collector) fail() {
	c.failed = true
}

// wholeDeclarationOf reports whether nav is exactly the initializer of a
// single-name val declaration, returning that declaration. A var is never
// subsumed: its name may be reassigned later, which a destructuring entry
// cannot be, so the read stays an ordinary usage instead.
func wholeDeclarationOf(nav *syntax.Node) (*syntax.Node, bool) {
	prop := nav.Parent
	if prop == nil || prop.Kind != syntax.KindPropertyDeclaration {
		return nil, false
	}

	if syntax.PropertyKeyword(prop) != "val" {
		return nil, false
	}

	if syntax.PropertyInitializer(prop) != nav {
		return nil, false
	}

	if prop.ChildOfKind(syntax.KindVariableDeclaration) == nil {
		return nil, false
	}

	return prop, true
}

// isMutationTarget reports whether nav is written to: the left-hand side of
// an assignment or the operand of ++/--.
func isMutationTarget(nav *syntax.Node) bool {
	parent := nav.Parent
	if parent == nil {
		return false
	}

	switch parent.Kind {
	case syntax.KindDirectlyAssignable:
		return true

	case syntax.KindPostfixExpression:
		return isIncrementToken(nav.NextSibling())

	case syntax.KindPrefixExpression:
		return isIncrementToken(nav.PrevSibling())

	default:
		return false
	}
}

func isIncrementToken(n *syntax.Node) bool {
	return n != nil && (n.Kind == "++" || n.Kind == "--")
}

// trimTrailing drops unused slots from the end only. Interior unused slots
// stay and later receive the placeholder name, so the produced pattern has
// no dangling unused tail.
func trimTrailing(slots []*Slot) []*Slot {
	end := len(slots)

	for end > 0 && !slots[end-1].used() {
		end--
	}

	return slots[:end]
}

// entriesStripSpan computes the suffix to drop from a pair-like map
// iteration: only loop parameters, only pair aggregates, and only when the
// iterated expression is exactly the entry-set accessor read.
func entriesStripSpan(
	tree *syntax.Tree, resolver symbol.Resolver,
	decl Declaration, agg *symbol.Aggregate,
) *syntax.Span {
	loop, ok := decl.(LoopParameter)
	if !ok || agg.Kind != symbol.KindPair {
		return nil
	}

	iterated := syntax.ForLoopIterated(loop.Loop)

	receiver, ok := resolver.EntriesStrippable(tree, iterated)
	if !ok {
		return nil
	}

	return &syntax.Span{Start: receiver.Span.End, End: iterated.Span.End}
}
