// Package resolve implements the file-local Resolver: data classes declared
// in the analyzed source set, the built-in pair aggregates, and optional
// pair-like stubs loaded from a YAML file. It is deliberately conservative —
// any declaration whose type cannot be proven from the sources at hand
// resolves to no aggregate, which makes the downstream analysis a no-op
// rather than a wrong rewrite.
package resolve

import (
	"github.com/dekot-dev/dekot/pkg/symbol"
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// Built-in pair aggregate type names.
const (
	pairTypeName     = "Pair"
	mapEntryTypeName = "Map.Entry"

	// entriesAccessor is the map property whose iteration yields entries.
	entriesAccessor = "entries"
)

// builtinMapTypes are the receiver type spellings accepted as map-like, for
// which iterating the receiver means iterating its entry set.
var builtinMapTypes = []string{
	"Map", "MutableMap", "HashMap", "LinkedHashMap", "SortedMap", "TreeMap",
}

// mapConstructors are the stdlib factory callees whose result is map-like.
var mapConstructors = map[string]struct{}{
	"mapOf":        {},
	"mutableMapOf": {},
	"hashMapOf":    {},
	"linkedMapOf":  {},
	"sortedMapOf":  {},
}

// FileResolver resolves aggregates from the declarations visible in a set
// of parsed source files plus registered pair-like stubs.
type FileResolver struct {
	records  map[string]*symbol.Aggregate
	pairs    map[string]*symbol.Aggregate
	mapTypes map[string]struct{}
}

// NewFileResolver creates a resolver seeded with the built-in pair
// aggregates. Call AddSources to register data classes from parsed files.
func NewFileResolver() *FileResolver {
	r := &FileResolver{
		records:  make(map[string]*symbol.Aggregate),
		pairs:    make(map[string]*symbol.Aggregate),
		mapTypes: make(map[string]struct{}),
	}

	r.registerBuiltins()

	for _, name := range builtinMapTypes {
		r.mapTypes[name] = struct{}{}
	}

	return r
}

func (r *FileResolver) registerBuiltins() {
	r.pairs[pairTypeName] = &symbol.Aggregate{
		Name: pairTypeName,
		Kind: symbol.KindPair,
		Components: []symbol.Component{
			{Index: 0, Name: "first", Accessor: "first", Visible: true},
			{Index: 1, Name: "second", Accessor: "second", Visible: true},
		},
	}

	entry := &symbol.Aggregate{
		Name: mapEntryTypeName,
		Kind: symbol.KindPair,
		Components: []symbol.Component{
			{Index: 0, Name: "key", Accessor: "key", Visible: true},
			{Index: 1, Name: "value", Accessor: "value", Visible: true},
		},
	}

	// The entry aggregate is reachable under every spelling the type
	// annotation may use.
	r.pairs[mapEntryTypeName] = entry
	r.pairs["MutableMap.MutableEntry"] = entry
	r.pairs["Entry"] = entry
}

// AddMapType registers an additional receiver type name to treat as
// map-like when deciding whether an `.entries` suffix can be dropped.
func (r *FileResolver) AddMapType(typeName string) {
	r.mapTypes[typeName] = struct{}{}
}

// AddPairStub registers an additional pair-like aggregate by type name with
// the given key and value accessor names.
func (r *FileResolver) AddPairStub(typeName, keyAccessor, valueAccessor string) {
	r.pairs[typeName] = &symbol.Aggregate{
		Name: typeName,
		Kind: symbol.KindPair,
		Components: []symbol.Component{
			{Index: 0, Name: keyAccessor, Accessor: keyAccessor, Visible: true},
			{Index: 1, Name: valueAccessor, Accessor: valueAccessor, Visible: true},
		},
	}
}

// AddSources scans parsed trees for data class declarations and registers
// them as record aggregates. Later registrations win on name collision.
func (r *FileResolver) AddSources(trees ...*syntax.Tree) {
	for _, tree := range trees {
		for _, classDecl := range tree.Root.Find(syntax.KindClassDeclaration) {
			if !syntax.IsDataClass(tree, classDecl) {
				continue
			}

			agg, ok := dataClassAggregate(tree, classDecl)
			if ok {
				r.records[agg.Name] = agg
			}
		}
	}
}

// dataClassAggregate builds the record aggregate for one data class: one
// component per primary-constructor parameter, in declaration order.
func dataClassAggregate(tree *syntax.Tree, classDecl *syntax.Node) (*symbol.Aggregate, bool) {
	nameNode := classDecl.ChildOfKind(syntax.KindTypeIdentifier)
	ctor := classDecl.ChildOfKind(syntax.KindPrimaryConstructor)

	if nameNode == nil || ctor == nil {
		return nil, false
	}

	params := ctor.ChildrenOfKind(syntax.KindClassParameter)
	if len(params) == 0 {
		return nil, false
	}

	agg := &symbol.Aggregate{
		Name:       tree.Text(nameNode),
		Kind:       symbol.KindRecord,
		Components: make([]symbol.Component, 0, len(params)),
	}

	for idx, param := range params {
		ident := param.ChildOfKind(syntax.KindSimpleIdentifier)
		if ident == nil {
			return nil, false
		}

		name := tree.Text(ident)

		agg.Components = append(agg.Components, symbol.Component{
			Index:    idx,
			Name:     name,
			Accessor: name,
			Visible:  parameterVisible(tree, param),
		})
	}

	return agg, true
}

// parameterVisible reports whether a constructor property is readable from
// outside the declaring class.
func parameterVisible(tree *syntax.Tree, param *syntax.Node) bool {
	modifiers := param.ChildOfKind(syntax.KindModifiers)
	if modifiers == nil {
		return true
	}

	for _, modifier := range modifiers.ChildrenOfKind(syntax.KindVisibilityModifier) {
		switch tree.Text(modifier) {
		case "private", "protected":
			return false
		}
	}

	return true
}

// AggregateOf implements symbol.Resolver. The declared type is established
// from, in order: an explicit type annotation, the shape of the initializer
// (constructor call, Pair call, `x to y`), or map-entry loop iteration.
func (r *FileResolver) AggregateOf(tree *syntax.Tree, decl *syntax.Node) (*symbol.Aggregate, bool) {
	if decl == nil || decl.Kind != syntax.KindVariableDeclaration {
		return nil, false
	}

	if userType := syntax.DeclaredType(decl); userType != nil {
		return r.lookup(syntax.UserTypeName(tree, userType))
	}

	parent := decl.Parent
	if parent == nil {
		return nil, false
	}

	switch parent.Kind {
	case syntax.KindPropertyDeclaration:
		return r.aggregateOfInitializer(tree, syntax.PropertyInitializer(parent))

	case syntax.KindForStatement:
		// The `x.entries` shape alone types the loop parameter as an entry;
		// whether the suffix may be dropped is a separate, stricter question.
		if _, ok := entriesRead(tree, syntax.ForLoopIterated(parent)); ok {
			return r.pairs[mapEntryTypeName], true
		}

		return nil, false

	default:
		// Lambda parameters resolve only through an explicit annotation,
		// which was handled above.
		return nil, false
	}
}

// aggregateOfInitializer classifies an initializer expression.
func (r *FileResolver) aggregateOfInitializer(tree *syntax.Tree, init *syntax.Node) (*symbol.Aggregate, bool) {
	if init == nil {
		return nil, false
	}

	switch init.Kind {
	case syntax.KindCallExpression:
		return r.lookup(syntax.CalleeName(tree, init))

	case syntax.KindInfixExpression:
		if syntax.InfixOperator(tree, init) == "to" {
			return r.pairs[pairTypeName], true
		}

		return nil, false

	default:
		return nil, false
	}
}

// EntriesStrippable implements symbol.Resolver: a `<receiver>.entries` read
// may drop its suffix only when the receiver provably has a map-like type,
// since only then does iterating the receiver mean iterating its entry set.
// A receiver that cannot be proven map-like keeps the suffix in place.
func (r *FileResolver) EntriesStrippable(tree *syntax.Tree, iterated *syntax.Node) (*syntax.Node, bool) {
	receiver, ok := entriesRead(tree, iterated)
	if !ok || !r.mapLikeReceiver(tree, receiver) {
		return nil, false
	}

	return receiver, true
}

// entriesRead matches the `<receiver>.entries` shape.
func entriesRead(tree *syntax.Tree, iterated *syntax.Node) (*syntax.Node, bool) {
	if iterated == nil || iterated.Kind != syntax.KindNavigationExpression {
		return nil, false
	}

	if syntax.NavigationName(tree, iterated) != entriesAccessor {
		return nil, false
	}

	receiver := syntax.NavigationReceiver(iterated)
	if receiver == nil {
		return nil, false
	}

	return receiver, true
}

// mapLikeReceiver proves the receiver's map-like type from a declaration in
// scope: a function parameter or constructor property with a map type
// annotation, or a local with a map annotation or map-factory initializer.
func (r *FileResolver) mapLikeReceiver(tree *syntax.Tree, receiver *syntax.Node) bool {
	if receiver.Kind != syntax.KindSimpleIdentifier {
		return false
	}

	name := tree.Text(receiver)
	proven := false

	tree.Root.Walk(func(n *syntax.Node) bool {
		if proven {
			return false
		}

		switch n.Kind {
		case syntax.KindParameter:
			if syntax.DeclaredName(tree, n) == name && enclosedWith(n, syntax.KindFunctionDeclaration, receiver) {
				proven = r.mapType(tree, n.ChildOfKind(syntax.KindUserType))
			}

		case syntax.KindClassParameter:
			if syntax.DeclaredName(tree, n) == name && enclosedWith(n, syntax.KindClassDeclaration, receiver) {
				proven = r.mapType(tree, n.ChildOfKind(syntax.KindUserType))
			}

		case syntax.KindVariableDeclaration:
			proven = r.mapLikeLocal(tree, n, name, receiver)
		}

		return true
	})

	return proven
}

// mapLikeLocal checks one property binding against the receiver: same name,
// in a scope enclosing the use (and preceding it, for statement-level
// declarations), with a map annotation or a map-factory call initializer.
func (r *FileResolver) mapLikeLocal(tree *syntax.Tree, varDecl *syntax.Node, name string, receiver *syntax.Node) bool {
	prop := varDecl.Parent
	if prop == nil || prop.Kind != syntax.KindPropertyDeclaration {
		return false
	}

	if syntax.DeclaredName(tree, varDecl) != name {
		return false
	}

	scope := prop.Parent
	if scope == nil || !scope.Contains(receiver) {
		return false
	}

	statementLevel := scope.Kind == syntax.KindStatements || scope.Kind == syntax.KindControlStructureBody
	if statementLevel && prop.Span.End > receiver.Span.Start {
		return false
	}

	if userType := syntax.DeclaredType(varDecl); userType != nil {
		return r.mapType(tree, userType)
	}

	init := syntax.PropertyInitializer(prop)
	if init == nil || init.Kind != syntax.KindCallExpression {
		return false
	}

	_, factory := mapConstructors[syntax.CalleeName(tree, init)]

	return factory
}

// enclosedWith reports whether n's nearest ancestor of the given kind also
// encloses the use site.
func enclosedWith(n *syntax.Node, kind string, use *syntax.Node) bool {
	anc := n.Ancestor(kind)

	return anc != nil && anc.Contains(use)
}

func (r *FileResolver) mapType(tree *syntax.Tree, userType *syntax.Node) bool {
	if userType == nil {
		return false
	}

	_, ok := r.mapTypes[syntax.UserTypeName(tree, userType)]

	return ok
}

// lookup finds a registered aggregate by type name, records first.
func (r *FileResolver) lookup(typeName string) (*symbol.Aggregate, bool) {
	if typeName == "" {
		return nil, false
	}

	if agg, ok := r.records[typeName]; ok {
		return agg, true
	}

	if agg, ok := r.pairs[typeName]; ok {
		return agg, true
	}

	return nil, false
}
