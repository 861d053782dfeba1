package syntax

// Grammar node kinds used by the analysis. Names follow the tree-sitter
// Kotlin grammar productions verbatim.
const (
	KindSourceFile            = "source_file"
	KindClassDeclaration      = "class_declaration"
	KindPrimaryConstructor    = "primary_constructor"
	KindClassParameter        = "class_parameter"
	KindModifiers             = "modifiers"
	KindClassModifier         = "class_modifier"
	KindVisibilityModifier    = "visibility_modifier"
	KindPropertyDeclaration   = "property_declaration"
	KindParameter             = "parameter"
	KindVariableDeclaration   = "variable_declaration"
	KindMultiVariableDecl     = "multi_variable_declaration"
	KindForStatement          = "for_statement"
	KindLambdaLiteral         = "lambda_literal"
	KindLambdaParameters      = "lambda_parameters"
	KindNavigationExpression  = "navigation_expression"
	KindNavigationSuffix      = "navigation_suffix"
	KindSimpleIdentifier      = "simple_identifier"
	KindTypeIdentifier        = "type_identifier"
	KindUserType              = "user_type"
	KindCallExpression        = "call_expression"
	KindCallSuffix            = "call_suffix"
	KindInfixExpression       = "infix_expression"
	KindAssignment            = "assignment"
	KindDirectlyAssignable    = "directly_assignable_expression"
	KindPostfixExpression     = "postfix_expression"
	KindPrefixExpression      = "prefix_expression"
	KindStatements            = "statements"
	KindControlStructureBody  = "control_structure_body"
	KindFunctionDeclaration   = "function_declaration"
	KindTypeArguments         = "type_arguments"
	KindFunctionBody          = "function_body"
)

// PlaceholderName is Kotlin's no-op name for unused destructuring entries.
const PlaceholderName = "_"

// PropertyInitializer returns the initializer expression of a
// property_declaration (the named node following the "=" token), or nil
// when the property has no initializer.
func PropertyInitializer(prop *Node) *Node {
	seenAssign := false

	for _, child := range prop.Children {
		if !child.Named {
			if child.Kind == "=" {
				seenAssign = true
			}

			continue
		}

		if seenAssign {
			return child
		}
	}

	return nil
}

// PropertyKeyword returns "val" or "var" for a property_declaration, with
// "val" as the fallback when the keyword token is absent.
func PropertyKeyword(prop *Node) string {
	for _, child := range prop.Children {
		if child.Kind == "val" || child.Kind == "var" {
			return child.Kind
		}
	}

	// Some grammar revisions wrap the keyword in a binding_pattern_kind node.
	if binding := prop.ChildOfKind("binding_pattern_kind"); binding != nil {
		for _, child := range binding.Children {
			if child.Kind == "val" || child.Kind == "var" {
				return child.Kind
			}
		}
	}

	return "val"
}

// NavigationReceiver returns the receiver expression of a
// navigation_expression, i.e. its first named child.
func NavigationReceiver(nav *Node) *Node {
	for _, child := range nav.Children {
		if child.Named {
			return child
		}
	}

	return nil
}

// NavigationName returns the member name read by a navigation_expression's
// suffix, or "" when the suffix is not a plain identifier.
func NavigationName(tree *Tree, nav *Node) string {
	suffix := nav.ChildOfKind(KindNavigationSuffix)
	if suffix == nil {
		return ""
	}

	ident := suffix.ChildOfKind(KindSimpleIdentifier)
	if ident == nil {
		return ""
	}

	return tree.Text(ident)
}

// DeclaredName returns the bound name of a declaration node: a
// variable_declaration, function parameter, or class_parameter.
func DeclaredName(tree *Tree, varDecl *Node) string {
	ident := varDecl.ChildOfKind(KindSimpleIdentifier)
	if ident == nil {
		return ""
	}

	return tree.Text(ident)
}

// DeclaredType returns the user_type node annotating a
// variable_declaration, or nil when the declaration is untyped.
func DeclaredType(varDecl *Node) *Node {
	return varDecl.ChildOfKind(KindUserType)
}

// UserTypeName renders a user_type as a dotted name, ignoring type
// arguments: `Map.Entry<K, V>` yields "Map.Entry".
func UserTypeName(tree *Tree, userType *Node) string {
	name := ""

	for _, child := range userType.Children {
		if child.Kind != KindTypeIdentifier && child.Kind != "simple_user_type" {
			continue
		}

		part := child

		if child.Kind == "simple_user_type" {
			ident := child.ChildOfKind(KindTypeIdentifier)
			if ident == nil {
				continue
			}

			part = ident
		}

		if name != "" {
			name += "."
		}

		name += tree.Text(part)
	}

	return name
}

// IsDataClass reports whether a class_declaration carries the data modifier.
func IsDataClass(tree *Tree, classDecl *Node) bool {
	modifiers := classDecl.ChildOfKind(KindModifiers)
	if modifiers == nil {
		return false
	}

	for _, modifier := range modifiers.ChildrenOfKind(KindClassModifier) {
		if tree.Text(modifier) == "data" {
			return true
		}
	}

	return false
}

// CalleeName returns the called identifier of a call_expression such as
// `Point(1, 2)`, or "" for non-identifier callees.
func CalleeName(tree *Tree, call *Node) string {
	for _, child := range call.Children {
		if !child.Named || child.Kind == KindCallSuffix {
			continue
		}

		if child.Kind == KindSimpleIdentifier {
			return tree.Text(child)
		}

		return ""
	}

	return ""
}

// InfixOperator returns the infix function name of an infix_expression
// such as `a to b`, or "" when the shape does not match.
func InfixOperator(tree *Tree, infix *Node) string {
	named := infix.NamedChildren()

	const infixParts = 3
	if len(named) != infixParts {
		return ""
	}

	if named[1].Kind != KindSimpleIdentifier {
		return ""
	}

	return tree.Text(named[1])
}

// ForLoopParameter returns the loop binding of a for_statement: either a
// single variable_declaration or a multi_variable_declaration.
func ForLoopParameter(forStmt *Node) *Node {
	if single := forStmt.ChildOfKind(KindVariableDeclaration); single != nil {
		return single
	}

	return forStmt.ChildOfKind(KindMultiVariableDecl)
}

// ForLoopIterated returns the expression a for_statement ranges over: the
// first named child after the "in" token.
func ForLoopIterated(forStmt *Node) *Node {
	seenIn := false

	for _, child := range forStmt.Children {
		if !child.Named {
			if child.Kind == "in" {
				seenIn = true
			}

			continue
		}

		if seenIn && child.Kind != KindControlStructureBody {
			return child
		}
	}

	return nil
}

// ForLoopBody returns the body of a for_statement, or nil for a bodyless loop.
func ForLoopBody(forStmt *Node) *Node {
	return forStmt.ChildOfKind(KindControlStructureBody)
}

// LambdaParameterOf returns the single explicit parameter declaration of a
// lambda_literal, or nil when the lambda has zero or multiple parameters.
func LambdaParameterOf(lambda *Node) *Node {
	params := lambda.ChildOfKind(KindLambdaParameters)
	if params == nil {
		return nil
	}

	decls := params.ChildrenOfKind(KindVariableDeclaration)
	multi := params.ChildrenOfKind(KindMultiVariableDecl)

	if len(decls) == 1 && len(multi) == 0 {
		return decls[0]
	}

	return nil
}

// LambdaBody returns the statements node of a lambda_literal.
func LambdaBody(lambda *Node) *Node {
	return lambda.ChildOfKind(KindStatements)
}
