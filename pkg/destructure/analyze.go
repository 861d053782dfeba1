package destructure

import (
	"github.com/dekot-dev/dekot/pkg/symbol"
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// Analyze runs the full analysis for one declaration: usage collection,
// trailing-slot trimming, and name assignment. The boolean result is false
// when the declaration cannot be destructured at all; an analysis that is
// returned may still be non-applicable (all retained slots empty).
//
// The analysis is deterministic and derives everything fresh from the tree
// and resolver on every invocation; nothing is cached across calls.
func Analyze(tree *syntax.Tree, resolver symbol.Resolver, decl Declaration) (*Analysis, bool) {
	analysis, ok := collect(tree, resolver, decl)
	if !ok {
		return nil, false
	}

	analysis.assignNames()

	return analysis, true
}

// FindCandidates analyzes every structurally eligible declaration in the
// tree and returns the applicable ones in source order.
func FindCandidates(tree *syntax.Tree, resolver symbol.Resolver) []*Analysis {
	var candidates []*Analysis

	for _, decl := range FindDeclarations(tree) {
		analysis, ok := Analyze(tree, resolver, decl)
		if !ok || !analysis.Applicable() {
			continue
		}

		candidates = append(candidates, analysis)
	}

	return candidates
}

// CandidateAt returns the applicable analysis whose declaration covers the
// given 1-based line, or the first applicable one when line is zero. A line
// anywhere on a local's statement or on a loop or lambda header selects
// that candidate; lines inside a usage scope do not.
func CandidateAt(tree *syntax.Tree, resolver symbol.Resolver, line uint) (*Analysis, bool) {
	candidates := FindCandidates(tree, resolver)

	if line == 0 {
		if len(candidates) == 0 {
			return nil, false
		}

		return candidates[0], true
	}

	target := tree.NodeAtLine(line)

	for _, analysis := range candidates {
		if analysis.Decl.Binding().Span.StartPos.Line == line || declarationCovers(analysis.Decl, target) {
			return analysis, true
		}
	}

	return nil, false
}

// declarationCovers reports whether target falls on the declaration itself
// rather than inside its usage scope.
func declarationCovers(decl Declaration, target *syntax.Node) bool {
	if target == nil {
		return false
	}

	switch d := decl.(type) {
	case LoopParameter:
		body := syntax.ForLoopBody(d.Loop)

		return d.Loop.Contains(target) && (body == nil || !body.Contains(target))

	case LambdaParameter:
		body := syntax.LambdaBody(d.Lambda)

		return d.Lambda.Contains(target) && (body == nil || !body.Contains(target))

	case LocalVariable:
		return d.Property.Contains(target)

	default:
		return false
	}
}
