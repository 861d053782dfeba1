package syntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/kotlin"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parser operations.
var (
	errNoRootNode  = errors.New("syntax: no root node")
	errPoolType    = errors.New("syntax: pool returned unexpected type")
	errEmptySource = errors.New("syntax: empty source")
)

// language is the shared Kotlin tree-sitter language. Initialization is
// deferred to first use; the grammar pointer is immutable afterwards.
var (
	language     *sitter.Language //nolint:gochecknoglobals // shared immutable grammar
	languageOnce sync.Once        //nolint:gochecknoglobals // guards language init
)

func kotlinLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(kotlin.GetLanguage())
	})

	return language
}

// Parser parses Kotlin source files. It is safe for concurrent use; the
// underlying tree-sitter parsers are pooled per goroutine.
type Parser struct {
	pool sync.Pool
}

// NewParser creates a Parser for Kotlin source.
func NewParser() *Parser {
	lang := kotlinLanguage()

	return &Parser{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// Parse parses content into a Tree. The path is recorded on the tree for
// reporting only; no file I/O happens here.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s", errEmptySource, path)
	}

	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("syntax: parse %s: %w", path, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %s", errNoRootNode, path)
	}

	tree := &Tree{
		Path:   path,
		Source: content,
	}
	tree.Root = convert(root, nil, 0)

	return tree, nil
}

// convert copies a tree-sitter node (and its subtree) into the detached
// Node representation. The tree-sitter tree is closed after conversion, so
// no sitter handles may escape.
func convert(tsNode sitter.Node, parent *Node, index int) *Node {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	converted := &Node{
		Kind:   tsNode.Type(),
		Named:  tsNode.IsNamed(),
		Parent: parent,
		index:  index,
		Span: Span{
			Start:    tsNode.StartByte(),
			End:      tsNode.EndByte(),
			StartPos: Position{Line: start.Row + 1, Col: start.Column + 1},
			EndPos:   Position{Line: end.Row + 1, Col: end.Column + 1},
		},
	}

	childCount := tsNode.ChildCount()
	if childCount == 0 {
		return converted
	}

	converted.Children = make([]*Node, 0, childCount)

	for idx := range childCount {
		child := tsNode.Child(idx)
		if child.IsNull() {
			continue
		}

		converted.Children = append(converted.Children, convert(child, converted, len(converted.Children)))
	}

	return converted
}
