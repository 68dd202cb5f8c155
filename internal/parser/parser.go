package parser

import (
	"fmt"
	"strconv"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Parse parses an original source string and returns its variable
// declarators. The TSX grammar accepts plain JavaScript, JSX, TypeScript and
// typed JSX alike, so no module-type or dialect detection is needed.
func Parse(source string) (*File, error) {
	p := tree_sitter.NewParser()
	defer p.Close()

	language := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	if err := p.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to configure parser: %w", err)
	}

	src := []byte(source)
	tree := p.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in source")
	}

	file := &File{}
	collectDeclarators(root, src, file)
	return file, nil
}

// collectDeclarators walks the tree once, appending declarators in source
// order.
func collectDeclarators(n *tree_sitter.Node, src []byte, file *File) {
	if n.Kind() == "variable_declarator" {
		if d := convertDeclarator(n, src); d != nil {
			file.declarators = append(file.declarators, d)
		}
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		collectDeclarators(child, src, file)
	}
}

func convertDeclarator(n *tree_sitter.Node, src []byte) *VariableDeclarator {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil || value == nil {
		// Declarations without an initializer can never bind a hook result.
		return nil
	}
	return &VariableDeclarator{
		ID:   convertNode(name, src),
		Init: convertNode(unwrap(value), src),
		Line: int(n.StartPosition().Row) + 1,
	}
}

// convertNode maps a grammar node onto the reduced node model.
func convertNode(n *tree_sitter.Node, src []byte) Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier", "property_identifier", "shorthand_property_identifier_pattern":
		return &Identifier{Name: text(n, src)}

	case "member_expression":
		return &Member{
			Object:   convertNode(n.ChildByFieldName("object"), src),
			Property: convertNode(n.ChildByFieldName("property"), src),
		}

	case "subscript_expression":
		return &Member{
			Object:   convertNode(n.ChildByFieldName("object"), src),
			Property: convertNode(n.ChildByFieldName("index"), src),
			Computed: true,
		}

	case "call_expression":
		return &Call{Callee: convertNode(unwrap(n.ChildByFieldName("function")), src)}

	case "array_pattern":
		return convertArrayPattern(n, src)

	case "number":
		value, err := strconv.ParseFloat(text(n, src), 64)
		if err != nil {
			return &Unknown{Kind: n.Kind()}
		}
		return &NumberLit{Value: value}

	case "assignment_pattern":
		// [count = 0, setCount]: the binding name lives on the left.
		return convertNode(n.ChildByFieldName("left"), src)

	default:
		return &Unknown{Kind: n.Kind()}
	}
}

// convertArrayPattern keeps holes as nil elements so that element indices
// line up with the runtime's destructuring positions.
func convertArrayPattern(n *tree_sitter.Node, src []byte) *ArrayPattern {
	pattern := &ArrayPattern{}
	sawElement := false
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "[", "]", "comment":
			continue
		case ",":
			if !sawElement {
				pattern.Elements = append(pattern.Elements, nil)
			}
			sawElement = false
		default:
			pattern.Elements = append(pattern.Elements, convertNode(child, src))
			sawElement = true
		}
	}
	return pattern
}

// unwrap strips wrappers the TSX grammar inserts around expressions so that
// `useState(1) as State` and `(useState(1))` classify like the bare call.
func unwrap(n *tree_sitter.Node) *tree_sitter.Node {
	for n != nil {
		switch n.Kind() {
		case "parenthesized_expression":
			inner := n.NamedChild(0)
			if inner == nil {
				return n
			}
			n = inner
		case "as_expression", "satisfies_expression", "non_null_expression":
			inner := n.NamedChild(0)
			if inner == nil {
				return n
			}
			n = inner
		default:
			return n
		}
	}
	return n
}

func text(n *tree_sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}
