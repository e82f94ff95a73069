// Package parser converts behavior-tree XML documents into the domain tree
// model. Subtree references are recorded but never inlined here; the parser
// output is always the faithful literal structure of the document.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// mainTreeAttr names the entry tree in BehaviorTree.CPP documents.
const mainTreeAttr = "main_tree_to_execute"

// Parser turns document text into a domain.Tree.
type Parser struct {
	tree string // explicit tree selection, empty for automatic
}

// Option configures a Parser.
type Option func(*Parser)

// WithTree selects a named tree definition instead of the automatic
// MainTree/single-definition selection.
func WithTree(name string) Option {
	return func(p *Parser) {
		p.tree = name
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes a document into a Tree. The source label identifies the
// document in errors and reports; it is never opened or read.
func (p *Parser) Parse(data []byte, source string) (*domain.Tree, error) {
	docRoot, err := decode(data, source)
	if err != nil {
		return nil, err
	}

	tree := &domain.Tree{
		Definitions: map[string]*domain.Node{},
		SourcePath:  source,
	}

	// Collect named definitions. A document either wraps its trees in
	// <BehaviorTree ID="..."> elements (the multi-tree layout) or is a
	// single bare tree whose root is the document root itself.
	var order []string
	for _, child := range docRoot.Children {
		if child.Type != domain.DefinitionTag {
			continue
		}
		id := child.Attributes["ID"]
		if id == "" {
			id = domain.MainTreeID
		}
		if len(child.Children) != 1 {
			return nil, &domain.ParseError{
				Source: source,
				Reason: fmt.Sprintf("definition %q must contain exactly one root node, has %d", id, len(child.Children)),
			}
		}
		if _, dup := tree.Definitions[id]; dup {
			return nil, &domain.ParseError{
				Source: source,
				Reason: fmt.Sprintf("duplicate subtree definition %q", id),
			}
		}
		tree.Definitions[id] = child.Children[0]
		order = append(order, id)
	}

	if len(order) == 0 {
		// Bare tree document.
		if p.tree != "" {
			return nil, &domain.InputError{
				Source: source,
				Err:    fmt.Errorf("tree %q requested but document declares no named trees", p.tree),
			}
		}
		tree.Root = docRoot
		tree.Definitions = nil
		return tree, nil
	}

	name, err := p.selectTree(docRoot, order, source)
	if err != nil {
		return nil, err
	}
	tree.Root = tree.Definitions[name]
	return tree, nil
}

// selectTree picks the entry tree from the declared definitions.
func (p *Parser) selectTree(docRoot *domain.Node, order []string, source string) (string, error) {
	pick := p.tree
	if pick == "" {
		pick = docRoot.Attributes[mainTreeAttr]
	}
	if pick != "" {
		if !slices.Contains(order, pick) {
			return "", &domain.InputError{
				Source: source,
				Err:    fmt.Errorf("tree %q not found (document declares %s)", pick, strings.Join(order, ", ")),
			}
		}
		return pick, nil
	}
	if slices.Contains(order, domain.MainTreeID) {
		return domain.MainTreeID, nil
	}
	if len(order) == 1 {
		return order[0], nil
	}
	return "", &domain.InputError{
		Source: source,
		Err:    fmt.Errorf("document declares %d trees and none is %s; select one explicitly", len(order), domain.MainTreeID),
	}
}

// decode runs the XML token stream and builds the literal element tree.
func decode(data []byte, source string) (*domain.Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var roots []*domain.Node
	var stack []*domain.Node
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{Source: source, Reason: "malformed markup", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var attrs map[string]string
			if len(t.Attr) > 0 {
				attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					attrs[a.Name.Local] = a.Value
				}
			}
			n := &domain.Node{
				Type:       t.Name.Local,
				Kind:       domain.ClassifyTag(t.Name.Local),
				Attributes: attrs,
				SourcePath: source,
			}
			if n.Kind == domain.KindSubtree {
				n.SubtreeName = attrs["ID"]
				if n.SubtreeName == "" {
					return nil, &domain.ParseError{
						Source: source,
						Reason: "subtree reference without an ID attribute",
					}
				}
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			n := stack[len(stack)-1]
			buf := text[len(text)-1]
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

			// Text content is ignorable unless the element's sole
			// purpose is to carry it (a childless element).
			if body := strings.TrimSpace(buf.String()); body != "" && len(n.Children) == 0 {
				if n.Attributes == nil {
					n.Attributes = map[string]string{}
				}
				n.Attributes[domain.TextAttribute] = body
			}

			if len(stack) == 0 {
				n.IdentityKey = domain.DeriveIdentityKey(n.Type, n.Attributes, 0)
				roots = append(roots, n)
				continue
			}
			parent := stack[len(stack)-1]
			n.IdentityKey = domain.DeriveIdentityKey(n.Type, n.Attributes, len(parent.Children))
			parent.Children = append(parent.Children, n)

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	switch len(roots) {
	case 0:
		return nil, &domain.ParseError{Source: source, Reason: "document has no root element"}
	case 1:
		return roots[0], nil
	default:
		return nil, &domain.ParseError{
			Source: source,
			Reason: fmt.Sprintf("document has %d root elements, expected one", len(roots)),
		}
	}
}
