// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package setuppy extracts the literal keyword arguments of a
// setup()/main() call from Python source. It deliberately evaluates
// nothing: only string literals and literal list/tuple/set/dict values
// are collected, and anything else is dropped and flagged.
package setuppy

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// setupFunctionNames are the call targets whose keyword arguments carry
// package metadata. Some packages route setup() through a main().
var setupFunctionNames = map[string]bool{
	"setup": true,
	"main":  true,
}

// Args holds the extracted keyword arguments of the first setup-style
// call found in a file. Values are string, []string or
// map[string]any (nested string / []string).
type Args struct {
	Values map[string]any
	// Dropped reports that at least one non-literal element (a call
	// or other expression) was skipped, so Values may be incomplete.
	Dropped bool
}

// Get returns the string value of a keyword argument, or "".
func (a *Args) Get(name string) string {
	if s, ok := a.Values[name].(string); ok {
		return s
	}
	return ""
}

// GetList returns the list value of a keyword argument, accepting a
// bare string as a one-element list.
func (a *Args) GetList(name string) []string {
	switch v := a.Values[name].(type) {
	case []string:
		return v
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

// GetMap returns the mapping value of a keyword argument, or nil.
func (a *Args) GetMap(name string) map[string]any {
	if m, ok := a.Values[name].(map[string]any); ok {
		return m
	}
	return nil
}

// Attr implements the named-property metadata shape over the argument
// mapping.
func (a *Args) Attr(name string) (any, bool) {
	v, ok := a.Values[name]
	return v, ok
}

// ExtractArgs parses source as Python and collects the literal keyword
// arguments of every setup()/main() call, later calls filling in only
// arguments earlier calls did not set.
func ExtractArgs(source []byte) *Args {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_python.Language()))

	tree := parser.Parse(source, nil)
	defer tree.Close()

	ex := &extractor{source: source, args: &Args{Values: map[string]any{}}}
	ex.walk(tree.RootNode())
	return ex.args
}

type extractor struct {
	source []byte
	args   *Args
}

func (ex *extractor) walk(node *tree_sitter.Node) {
	if node == nil {
		return
	}
	if node.GrammarName() == "call" {
		ex.handleCall(node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		ex.walk(node.Child(i))
	}
}

func (ex *extractor) handleCall(node *tree_sitter.Node) {
	var fn, argList *tree_sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.GrammarName() {
		case "identifier", "attribute":
			if fn == nil {
				fn = child
			}
		case "argument_list":
			argList = child
		}
	}
	if fn == nil || argList == nil || !ex.isSetupCall(fn) {
		return
	}
	for i := uint(0); i < argList.ChildCount(); i++ {
		kw := argList.Child(i)
		if kw.GrammarName() != "keyword_argument" {
			continue
		}
		var keyNode, valueNode *tree_sitter.Node
		for j := uint(0); j < kw.ChildCount(); j++ {
			child := kw.Child(j)
			if child.GrammarName() == "identifier" && keyNode == nil {
				keyNode = child
			} else if child.GrammarName() != "=" && keyNode != nil && valueNode == nil {
				valueNode = child
			}
		}
		if keyNode == nil || valueNode == nil {
			continue
		}
		key := ex.text(keyNode)
		if _, exists := ex.args.Values[key]; exists {
			continue
		}
		if v, ok := ex.literalValue(valueNode); ok {
			ex.args.Values[key] = v
		} else {
			ex.args.Dropped = true
		}
	}
}

// isSetupCall matches a direct call to a setup function name or an
// attribute call ending in one, e.g. setuptools.setup(...).
func (ex *extractor) isSetupCall(fn *tree_sitter.Node) bool {
	if fn.GrammarName() == "identifier" {
		return setupFunctionNames[ex.text(fn)]
	}
	for i := uint(0); i < fn.ChildCount(); i++ {
		child := fn.Child(i)
		if child.GrammarName() == "identifier" && setupFunctionNames[ex.text(child)] {
			return true
		}
	}
	return false
}

// literalValue converts a literal node into a Go value. Non-literal
// nodes report false; non-literal elements inside a collection are
// skipped and flagged on the extractor.
func (ex *extractor) literalValue(node *tree_sitter.Node) (any, bool) {
	switch node.GrammarName() {
	case "string":
		return ex.stringValue(node), true
	case "list", "tuple", "set":
		var items []string
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			switch child.GrammarName() {
			case "[", "]", "(", ")", "{", "}", ",", "comment":
			case "string":
				items = append(items, ex.stringValue(child))
			default:
				ex.args.Dropped = true
			}
		}
		return items, true
	case "dictionary":
		m := map[string]any{}
		for i := uint(0); i < node.ChildCount(); i++ {
			pair := node.Child(i)
			if pair.GrammarName() != "pair" {
				continue
			}
			var keyNode, valueNode *tree_sitter.Node
			for j := uint(0); j < pair.ChildCount(); j++ {
				child := pair.Child(j)
				if child.GrammarName() == ":" {
					continue
				}
				if keyNode == nil {
					keyNode = child
				} else if valueNode == nil {
					valueNode = child
				}
			}
			if keyNode == nil || valueNode == nil || keyNode.GrammarName() != "string" {
				ex.args.Dropped = true
				continue
			}
			if v, ok := ex.literalValue(valueNode); ok {
				m[ex.stringValue(keyNode)] = v
			} else {
				ex.args.Dropped = true
			}
		}
		return m, true
	}
	return nil, false
}

// stringValue strips the quoting from a Python string literal node,
// including triple quotes and r/b/f prefixes.
func (ex *extractor) stringValue(node *tree_sitter.Node) string {
	text := ex.text(node)
	text = strings.TrimLeft(text, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return text[len(q) : len(text)-len(q)]
		}
	}
	return text
}

func (ex *extractor) text(node *tree_sitter.Node) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(ex.source)) {
		end = uint(len(ex.source))
	}
	return string(ex.source[start:end])
}
