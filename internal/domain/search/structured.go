package search

import (
	"encoding/json"
	"errors"

	"github.com/buger/jsonparser"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

// structuredNode backs Node with the raw bytes of one JSON value.
type structuredNode struct {
	data []byte
	typ  jsonparser.ValueType
}

func (n structuredNode) Exists() bool {
	return n.typ != jsonparser.NotExist && n.typ != jsonparser.Null
}

func (n structuredNode) Child(key string) Node {
	if n.typ != jsonparser.Object {
		return missingNode{}
	}
	value, typ, _, err := jsonparser.Get(n.data, key)
	if err != nil || typ == jsonparser.Null {
		return missingNode{}
	}
	return structuredNode{data: value, typ: typ}
}

// All returns the elements of the array stored under key. A scalar is
// treated as a one-element list.
func (n structuredNode) All(key string) []Node {
	child, ok := n.Child(key).(structuredNode)
	if !ok {
		return nil
	}
	if child.typ != jsonparser.Array {
		return []Node{child}
	}

	var nodes []Node
	_, _ = jsonparser.ArrayEach(child.data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil || typ == jsonparser.Null {
			return
		}
		nodes = append(nodes, structuredNode{data: value, typ: typ})
	})
	return nodes
}

func (n structuredNode) Text() string {
	return collapseSpace(n.RawText())
}

func (n structuredNode) RawText() string {
	switch n.typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(n.data)
		if err != nil {
			return string(n.data)
		}
		return s
	case jsonparser.Number, jsonparser.Boolean:
		return string(n.data)
	default:
		return ""
	}
}

func (n structuredNode) Attr(key string) string {
	return n.Child(key).Text()
}

func (n structuredNode) NextText() string { return "" }

func (n structuredNode) Fields() []string {
	if n.typ != jsonparser.Object {
		return nil
	}
	var keys []string
	_ = jsonparser.ObjectEach(n.data, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		return nil
	})
	return keys
}

// detectStructured locates the entries of a JSON payload's "results" array.
func detectStructured(raw []byte) (*ResultSet, error) {
	empty := &ResultSet{Shape: ShapeStructured}

	if !json.Valid(raw) {
		return nil, platformerrors.NewError(platformerrors.LayerDomain, platformerrors.ErrorTypeDecodeFailure,
			"aggregator returned malformed JSON", nil)
	}

	results, typ, _, err := jsonparser.Get(raw, "results")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || typ == jsonparser.Null {
		return empty, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(platformerrors.LayerDomain, platformerrors.ErrorTypeDecodeFailure,
			"aggregator JSON could not be read", err)
	}
	if typ != jsonparser.Array {
		return nil, platformerrors.NewErrorWithContext(platformerrors.LayerDomain, platformerrors.ErrorTypeDecodeFailure,
			"aggregator JSON results field is not a list", nil, map[string]any{"results_type": typ.String()})
	}

	var nodes []Node
	_, _ = jsonparser.ArrayEach(results, func(value []byte, t jsonparser.ValueType, _ int, err error) {
		if err != nil || t != jsonparser.Object {
			return
		}
		nodes = append(nodes, structuredNode{data: value, typ: t})
	})
	return &ResultSet{Shape: ShapeStructured, Nodes: nodes}, nil
}
