// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// The expansion budget grows with the input size. A document without aliases
// produces fewer nodes than it has bytes.
const (
	yamlNodesPerByte = 4
	yamlMinNodes     = 4096
)

// yamlDecoder converts a node graph into a Value. Aliases are expanded in
// place, so every converted node is charged against budget.
type yamlDecoder struct {
	filename string
	budget   int
	limit    int
}

// decodeYAML walks the yaml.v3 node tree rather than decoding into a map so
// that key order and repeated keys survive.
func decodeYAML(data []byte, filename string) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, fmt.Errorf("%s: %w", filename, err)
	}
	if root.Kind == 0 {
		// Empty or comment-only document.
		return Null(), nil
	}
	limit := yamlNodesPerByte*len(data) + yamlMinNodes
	d := &yamlDecoder{filename: filename, budget: limit, limit: limit}
	return d.fromYAML(&root, 0)
}

func (d *yamlDecoder) fromYAML(n *yaml.Node, depth int) (Value, error) {
	filename := d.filename
	if depth > maxDepth {
		return Value{}, depthError(filename)
	}
	if d.budget--; d.budget < 0 {
		return Value{}, fmt.Errorf("%s: YAML aliases expand to more than %d nodes", filename, d.limit)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.fromYAML(n.Content[0], depth+1)
	case yaml.AliasNode:
		return d.fromYAML(n.Alias, depth+1)
	case yaml.SequenceNode:
		out := List()
		for _, c := range n.Content {
			item, err := d.fromYAML(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	case yaml.MappingNode:
		out := Object()
		var merged []Field
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == "!!merge" {
				mv, err := d.fromYAML(v, depth+1)
				if err != nil {
					return Value{}, err
				}
				merged = append(merged, mergeFields(mv)...)
				continue
			}
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("%s:%d: mapping keys must be scalars", filename, k.Line)
			}
			fv, err := d.fromYAML(v, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Fields = append(out.Fields, Field{Key: k.Value, Value: fv, Line: k.Line})
		}
		// Merged keys never override explicit ones and are not duplicates.
		for _, f := range merged {
			if _, exists := out.Lookup(f.Key); !exists {
				out.Fields = append(out.Fields, f)
			}
		}
		return out, nil
	case yaml.ScalarNode:
		return fromScalar(n, filename)
	default:
		return Value{}, fmt.Errorf("%s:%d: unexpected YAML node", filename, n.Line)
	}
}

func fromScalar(n *yaml.Node, filename string) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("%s:%d: %w", filename, n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, fmt.Errorf("%s:%d: %w", filename, n.Line, err)
		}
		return Number(fmt.Sprint(i)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%s:%d: %w", filename, n.Line, err)
		}
		return Number(fmt.Sprint(f)), nil
	default:
		// Strings, timestamps and custom tags are kept as written.
		return String(n.Value), nil
	}
}

// mergeFields returns the fields a "<<" merge key contributes: a mapping's
// fields, or the fields of each mapping in a sequence.
func mergeFields(v Value) []Field {
	switch v.Kind {
	case KindObject:
		return v.Fields
	case KindList:
		var out []Field
		for _, item := range v.Items {
			out = append(out, mergeFields(item)...)
		}
		return out
	default:
		return nil
	}
}
