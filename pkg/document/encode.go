// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	cueformat "cuelang.org/go/cue/format"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// Encode renders v in the given format, keeping object key order. The root
// must be an object. header, when non-empty, is written as a leading comment
// in formats that support comments (CUE and YAML).
func Encode(v Value, format Format, header string) ([]byte, error) {
	if v.Kind != KindObject {
		return nil, fmt.Errorf("encode %s: root must be an object, got %s", format, v.Kind)
	}

	switch format {
	case FormatCUE:
		return encodeCUE(v, header)
	case FormatJSON:
		return encodeJSON(v)
	case FormatYAML:
		return encodeYAML(v, header)
	default:
		return nil, &UnsupportedFormatError{Value: string(format)}
	}
}

func encodeCUE(v Value, header string) ([]byte, error) {
	st, ok := toAST(v).(*ast.StructLit)
	if !ok {
		return nil, fmt.Errorf("encode cue: root is not a struct")
	}
	out, err := cueformat.Node(&ast.File{Decls: st.Elts})
	if err != nil {
		return nil, fmt.Errorf("encode cue: %w", err)
	}
	return withHeader(out, header, "//"), nil
}

// encodeJSON builds the value through CUE, whose JSON output keeps field order.
func encodeJSON(v Value) ([]byte, error) {
	cv := cuecontext.New().BuildExpr(toAST(v))
	if cv.Err() != nil {
		return nil, fmt.Errorf("encode json: %w", cv.Err())
	}
	compact, err := cv.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeYAML(v Value, header string) ([]byte, error) {
	out, err := yaml.Marshal(toYAML(v))
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return withHeader(out, header, "#"), nil
}

func toAST(v Value) ast.Expr {
	switch v.Kind {
	case KindBool:
		return ast.NewBool(v.Bool)
	case KindNumber:
		kind := token.INT
		if strings.ContainsAny(v.Text, ".eE") {
			kind = token.FLOAT
		}
		if digits, neg := strings.CutPrefix(v.Text, "-"); neg {
			return &ast.UnaryExpr{Op: token.SUB, X: &ast.BasicLit{Kind: kind, Value: digits}}
		}
		return &ast.BasicLit{Kind: kind, Value: v.Text}
	case KindString:
		return ast.NewString(v.Text)
	case KindList:
		list := &ast.ListLit{}
		for _, item := range v.Items {
			list.Elts = append(list.Elts, toAST(item))
		}
		return list
	case KindObject:
		st := &ast.StructLit{}
		for _, f := range v.Fields {
			st.Elts = append(st.Elts, &ast.Field{Label: label(f.Key), Value: toAST(f.Value)})
		}
		return st
	default:
		return ast.NewNull()
	}
}

// label quotes keys that are not plain regular-field identifiers. Keys
// starting with '_' or '#' would otherwise become hidden fields or definitions.
func label(key string) ast.Label {
	if ast.IsValidIdent(key) && !strings.HasPrefix(key, "_") && !strings.HasPrefix(key, "#") {
		return ast.NewIdent(key)
	}
	return ast.NewStringLabel(key)
}

func toYAML(v Value) *yaml.Node {
	switch v.Kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v.Bool)}
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(v.Text, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Text}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text}
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			n.Content = append(n.Content, toYAML(item))
		}
		return n
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
				toYAML(f.Value))
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func withHeader(body []byte, header, marker string) []byte {
	if header == "" {
		return body
	}
	var buf bytes.Buffer
	for line := range strings.SplitSeq(strings.TrimRight(header, "\n"), "\n") {
		buf.WriteString(marker)
		if line != "" {
			buf.WriteByte(' ')
			buf.WriteString(line)
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}
