// SPDX-License-Identifier: MPL-2.0

package document

import (
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/viewpack/viewpack/pkg/cueutil"
)

// decodeJSON extracts JSON into a CUE syntax tree instead of evaluating it.
// The tree keeps every field as written, so repeated keys survive.
func decodeJSON(data []byte, filename string) (Value, error) {
	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return Value{}, cueutil.FormatError(err, filename)
	}
	return fromAST(expr, filename, 0)
}

func fromAST(expr ast.Expr, filename string, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, depthError(filename)
	}

	switch x := expr.(type) {
	case *ast.StructLit:
		out := Object()
		for _, decl := range x.Elts {
			f, ok := decl.(*ast.Field)
			if !ok {
				continue
			}
			key, _, err := ast.LabelName(f.Label)
			if err != nil {
				return Value{}, fmt.Errorf("%s:%d: %w", filename, f.Pos().Line(), err)
			}
			fv, err := fromAST(f.Value, filename, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Fields = append(out.Fields, Field{Key: key, Value: fv, Line: f.Label.Pos().Line()})
		}
		return out, nil
	case *ast.ListLit:
		out := List()
		for _, elt := range x.Elts {
			item, err := fromAST(elt, filename, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	case *ast.BasicLit:
		return fromBasicLit(x, filename)
	case *ast.UnaryExpr:
		lit, ok := x.X.(*ast.BasicLit)
		if x.Op != token.SUB || !ok || (lit.Kind != token.INT && lit.Kind != token.FLOAT) {
			break
		}
		return Number("-" + lit.Value), nil
	case *ast.Ident:
		switch x.Name {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null":
			return Null(), nil
		}
	}
	return Value{}, fmt.Errorf("%s:%d: unexpected JSON syntax %T", filename, expr.Pos().Line(), expr)
}

func fromBasicLit(lit *ast.BasicLit, filename string) (Value, error) {
	switch lit.Kind {
	case token.NULL:
		return Null(), nil
	case token.TRUE:
		return Bool(true), nil
	case token.FALSE:
		return Bool(false), nil
	case token.INT, token.FLOAT:
		return Number(lit.Value), nil
	case token.STRING:
		s, err := literal.Unquote(lit.Value)
		if err != nil {
			// CUE string syntax differs from JSON for a few escapes; the
			// literal passed JSON validation, so decode it as JSON.
			if jerr := json.Unmarshal([]byte(lit.Value), &s); jerr != nil {
				return Value{}, fmt.Errorf("%s:%d: %w", filename, lit.Pos().Line(), err)
			}
		}
		return String(s), nil
	default:
		return Value{}, fmt.Errorf("%s:%d: unexpected JSON literal %s", filename, lit.Pos().Line(), lit.Value)
	}
}
