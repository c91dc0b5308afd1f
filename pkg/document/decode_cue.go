// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"

	"github.com/viewpack/viewpack/pkg/cueutil"
)

func decodeCUE(data []byte, filename string) (Value, error) {
	v, err := cueutil.Compile(data, cueutil.WithFilename(filename))
	if err != nil {
		return Value{}, err
	}
	return fromCUE(v, filename, 0)
}

// fromCUE walks an evaluated CUE value. Regular fields only: definitions,
// hidden and optional fields are not part of the document. A value that is
// not concrete (e.g. `name: string`) becomes null so the validator reports it
// as missing.
func fromCUE(v cue.Value, filename string, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, depthError(filename)
	}
	if d, ok := v.Default(); ok {
		v = d
	}

	switch v.Kind() {
	case cue.NullKind:
		return Null(), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		return Bool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		return Number(strconv.FormatInt(i, 10)), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		return String(s), nil
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		return String(string(b)), nil
	case cue.ListKind:
		it, err := v.List()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		out := List()
		for it.Next() {
			item, err := fromCUE(it.Value(), filename, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	case cue.StructKind:
		it, err := v.Fields()
		if err != nil {
			return Value{}, cueutil.FormatError(err, filename)
		}
		out := Object()
		for it.Next() {
			fv, err := fromCUE(it.Value(), filename, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Fields = append(out.Fields, Field{
				Key:   it.Selector().Unquoted(),
				Value: fv,
				Line:  it.Value().Pos().Line(),
			})
		}
		return out, nil
	case cue.BottomKind:
		if err := v.Err(); err != nil && !isIncomplete(v) {
			return Value{}, cueutil.FormatError(err, filename)
		}
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("%s: unsupported CUE value kind %s", filename, v.Kind())
	}
}

// isIncomplete reports whether v failed only because it is not concrete.
func isIncomplete(v cue.Value) bool {
	return v.Validate(cue.Concrete(false)) == nil
}
