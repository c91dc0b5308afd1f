// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"
	"log/slog"

	"github.com/viewpack/viewpack/pkg/cueutil"
)

// maxDepth bounds nesting so that hostile documents cannot exhaust the stack.
const maxDepth = 256

// Decode parses data in the given format. filename is used only in error
// messages. Documents larger than cueutil.DefaultMaxFileSize are rejected
// before parsing.
func Decode(data []byte, filename string, format Format) (Value, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return Value{}, err
	}

	slog.Debug("decoding configuration document", "file", filename, "format", format, "bytes", len(data))

	switch format {
	case FormatCUE:
		return decodeCUE(data, filename)
	case FormatJSON:
		return decodeJSON(data, filename)
	case FormatYAML:
		return decodeYAML(data, filename)
	default:
		return Value{}, &UnsupportedFormatError{Value: string(format)}
	}
}

func depthError(filename string) error {
	return fmt.Errorf("%s: document nesting exceeds %d levels", filename, maxDepth)
}
