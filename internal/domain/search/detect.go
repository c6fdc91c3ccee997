package search

import (
	"bytes"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Detect classifies a raw aggregator response by sniffing its first
// non-space byte and locates its result nodes.
func Detect(raw []byte) (*ResultSet, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return DetectAs(raw, ShapeStructured)
	}
	return DetectAs(raw, ShapeDocument)
}

// DetectAs parses raw as the declared shape.
//
// Markup never fails: a missing result container is reported as an empty
// set. A structured body that is not valid JSON, an empty one included, is a
// decode failure.
func DetectAs(raw []byte, shape Shape) (*ResultSet, error) {
	if shape != ShapeStructured {
		return detectDocument(raw), nil
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(trimmed) == 0 {
		return nil, platformerrors.NewError(platformerrors.LayerDomain, platformerrors.ErrorTypeDecodeFailure,
			"aggregator returned an empty body", nil)
	}
	return detectStructured(trimmed)
}
