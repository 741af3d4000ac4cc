package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joseph-ayodele/upd-parser/internal/entity"
)

// MarshalDocument renders the document's key/value tree as JSON. Non-ASCII
// text is written as-is and decimals keep their exact digits.
func MarshalDocument(doc *entity.Document, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc.ToMap()); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes MarshalDocument's output to w.
func WriteJSON(w io.Writer, doc *entity.Document, compact bool) error {
	b, err := MarshalDocument(doc, compact)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
