package gdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotDocument is returned when decoded JSON does not look like a Docs
// document resource.
var ErrNotDocument = errors.New("not a document resource")

// Decode reads a documents.get response.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	if doc.DocumentID == "" && len(doc.Body.Content) == 0 {
		return nil, ErrNotDocument
	}
	return &doc, nil
}
