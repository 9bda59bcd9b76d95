package domain

import (
	"bytes"
	"encoding/json"
	"io"
)

// IDField is the key under which a stored document exposes its identifier.
const IDField = "_id"

// Document is an open JSON object. No schema is enforced on its fields.
type Document map[string]any

// Clone returns a shallow copy of d without the identifier field.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// DecodeDocument reads one JSON object from r. Numbers are kept as
// json.Number so integers beyond 2^53 survive. An empty body yields a nil
// Document.
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc Document
	err := dec.Decode(&doc)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UnmarshalDocument is DecodeDocument over a byte slice.
func UnmarshalDocument(b []byte) (Document, error) {
	return DecodeDocument(bytes.NewReader(b))
}

// NormalizeNumbers replaces every json.Number in v, including inside nested
// objects and arrays, with an int64 when integral and a float64 otherwise.
func NormalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case Document:
		return map[string]any(normalizeMap(t))
	case map[string]any:
		return normalizeMap(t)
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = NormalizeNumbers(x)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, x := range m {
		out[k] = NormalizeNumbers(x)
	}
	return out
}

// Item is a stored item document. item_title and item_type are documented
// fields but not required.
type Item struct {
	ID     ID
	Fields Document
}

func (i Item) MarshalJSON() ([]byte, error) {
	return marshalDocument(i.ID, i.Fields)
}

// Tag is a stored tag document. name is documented but not required.
type Tag struct {
	ID     ID
	Fields Document
}

func (t Tag) MarshalJSON() ([]byte, error) {
	return marshalDocument(t.ID, t.Fields)
}

func marshalDocument(id ID, fields Document) ([]byte, error) {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[IDField] = FormatID(id)
	return json.Marshal(out)
}

// Association is the per-item set of linked tag identifiers.
type Association struct {
	ItemID ID
	TagIDs []ID
}

// AssociationResult is returned after tags have been linked to an item.
type AssociationResult struct {
	Message string   `json:"message"`
	ItemID  string   `json:"item_id"`
	TagIDs  []string `json:"tag_ids"`
}
