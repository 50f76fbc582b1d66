package record

// Metadata keys stamped by the store.
const (
	KeyID           = "id"
	KeyCreatedDate  = "created_date"
	KeyModifiedDate = "modified_date"
)

// Document is a schemaless record payload. Every persisted document carries
// an id and a created_date; everything else is collection-specific.
type Document map[string]any

// String returns the value for key as a string, or "" when the key is
// missing or holds a non-string value.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Clone returns a shallow copy. Nested values are shared; merge semantics
// are key-level, so a shallow copy is all callers need.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns a copy of d with every key from partial written over it.
// Keys absent from partial are preserved.
func (d Document) Merge(partial Document) Document {
	out := d.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}
