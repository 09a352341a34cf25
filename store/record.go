package store

// Record is one vertex of the graph: a class name, a version counter and a
// schema-flexible field map. Field values survive a round-trip through the
// store codec, which may widen integer types; use the accessors below when
// reading fields back.
type Record struct {
	ID      string
	Class   string
	Version int
	Fields  map[string]any
}

// NewRecord creates an empty, unsaved record of a class.
func NewRecord(class string) *Record {
	return &Record{Class: class, Fields: make(map[string]any)}
}

// Set stores a field value. Setting nil removes the field.
func (r *Record) Set(field string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	if value == nil {
		delete(r.Fields, field)
		return
	}
	r.Fields[field] = value
}

// String reads a string field; "" if absent or of another type.
func (r *Record) String(field string) string {
	if v, ok := r.Fields[field].(string); ok {
		return v
	}
	return ""
}

// Int64 reads an integer field regardless of the concrete integer type the
// codec decoded it to; 0 if absent.
func (r *Record) Int64(field string) int64 {
	switch v := r.Fields[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Bool reads a boolean field; false if absent.
func (r *Record) Bool(field string) bool {
	if v, ok := r.Fields[field].(bool); ok {
		return v
	}
	return false
}
