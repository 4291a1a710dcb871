package wire

// Field is a single key/value pair in a response frame.
type Field struct {
	Key   string
	Value string
}

// Frame is one complete response unit: the ordered key/value fields the
// server sent for a single command, plus an optional binary section.
// Keys may repeat; order is preserved.
type Frame struct {
	fields []Field
	binary []byte
}

// append records a field. Used by the codec while decoding.
func (f *Frame) append(key, value string) {
	f.fields = append(f.fields, Field{Key: key, Value: value})
}

// Find returns the value of the first field with the given key.
func (f *Frame) Find(key string) (string, bool) {
	for _, fd := range f.fields {
		if fd.Key == key {
			return fd.Value, true
		}
	}
	return "", false
}

// Values returns the values of every field with the given key, in order.
func (f *Frame) Values(key string) []string {
	var vals []string
	for _, fd := range f.fields {
		if fd.Key == key {
			vals = append(vals, fd.Value)
		}
	}
	return vals
}

// Fields returns the fields in receipt order. The slice is shared with the
// frame and must not be modified.
func (f *Frame) Fields() []Field {
	return f.fields
}

// Len returns the number of fields.
func (f *Frame) Len() int {
	return len(f.fields)
}

// Binary returns the binary section, or nil if the frame has none.
func (f *Frame) Binary() []byte {
	return f.binary
}

// IsEmpty reports whether the frame carries no fields and no binary section.
func (f *Frame) IsEmpty() bool {
	return len(f.fields) == 0 && f.binary == nil
}
