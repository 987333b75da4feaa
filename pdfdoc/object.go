package pdfdoc

// Object is any value of the PDF object model. The concrete types are:
//
//	nil            null
//	bool           boolean
//	int64          integer
//	float64        real
//	string         string (already unescaped)
//	Name           name (/Type)
//	Array          array
//	Dict           dictionary
//	*Stream        stream
//	Ref            indirect reference
type Object any

// Name is a PDF name object, stored without the leading slash.
type Name string

// Ref is an indirect object reference ("12 0 R").
type Ref struct {
	Num int
	Gen int
}

// Array is a PDF array.
type Array []Object

// Dict is a PDF dictionary keyed by name.
type Dict map[Name]Object

// Get returns the raw value for key, or nil if absent. Indirect references
// are returned as-is; use Document.resolve to follow them.
func (d Dict) Get(key Name) Object {
	if d == nil {
		return nil
	}
	return d[key]
}

// GetInt returns an integer value for key. Reals with integral values are
// accepted, since real-world PDFs mix the two freely.
func (d Dict) GetInt(key Name) (int64, bool) {
	switch v := d.Get(key).(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// GetName returns a name value for key.
func (d Dict) GetName(key Name) (Name, bool) {
	v, ok := d.Get(key).(Name)
	return v, ok
}

// GetArray returns an array value for key.
func (d Dict) GetArray(key Name) (Array, bool) {
	v, ok := d.Get(key).(Array)
	return v, ok
}

// GetDict returns a dictionary value for key.
func (d Dict) GetDict(key Name) (Dict, bool) {
	v, ok := d.Get(key).(Dict)
	return v, ok
}

// Stream is a PDF stream: a dictionary plus raw (still encoded) data.
type Stream struct {
	Dict Dict
	Raw  []byte
}

// toFloat converts a numeric PDF object to float64.
func toFloat(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
