package native

import (
	"bytes"
	"encoding/json"

	"github.com/elliotchance/orderedmap/v3"
)

// Offset is a width/height pair used by shadow offsets.
type Offset struct {
	Width  any `json:"width"`
	Height any `json:"height"`
}

// Style is a React Native style object. Properties keep the order in which
// they were first set.
type Style struct {
	props *orderedmap.OrderedMap[string, any]
}

// NewStyle creates style from name/value pairs.
func NewStyle(props ...Property) *Style {
	s := &Style{props: orderedmap.NewOrderedMap[string, any]()}
	for _, p := range props {
		s.Set(p.Name, p.Value)
	}
	return s
}

// Property is a single native property.
type Property struct {
	Name  string
	Value any
}

// Set sets property value. Existing property keeps its position.
func (s *Style) Set(name string, value any) {
	s.props.Set(name, value)
}

// Get returns property value.
func (s *Style) Get(name string) (any, bool) {
	return s.props.Get(name)
}

// Len returns number of properties.
func (s *Style) Len() int {
	return s.props.Len()
}

// Properties returns properties in order.
func (s *Style) Properties() []Property {
	res := make([]Property, 0, s.props.Len())
	for el := s.props.Front(); el != nil; el = el.Next() {
		res = append(res, Property{Name: el.Key, Value: el.Value})
	}
	return res
}

// MarshalJSON writes properties as JSON object preserving order.
func (s *Style) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for el := s.props.Front(); el != nil; el = el.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := encodeJSON(&buf, el.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSON(&buf, el.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON writes v without HTML escaping.
func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends newline
	return nil
}
