package styles

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elliotchance/orderedmap/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"twrn/css"
	"twrn/native"
)

// Mapping is read-only ordered mapping from class name to style object.
type Mapping struct {
	styles *orderedmap.OrderedMap[string, *native.Style]
}

// Get returns style for class name.
func (m *Mapping) Get(class string) (*native.Style, bool) {
	return m.styles.Get(class)
}

// Len returns number of classes.
func (m *Mapping) Len() int {
	return m.styles.Len()
}

// Classes returns class names in output order.
func (m *Mapping) Classes() []string {
	res := make([]string, 0, m.styles.Len())
	for el := m.styles.Front(); el != nil; el = el.Next() {
		res = append(res, el.Key)
	}
	return res
}

// MarshalJSON writes mapping as JSON object keeping class order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for el := m.styles.Front(); el != nil; el = el.Next() {
		if el != m.styles.Front() {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(el.Key)
		if err != nil {
			return nil, err
		}
		val, err := el.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("unable to marshal style for %q: %w", el.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// manualEntries are text decoration classes which do not convert correctly
// from generated CSS.
func manualEntries() []struct {
	class string
	style *native.Style
} {
	return []struct {
		class string
		style *native.Style
	}{
		{"underline", native.NewStyle(native.Property{Name: "textDecorationLine", Value: "underline"})},
		{"line-through", native.NewStyle(native.Property{Name: "textDecorationLine", Value: "line-through"})},
		{"no-underline", native.NewStyle(native.Property{Name: "textDecorationLine", Value: "none"})},
	}
}

// Mapper builds mappings from parsed rules.
type Mapper struct {
	log     *zap.Logger
	conv    *native.Converter
	remBase float64
}

// NewMapper creates mapper. Zero or negative remBase means DefaultRemBase.
func NewMapper(log *zap.Logger, conv *native.Converter, remBase float64) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	if conv == nil {
		conv = native.NewConverter(log)
	}
	if remBase <= 0 {
		remBase = DefaultRemBase
	}
	return &Mapper{log: log.Named("mapper"), conv: conv, remBase: remBase}
}

// Map folds rules into a new mapping. Every class selector of a rule is
// checked against the allow-list, unsupported classes and selectors which
// are not classes are skipped. Class seen again
// keeps its position and gets the latest style. Conversion errors of all
// classes are reported together.
func (mp *Mapper) Map(rules []css.Rule) (*Mapping, error) {
	result := orderedmap.NewOrderedMap[string, *native.Style]()

	var (
		errs    error
		skipped int
	)
	for _, r := range rules {
		for _, sel := range r.Selectors {
			if !sel.IsClass() {
				skipped++
				continue
			}
			class := UtilityName(sel.Raw)
			if !Supported(class) {
				skipped++
				continue
			}
			style, err := mp.conv.Convert(Normalize(r.Declarations, mp.remBase))
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("class %q: %w", class, err))
				continue
			}
			result.Set(class, style)
		}
	}
	if errs != nil {
		return nil, errs
	}

	for _, e := range manualEntries() {
		result.Set(e.class, e.style)
	}

	mp.log.Debug("Mapped classes", zap.Int("classes", result.Len()), zap.Int("skipped", skipped))
	return &Mapping{styles: result}, nil
}
