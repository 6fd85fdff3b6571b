package native

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Declaration is a CSS property with its value.
type Declaration struct {
	Property string
	Value    string
}

// DeclarationError is returned when a shorthand value cannot be converted.
type DeclarationError struct {
	Property string
	Value    string
	Err      error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("failed to parse declaration %q", e.Property+": "+e.Value)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// Converter turns CSS declarations into React Native style objects.
type Converter struct {
	log       *zap.Logger
	blacklist map[string]struct{}
}

// Option configures Converter.
type Option func(*Converter)

// WithShorthandBlacklist disables shorthand expansion for the given native
// property names (e.g. "borderRadius"), their values are kept as is.
func WithShorthandBlacklist(names ...string) Option {
	return func(c *Converter) {
		for _, n := range names {
			c.blacklist[n] = struct{}{}
		}
	}
}

// NewConverter creates a converter.
func NewConverter(log *zap.Logger, opts ...Option) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Converter{
		log:       log.Named("native"),
		blacklist: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert folds declarations into a style object. Later declarations
// overwrite earlier ones keeping position of the first.
func (c *Converter) Convert(decls []Declaration) (*Style, error) {
	style := NewStyle()
	for _, d := range decls {
		props, err := c.Properties(d.Property, d.Value)
		if err != nil {
			return nil, err
		}
		for _, p := range props {
			style.Set(p.Name, p.Value)
		}
	}
	return style, nil
}

// Properties converts a single declaration.
func (c *Converter) Properties(property, value string) ([]Property, error) {
	name := PropertyName(property)
	value = strings.TrimSpace(value)

	if _, skip := c.blacklist[name]; skip {
		return []Property{{Name: name, Value: rawValue(value)}}, nil
	}

	t, ok := transforms[name]
	if !ok {
		return []Property{{Name: name, Value: rawValue(value)}}, nil
	}

	props, err := t(newTokenStream(tokenize(value)))
	if err != nil {
		c.log.Debug("Unable to expand shorthand", zap.String("property", property), zap.String("value", value), zap.Error(err))
		return nil, &DeclarationError{Property: property, Value: value, Err: err}
	}
	return props, nil
}

var (
	reNumberOrLength = regexp.MustCompile(`(?i)^(` + numberPattern + `)(?:px)?$`)
	reBool           = regexp.MustCompile(`(?i)^(?:true|false)$`)
	reNull           = regexp.MustCompile(`(?i)^null$`)
)

// rawValue converts value of a property which is not a shorthand.
func rawValue(value string) any {
	if m := reNumberOrLength.FindStringSubmatch(value); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	if reBool.MatchString(value) {
		return strings.EqualFold(value, "true")
	}
	if reNull.MatchString(value) {
		return nil
	}
	return value
}
