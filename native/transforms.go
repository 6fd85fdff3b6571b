package native

import (
	"slices"
	"strings"
)

// transform expands shorthand value into native properties.
type transform func(ts *tokenStream) ([]Property, error)

var transforms = map[string]transform{
	"background":         backgroundTransform,
	"border":             borderTransform,
	"borderColor":        directionTransform(directionOptions{prefix: "border", suffix: "Color", matchers: []matcher{matchColor}}),
	"borderRadius":       directionTransform(directionOptions{prefix: "border", suffix: "Radius", directions: cornerDirections}),
	"borderWidth":        directionTransform(directionOptions{prefix: "border", suffix: "Width"}),
	"boxShadow":          boxShadowTransform,
	"flex":               flexTransform,
	"flexFlow":           flexFlowTransform,
	"fontFamily":         fontFamilyTransform,
	"fontVariant":        fontVariantTransform,
	"fontWeight":         fontWeightTransform,
	"margin":             directionTransform(directionOptions{prefix: "margin", matchers: []matcher{matchLength, matchUnsupportedUnit, matchPercent, matchAuto}}),
	"padding":            directionTransform(directionOptions{prefix: "padding"}),
	"placeContent":       placeContentTransform,
	"shadowOffset":       offsetTransform("shadowOffset"),
	"textDecoration":     textDecorationTransform,
	"textDecorationLine": textDecorationLineTransform,
	"textShadow":         textShadowTransform,
	"textShadowOffset":   offsetTransform("textShadowOffset"),
}

var (
	sideDirections   = [4]string{"Top", "Right", "Bottom", "Left"}
	cornerDirections = [4]string{"TopLeft", "TopRight", "BottomRight", "BottomLeft"}
)

type directionOptions struct {
	prefix     string
	suffix     string
	directions [4]string
	matchers   []matcher
}

// directionTransform distributes 1 to 4 values over sides: top, right
// (defaults to top), bottom (defaults to top), left (defaults to right).
func directionTransform(opts directionOptions) transform {
	if opts.directions == [4]string{} {
		opts.directions = sideDirections
	}
	if len(opts.matchers) == 0 {
		opts.matchers = []matcher{matchLength, matchUnsupportedUnit, matchPercent}
	}
	return func(ts *tokenStream) ([]Property, error) {
		first, err := ts.expect(opts.matchers...)
		if err != nil {
			return nil, err
		}
		values := []any{first}
		for len(values) < 4 && ts.hasTokens() {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
			v, err := ts.expect(opts.matchers...)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if err := ts.expectEmpty(); err != nil {
			return nil, err
		}

		top := values[0]
		right, bottom := top, top
		if len(values) > 1 {
			right = values[1]
		}
		if len(values) > 2 {
			bottom = values[2]
		}
		left := right
		if len(values) > 3 {
			left = values[3]
		}

		res := make([]Property, 0, 4)
		for i, v := range []any{top, right, bottom, left} {
			res = append(res, Property{Name: opts.prefix + opts.directions[i] + opts.suffix, Value: v})
		}
		return res, nil
	}
}

func backgroundTransform(ts *tokenStream) ([]Property, error) {
	color, err := ts.expect(matchColor)
	if err != nil {
		return nil, err
	}
	return []Property{{Name: "backgroundColor", Value: color}}, nil
}

func borderTransform(ts *tokenStream) ([]Property, error) {
	if ts.matches(matchNone) {
		if err := ts.expectEmpty(); err != nil {
			return nil, err
		}
		return borderProperties(float64(0), "black", "solid"), nil
	}

	var width, color, style any
	for parts := 0; parts < 3 && ts.hasTokens(); parts++ {
		if parts != 0 {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
		}
		if v, ok := ts.match(matchLength, matchUnsupportedUnit); ok && width == nil {
			width = v
			continue
		} else if ok {
			return nil, errUnexpectedToken
		}
		if v, ok := ts.match(matchColor); ok && color == nil {
			color = v
			continue
		} else if ok {
			return nil, errUnexpectedToken
		}
		if v, ok := ts.match(matchBorderStyle); ok && style == nil {
			style = v
			continue
		}
		return nil, errUnexpectedToken
	}
	if err := ts.expectEmpty(); err != nil {
		return nil, err
	}

	if width == nil {
		width = float64(1)
	}
	if color == nil {
		color = "black"
	}
	if style == nil {
		style = "solid"
	}
	return borderProperties(width, color, style), nil
}

func borderProperties(width, color, style any) []Property {
	return []Property{
		{Name: "borderWidth", Value: width},
		{Name: "borderColor", Value: color},
		{Name: "borderStyle", Value: style},
	}
}

func flexTransform(ts *tokenStream) ([]Property, error) {
	if ts.matches(matchNone) {
		if err := ts.expectEmpty(); err != nil {
			return nil, err
		}
		return flexProperties(float64(0), float64(0), "auto"), nil
	}

	ts.save()
	if ts.matches(matchAuto) && !ts.hasTokens() {
		return flexProperties(float64(1), float64(1), "auto"), nil
	}
	ts.rewind()

	var (
		grow, shrink, basis any
		basisAuto           bool
	)
	for parts := 0; parts < 2 && ts.hasTokens(); parts++ {
		if parts != 0 {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
		}
		if grow == nil {
			if v, ok := ts.match(matchNumber); ok {
				grow = v
				ts.save()
				if ts.matches(matchSpace) {
					if v, ok := ts.match(matchNumber); ok {
						shrink = v
						continue
					}
				}
				ts.rewind()
				continue
			}
		}
		if basis == nil && !basisAuto {
			if v, ok := ts.match(matchLength, matchUnsupportedUnit, matchPercent); ok {
				basis = v
				continue
			}
			if ts.matches(matchAuto) {
				basisAuto = true
				continue
			}
		}
		return nil, errUnexpectedToken
	}
	if err := ts.expectEmpty(); err != nil {
		return nil, err
	}

	if grow == nil {
		grow = float64(1)
	}
	if shrink == nil {
		shrink = float64(1)
	}
	if basisAuto {
		return []Property{{Name: "flexGrow", Value: grow}, {Name: "flexShrink", Value: shrink}}, nil
	}
	if basis == nil {
		basis = float64(0)
	}
	return flexProperties(grow, shrink, basis), nil
}

func flexProperties(grow, shrink, basis any) []Property {
	return []Property{
		{Name: "flexGrow", Value: grow},
		{Name: "flexShrink", Value: shrink},
		{Name: "flexBasis", Value: basis},
	}
}

func flexFlowTransform(ts *tokenStream) ([]Property, error) {
	var direction, wrap any
	for parts := 0; parts < 2 && ts.hasTokens(); parts++ {
		if parts != 0 {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
		}
		if wrap == nil {
			if v, ok := ts.match(matchFlexWrap); ok {
				wrap = v
				continue
			}
		}
		if direction == nil {
			if v, ok := ts.match(matchFlexDirection); ok {
				direction = v
				continue
			}
		}
		return nil, errUnexpectedToken
	}
	if err := ts.expectEmpty(); err != nil {
		return nil, err
	}

	if wrap == nil {
		wrap = "nowrap"
	}
	if direction == nil {
		direction = "row"
	}
	return []Property{{Name: "flexDirection", Value: direction}, {Name: "flexWrap", Value: wrap}}, nil
}

func placeContentTransform(ts *tokenStream) ([]Property, error) {
	align, err := ts.expect(matchAlignContent)
	if err != nil {
		return nil, err
	}
	var justify any = "stretch"
	if ts.hasTokens() {
		if _, err := ts.expect(matchSpace); err != nil {
			return nil, err
		}
		if justify, err = ts.expect(matchJustifyContent); err != nil {
			return nil, err
		}
	}
	if err := ts.expectEmpty(); err != nil {
		return nil, err
	}
	return []Property{{Name: "alignContent", Value: align}, {Name: "justifyContent", Value: justify}}, nil
}

// fontFamilyTransform accepts a single quoted family or space separated
// identifiers. Fallback lists are not supported.
func fontFamilyTransform(ts *tokenStream) ([]Property, error) {
	var family string
	if v, ok := ts.match(matchString); ok {
		family = v.(string)
	} else {
		v, err := ts.expect(matchIdent)
		if err != nil {
			return nil, err
		}
		parts := []string{v.(string)}
		for ts.hasTokens() {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
			v, err := ts.expect(matchIdent)
			if err != nil {
				return nil, err
			}
			parts = append(parts, v.(string))
		}
		family = strings.Join(parts, " ")
	}
	if err := ts.expectEmpty(); err != nil {
		return nil, err
	}
	return []Property{{Name: "fontFamily", Value: family}}, nil
}

func fontVariantTransform(ts *tokenStream) ([]Property, error) {
	v, err := ts.expect(matchFontVariantValue)
	if err != nil {
		return nil, err
	}
	values := []string{v.(string)}
	for ts.hasTokens() {
		if _, err := ts.expect(matchSpace); err != nil {
			return nil, err
		}
		v, err := ts.expect(matchFontVariantValue)
		if err != nil {
			return nil, err
		}
		values = append(values, v.(string))
	}
	return []Property{{Name: "fontVariant", Value: values}}, nil
}

// fontWeightTransform keeps weight as string, numeric weights included.
func fontWeightTransform(ts *tokenStream) ([]Property, error) {
	v, err := ts.expect(matchWord)
	if err != nil {
		return nil, err
	}
	return []Property{{Name: "fontWeight", Value: v}}, nil
}

func textDecorationTransform(ts *tokenStream) ([]Property, error) {
	var line, style, color any
	for first := true; ts.hasTokens(); first = false {
		if !first {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
		}
		if line == nil {
			if v, ok := ts.match(matchLine); ok {
				lines := []string{strings.ToLower(v.(string))}
				ts.save()
				if lines[0] != "none" && ts.matches(matchSpace) {
					if v, ok := ts.match(matchLine); ok {
						lines = append(lines, strings.ToLower(v.(string)))
						sortReverse(lines)
						line = strings.Join(lines, " ")
						continue
					}
				}
				ts.rewind()
				line = lines[0]
				continue
			}
		}
		if style == nil {
			if v, ok := ts.match(matchDecorationStyle); ok {
				style = v
				continue
			}
		}
		if color == nil {
			if v, ok := ts.match(matchColor); ok {
				color = v
				continue
			}
		}
		return nil, errUnexpectedToken
	}

	if line == nil {
		line = "none"
	}
	if color == nil {
		color = "black"
	}
	if style == nil {
		style = "solid"
	}
	return []Property{
		{Name: "textDecorationLine", Value: line},
		{Name: "textDecorationColor", Value: color},
		{Name: "textDecorationStyle", Value: style},
	}, nil
}

func textDecorationLineTransform(ts *tokenStream) ([]Property, error) {
	var lines []string
	for first := true; ts.hasTokens(); first = false {
		if !first {
			if _, err := ts.expect(matchSpace); err != nil {
				return nil, err
			}
		}
		v, err := ts.expect(matchLine)
		if err != nil {
			return nil, err
		}
		lines = append(lines, strings.ToLower(v.(string)))
	}
	sortReverse(lines)
	return []Property{{Name: "textDecorationLine", Value: strings.Join(lines, " ")}}, nil
}

func sortReverse(s []string) {
	slices.Sort(s)
	slices.Reverse(s)
}

func offsetTransform(name string) transform {
	return func(ts *tokenStream) ([]Property, error) {
		width, err := ts.expect(matchLength)
		if err != nil {
			return nil, err
		}
		height := width
		if ts.matches(matchSpace) {
			if height, err = ts.expect(matchLength); err != nil {
				return nil, err
			}
		}
		if err := ts.expectEmpty(); err != nil {
			return nil, err
		}
		return []Property{{Name: name, Value: Offset{Width: width, Height: height}}}, nil
	}
}

type shadow struct {
	offset Offset
	radius any
	color  any
}

func parseShadow(ts *tokenStream) (shadow, error) {
	if ts.matches(matchNone) {
		if err := ts.expectEmpty(); err != nil {
			return shadow{}, err
		}
		return shadow{offset: Offset{Width: float64(0), Height: float64(0)}, radius: float64(0), color: "black"}, nil
	}

	var offsetX, offsetY, radius, color any
	for first := true; ts.hasTokens(); first = false {
		if !first {
			if _, err := ts.expect(matchSpace); err != nil {
				return shadow{}, err
			}
		}
		if offsetX == nil {
			if v, ok := ts.match(matchLength, matchUnsupportedUnit); ok {
				offsetX = v
				if _, err := ts.expect(matchSpace); err != nil {
					return shadow{}, err
				}
				y, err := ts.expect(matchLength, matchUnsupportedUnit)
				if err != nil {
					return shadow{}, err
				}
				offsetY = y
				ts.save()
				if ts.matches(matchSpace) {
					if v, ok := ts.match(matchLength, matchUnsupportedUnit); ok {
						radius = v
						continue
					}
				}
				ts.rewind()
				continue
			}
		}
		if color == nil {
			if v, ok := ts.match(matchColor); ok {
				color = v
				continue
			}
		}
		return shadow{}, errUnexpectedToken
	}
	if offsetX == nil {
		return shadow{}, errUnexpectedToken
	}

	if radius == nil {
		radius = float64(0)
	}
	if color == nil {
		color = "black"
	}
	return shadow{offset: Offset{Width: offsetX, Height: offsetY}, radius: radius, color: color}, nil
}

func boxShadowTransform(ts *tokenStream) ([]Property, error) {
	s, err := parseShadow(ts)
	if err != nil {
		return nil, err
	}
	return []Property{
		{Name: "shadowOffset", Value: s.offset},
		{Name: "shadowRadius", Value: s.radius},
		{Name: "shadowColor", Value: s.color},
		{Name: "shadowOpacity", Value: float64(1)},
	}, nil
}

func textShadowTransform(ts *tokenStream) ([]Property, error) {
	s, err := parseShadow(ts)
	if err != nil {
		return nil, err
	}
	return []Property{
		{Name: "textShadowOffset", Value: s.offset},
		{Name: "textShadowRadius", Value: s.radius},
		{Name: "textShadowColor", Value: s.color},
	}, nil
}
