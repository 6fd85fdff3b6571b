// Package native converts CSS declarations to React Native style objects.
//
// A style object is an ordered set of camel-cased property names with native
// values. Conversion follows the rules React Native styling expects:
//
// # Property names
//
//   - background-color → backgroundColor
//   - -webkit-box-flex → WebkitBoxFlex
//   - -ms-flex-align → msFlexAlign
//   - --custom stays as is
//
// # Plain values
//
//   - "16px", "0", "0.5" → numbers (16, 0, 0.5)
//   - "true", "false" → booleans, "null" → nil
//   - everything else ("50%", "none", "#fff", "0.025em") → trimmed string
//
// # Shorthands
//
// Values of the following properties are tokenized and expanded:
//
//   - margin, padding, borderWidth, borderColor, borderRadius: 1 to 4
//     values distributed over sides (corners) following CSS rules
//   - border: width, color and style with defaults 1, black, solid
//   - flex: flexGrow, flexShrink, flexBasis (none, auto, 1 to 3 values)
//   - flexFlow: flexDirection and flexWrap
//   - placeContent: alignContent and justifyContent
//   - background: backgroundColor
//   - fontFamily (single family), fontWeight (always string), fontVariant (list)
//   - textDecoration, textDecorationLine
//   - shadowOffset, textShadowOffset, textShadow, boxShadow
//
// A shorthand which cannot be parsed results in *DeclarationError. Later
// declarations overwrite earlier ones keeping original position.
//
// # Usage
//
//	conv := native.NewConverter(logger)
//	style, err := conv.Convert([]native.Declaration{
//	    {Property: "padding", Value: "16px"},
//	    {Property: "opacity", Value: "0.5"},
//	})
package native
