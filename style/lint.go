package style

import (
	"fmt"
	"strings"
)

// Lint rule names reported in diagnostics.
const (
	RuleLogicalProperties = "logical-properties"
	RuleContentQuotes     = "content-quotes"
)

// physicalProps maps physical-direction properties to their logical
// replacements.
var physicalProps = map[string]string{
	"marginLeft":              "marginInlineStart",
	"marginRight":             "marginInlineEnd",
	"paddingLeft":             "paddingInlineStart",
	"paddingRight":            "paddingInlineEnd",
	"left":                    "insetInlineStart",
	"right":                   "insetInlineEnd",
	"borderLeft":              "borderInlineStart",
	"borderRight":             "borderInlineEnd",
	"borderLeftWidth":         "borderInlineStartWidth",
	"borderRightWidth":        "borderInlineEndWidth",
	"borderLeftColor":         "borderInlineStartColor",
	"borderRightColor":        "borderInlineEndColor",
	"borderTopLeftRadius":     "borderStartStartRadius",
	"borderTopRightRadius":    "borderStartEndRadius",
	"borderBottomLeftRadius":  "borderEndStartRadius",
	"borderBottomRightRadius": "borderEndEndRadius",
}

// physicalValueProps take directional keyword values that have logical
// equivalents.
var physicalValueProps = map[string]bool{
	"textAlign": true,
	"float":     true,
	"clear":     true,
}

// contentKeywords are bare content values that need no quoting.
var contentKeywords = map[string]bool{
	"normal":      true,
	"none":        true,
	"initial":     true,
	"inherit":     true,
	"unset":       true,
	"open-quote":  true,
	"close-quote": true,
}

// lintDeclaration checks one declaration against the advisory rules and
// appends any findings. Values are already formatted.
func lintDeclaration(prop, value string, diags *[]Diagnostic) {
	if logical, ok := physicalProps[prop]; ok {
		*diags = append(*diags, Diagnostic{
			Rule:     RuleLogicalProperties,
			Property: prop,
			Message:  fmt.Sprintf("non-logical property %q used; consider %q for RTL support", prop, logical),
		})
	}
	if physicalValueProps[prop] && (value == "left" || value == "right") {
		*diags = append(*diags, Diagnostic{
			Rule:     RuleLogicalProperties,
			Property: prop,
			Message:  fmt.Sprintf("non-logical value %q for property %q; consider a logical equivalent", value, prop),
		})
	}
	if prop == "content" && !validContentValue(value) {
		*diags = append(*diags, Diagnostic{
			Rule:     RuleContentQuotes,
			Property: prop,
			Message:  fmt.Sprintf("content value %q should be quoted, e.g. '\"%s\"'", value, value),
		})
	}
}

func validContentValue(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	if contentKeywords[v] {
		return true
	}
	if (strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`)) ||
		(strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'")) {
		return true
	}
	for _, fn := range []string{"counter(", "counters(", "attr(", "url(", "var("} {
		if strings.HasPrefix(v, fn) {
			return true
		}
	}
	return false
}
