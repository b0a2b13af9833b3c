package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CSSObject is a style description: declaration keys (camelCase properties)
// mapped to values, with nested CSSObject values treated as nested selector
// blocks. "&" in a nested key refers to the parent selector.
type CSSObject map[string]any

// CompileOptions carries the identity and configuration a compile needs.
type CompileOptions struct {
	// HashID is the style's class identifier; the root selector is derived
	// from it according to HashPriority.
	HashID string
	// HashPriority controls root selector specificity: low wraps the hashed
	// class in :where(), high uses the bare class selector.
	HashPriority HashPriority
	// Path is the style path, available for diagnostics.
	Path []string
	// Dev enables lint diagnostics. In production compiles no diagnostics
	// are produced.
	Dev bool
}

// Diagnostic is an advisory lint finding. Diagnostics never block
// compilation or injection.
type Diagnostic struct {
	Rule     string
	Property string
	Message  string
}

// Compiler turns a style description into CSS text. Implementations must be
// pure: identical inputs produce identical output.
type Compiler interface {
	Compile(obj CSSObject, opts CompileOptions) (string, []Diagnostic)
}

// NewSerializer returns the default Compiler. Output is deterministic
// (declarations and nested blocks are emitted in sorted key order) and
// numeric values gain a px unit unless the property is unitless.
func NewSerializer() Compiler {
	return serializer{}
}

type serializer struct{}

func (s serializer) Compile(obj CSSObject, opts CompileOptions) (string, []Diagnostic) {
	selector := rootSelector(opts)
	var sb strings.Builder
	var diags []Diagnostic
	serializeBlock(&sb, selector, obj, opts, &diags)
	return sb.String(), diags
}

func rootSelector(opts CompileOptions) string {
	if opts.HashID == "" {
		return ":root"
	}
	if opts.HashPriority == HashPriorityHigh {
		return "." + opts.HashID
	}
	return ":where(." + opts.HashID + ")"
}

func serializeBlock(sb *strings.Builder, selector string, obj CSSObject, opts CompileOptions, diags *[]Diagnostic) {
	var declKeys, nestedKeys []string
	for k, v := range obj {
		if _, ok := v.(CSSObject); ok {
			nestedKeys = append(nestedKeys, k)
			continue
		}
		if _, ok := v.(map[string]any); ok {
			nestedKeys = append(nestedKeys, k)
			continue
		}
		declKeys = append(declKeys, k)
	}
	sort.Strings(declKeys)
	sort.Strings(nestedKeys)

	if len(declKeys) > 0 {
		sb.WriteString(selector)
		sb.WriteByte('{')
		for _, k := range declKeys {
			val := formatValue(k, obj[k])
			if opts.Dev {
				lintDeclaration(k, val, diags)
			}
			sb.WriteString(kebabCase(k))
			sb.WriteByte(':')
			sb.WriteString(val)
			sb.WriteByte(';')
		}
		sb.WriteByte('}')
	}

	for _, k := range nestedKeys {
		child := obj[k]
		nested, ok := child.(CSSObject)
		if !ok {
			nested = CSSObject(child.(map[string]any))
		}
		serializeBlock(sb, resolveSelector(selector, k), nested, opts, diags)
	}
}

// resolveSelector combines a parent selector with a nested key. "&" refers
// to the parent; otherwise the key is a descendant selector.
func resolveSelector(parent, key string) string {
	if strings.Contains(key, "&") {
		return strings.ReplaceAll(key, "&", parent)
	}
	return parent + " " + key
}

// unitlessProps are numeric properties that never take a px unit.
var unitlessProps = map[string]bool{
	"opacity":    true,
	"zIndex":     true,
	"fontWeight": true,
	"lineHeight": true,
	"flex":       true,
	"flexGrow":   true,
	"flexShrink": true,
	"order":      true,
	"zoom":       true,
}

func formatValue(prop string, v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		if val != 0 && !unitlessProps[prop] {
			return strconv.Itoa(val) + "px"
		}
		return strconv.Itoa(val)
	case int64:
		return formatValue(prop, int(val))
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if val != 0 && !unitlessProps[prop] {
			return s + "px"
		}
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// kebabCase converts a camelCase property name to its CSS form.
func kebabCase(prop string) string {
	var sb strings.Builder
	for _, r := range prop {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteByte(byte(r - 'A' + 'a'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
