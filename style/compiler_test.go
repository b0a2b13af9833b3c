package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func compileDev(obj CSSObject, opts CompileOptions) (string, []Diagnostic) {
	opts.Dev = true
	return NewSerializer().Compile(obj, opts)
}

func TestSerializeDeclarations(t *testing.T) {
	css, diags := compileDev(CSSObject{
		"color":      "#1677ff",
		"fontWeight": 600,
		"marginTop":  8,
	}, CompileOptions{HashID: "css-abc"})
	assert.Empty(t, diags)
	assert.Equal(t, ":where(.css-abc){color:#1677ff;font-weight:600;margin-top:8px;}", css)
}

func TestSerializeHashPriorityHigh(t *testing.T) {
	css, _ := compileDev(CSSObject{"color": "red"}, CompileOptions{
		HashID:       "css-abc",
		HashPriority: HashPriorityHigh,
	})
	assert.Equal(t, ".css-abc{color:red;}", css)
}

func TestSerializeNestedSelectors(t *testing.T) {
	css, _ := compileDev(CSSObject{
		"color": "red",
		"&:hover": CSSObject{
			"color": "blue",
		},
		".icon": CSSObject{
			"width": 16,
		},
	}, CompileOptions{HashID: "css-abc"})
	assert.Contains(t, css, ":where(.css-abc){color:red;}")
	assert.Contains(t, css, ":where(.css-abc):hover{color:blue;}")
	assert.Contains(t, css, ":where(.css-abc) .icon{width:16px;}")
}

func TestSerializeDeterministic(t *testing.T) {
	obj := CSSObject{"zIndex": 10, "color": "red", "border": "none", "opacity": 0.5}
	a, _ := compileDev(obj, CompileOptions{HashID: "css-x"})
	b, _ := compileDev(obj, CompileOptions{HashID: "css-x"})
	assert.Equal(t, a, b)
}

func TestUnitlessValues(t *testing.T) {
	css, _ := compileDev(CSSObject{"zIndex": 10, "opacity": 0.5, "lineHeight": 1.5}, CompileOptions{HashID: "css-x"})
	assert.Contains(t, css, "z-index:10;")
	assert.Contains(t, css, "opacity:0.5;")
	assert.Contains(t, css, "line-height:1.5;")
}

func TestLintPhysicalProperty(t *testing.T) {
	_, diags := compileDev(CSSObject{"marginLeft": 8}, CompileOptions{HashID: "css-x"})
	assert.Len(t, diags, 1)
	assert.Equal(t, RuleLogicalProperties, diags[0].Rule)
	assert.Equal(t, "marginLeft", diags[0].Property)
	assert.Contains(t, diags[0].Message, "marginLeft")
}

func TestLintPhysicalValue(t *testing.T) {
	_, diags := compileDev(CSSObject{"textAlign": "left"}, CompileOptions{HashID: "css-x"})
	assert.Len(t, diags, 1)
	assert.Equal(t, RuleLogicalProperties, diags[0].Rule)
}

func TestLintUnquotedContent(t *testing.T) {
	_, diags := compileDev(CSSObject{"content": "hi"}, CompileOptions{HashID: "css-x"})
	assert.Len(t, diags, 1)
	assert.Equal(t, RuleContentQuotes, diags[0].Rule)
}

func TestLintQuotedContentOK(t *testing.T) {
	for _, v := range []string{`"hi"`, `'hi'`, "none", `attr(data-label)`, `counter(item)`} {
		_, diags := compileDev(CSSObject{"content": v}, CompileOptions{HashID: "css-x"})
		assert.Empty(t, diags, "content value %q", v)
	}
}

func TestLintSuppressedInProduction(t *testing.T) {
	_, diags := NewSerializer().Compile(CSSObject{"marginLeft": 8}, CompileOptions{HashID: "css-x", Dev: false})
	assert.Empty(t, diags)
	// The declaration still compiles and would still be injected.
	css, _ := NewSerializer().Compile(CSSObject{"marginLeft": 8}, CompileOptions{HashID: "css-x"})
	assert.Contains(t, css, "margin-left:8px;")
}
