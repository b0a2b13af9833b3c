// Package style registers, caches, and injects compiled CSS.
//
// A [Register] ties the pieces together: it computes a stable style id from
// (token hash, style path, options), consults its cache entity, compiles on
// first use through a [Compiler], and injects the result into a document as
// a marker node. Registration is idempotent: identical inputs invoke the
// style factory at most once and always return the same id.
//
//	reg := style.New(style.WithContainer(doc))
//	res, err := reg.RegisterStyle(token, []string{"Button"}, style.StyleOptions{}, func() style.CSSObject {
//	    return style.CSSObject{"color": "#1677ff"}
//	})
//	// res.StyleID is the class name; call res.Release() on unmount.
//
// Markers found in the document short-circuit registration entirely, which
// is what makes the server-to-client handoff recompute-free: hydrated
// markers are recognized before the factory would run.
//
// Lint diagnostics from the compiler (physical direction properties,
// unquoted content values) are advisory, reported through the logger, and
// suppressed outside development mode.
package style
