// Package templates holds the named template library chapters are rendered with.
//
// Templates use Django/Jinja syntax (pongo2) and may inherit from one another
// with {% extends %}, {% include %} and {% import %}. Registration is batched:
// a batch is compiled as a whole against the library plus the batch, so an
// inheriting template can be discovered before its parent. A batch either
// commits completely or leaves the library untouched.
//
// Rendering is strict: printing a variable the context does not define fails.
package templates
