// Package validate is the reference type-coercion engine used to turn raw
// command-line values (strings, string slices, string maps, or defaults)
// into typed Go values according to a type expression.
//
// Raw values are lifted into cty values first, so primitive conversions
// (string to number, string to bool) follow cty's conversion rules. Domain
// scalars such as `url` and `path` are plain functions registered on the
// Engine, and callers can register their own.
//
// Typed results use these Go representations:
//
//	string, enum(...)   string
//	int                 int
//	number, float       float64
//	bool                bool
//	url                 *url.URL
//	path                Path
//	list(T), tuple(T)   []any
//	set(T)              Set
//	map(V), map(K, V)   map[string]any
//	any                 the natural Go value of the raw input
package validate
