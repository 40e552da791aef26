// Package typeexpr models the type annotations attached to command parameters
// as an explicit variant tree (scalar, union, generic container) and parses
// them from HCL type syntax, e.g. `optional(list(string))` or
// `union(url, path)`.
package typeexpr
