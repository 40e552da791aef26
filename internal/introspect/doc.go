// Package introspect turns a declarative parameter list into normalized
// parameter specs. For every parameter it flattens the type annotation into
// a set of outer types and classifies that set into the argument shape the
// command line will accept: a single token, repeated tokens, or repeated
// key=value pairs.
package introspect
