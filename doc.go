// Package funcli builds a command-line parser from a function's parameter
// list. Each parameter becomes one long flag whose argument shape (a single
// value, repeated values or key=value pairs) follows from its type
// expression. Parsed tokens are coerced into typed values by a Validator
// and handed to the target function.
//
//	params := []funcli.Parameter{
//		{Name: "names", Type: funcli.MustType("list(string)")},
//		{Name: "times", Type: funcli.MustType("int"), HasDefault: true, Default: 1},
//	}
//	funcli.Main("greet", params, func(args map[string]any) error {
//		...
//	})
//
// Struct fields tagged `funcli:"name"` can be bound the same way with
// ParseStruct and MainStruct.
package funcli
