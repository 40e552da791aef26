// Package binder registers one long flag per parameter spec, scans a token
// list into raw values, and runs every raw value (or default) through a
// validate.Validator to produce the bound arguments.
//
// Flags follow the shapes computed by package introspect:
//
//	single          --name value        last occurrence wins
//	repeated        --name v1 v2 ...    occurrences concatenate
//	repeated-pair   --name k=v k2=v2    occurrences merge, later keys win
//
// Usage errors are returned as *UsageError values carrying exit status 2;
// nothing in this package terminates the process.
package binder
