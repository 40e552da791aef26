// Package manifest loads a command signature from HCL files, so a command
// line can be derived without writing Go code:
//
//	command "greet" {
//	  description = "Greets people."
//
//	  parameter "names" {
//	    type        = list(string)
//	    description = "who to greet"
//	  }
//
//	  parameter "times" {
//	    type    = int
//	    default = 1
//	  }
//	}
//
// Parameter types use the type expression syntax of package typeexpr.
// Defaults are literal values; `default = null` is a real default.
package manifest
