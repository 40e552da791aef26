// Package app contains the core application logic of the funcli command. It
// loads a command manifest, binds the remaining command-line tokens against
// it, and prints the bound arguments, decoupled from process-level concerns
// like exit codes.
package app
