// Package cli is responsible for parsing the funcli tool's own command-line
// options and handling process-level concerns like exit codes. The tokens
// after the manifest path are passed through untouched for the command.
package cli
