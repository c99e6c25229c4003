// Package directive turns fenced code blocks into typed, validated
// directives: what to do with a block (build, symlink, run, section), where
// to put it, and whether it may run on this host.
//
// Parsing is total. Malformed meta never fails; it produces an inert or
// partially specified directive that the execution engine reports on.
package directive
