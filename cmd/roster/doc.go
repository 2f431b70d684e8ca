// Package main hosts the roster CLI entrypoint and command graph.
//
// The Cobra-based command tree loads the configured store, runs one roster
// operation per invocation, and renders the result as a table, a detail
// block, or JSON. The shell command keeps a single roster open for a whole
// interactive session. Configuration resolution, the writer lock, and
// structured logging are wired in one place so subcommands only deal with
// input and output.
package main
