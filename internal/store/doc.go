// Package store persists the roster.
//
// The default backend is a flat text file holding one
// "id,name,mark1,mark2,mark3,exam" line per student; a SQLite backend keeps
// the same rows in a table ordered by position. Both backends rewrite the
// whole roster on every save and return a LoadReport on load that lists each
// rejected line, so a partial load is never silent. Lock guards the data
// against a second concurrent writer.
package store
