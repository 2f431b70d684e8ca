// Package roster holds the in-memory student list and every operation on it.
//
// Manager owns the ordered records, the current selection, and the backing
// store. Each mutation validates first and leaves the roster untouched when
// validation fails; a successful mutation is saved immediately, and a failed
// save keeps the change in memory, marks the manager dirty, and returns an
// error wrapping faults.ErrPersistence.
package roster
