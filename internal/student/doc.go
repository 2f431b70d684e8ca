// Package student defines the roster record and its derived metrics.
//
// A Student stores exactly six fields; coursework total, total score,
// percentage and grade are methods recomputed on every call. Parse converts
// raw strings at the input boundary and Validate enforces the field ranges,
// both returning *ValidationError so callers can show the message as-is.
package student
