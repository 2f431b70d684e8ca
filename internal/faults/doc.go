// Package faults defines the error taxonomy shared by the roster packages.
//
// Callers tag failures with one of the sentinel markers through Wrap (or by
// returning an error that implements Classifier) and the CLI maps the result
// to a user-facing message and exit status via Kind and ExitCode. Validation
// failures are never fatal; persistence failures degrade instead of aborting.
package faults
