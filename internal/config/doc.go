// Package config loads, normalizes, and validates roster configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours ROSTER_* overrides from the
// process environment or a .env file in the working directory. The storage
// location is always resolved here and handed to the store explicitly.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
