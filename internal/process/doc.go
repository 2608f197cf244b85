// Package process manages the lifetime of external viewer processes.
package process
