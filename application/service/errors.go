package service

import "errors"

// Service-level sentinel errors.
var (
	// ErrAlreadyMonitoring indicates the company already has a live run.
	ErrAlreadyMonitoring = errors.New("company is already being monitored")

	// ErrNotMonitoring indicates the company has no live run.
	ErrNotMonitoring = errors.New("company is not being monitored")
)
