// Package testutil provides testing utilities for eureka.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockDiskFailure simulates a storage read that fails (used in tests).
	ErrMockDiskFailure = errors.New("disk failure")

	// ErrMockNetwork simulates a dropped connection to a remote store (used in tests).
	ErrMockNetwork = errors.New("connection reset")

	// ErrMockOperation is a generic failure to render or report (used in tests).
	ErrMockOperation = errors.New("boom")
)
