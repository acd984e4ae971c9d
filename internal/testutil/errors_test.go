package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrMockDiskFailure", ErrMockDiskFailure, "disk failure"},
		{"ErrMockNetwork", ErrMockNetwork, "connection reset"},
		{"ErrMockOperation", ErrMockOperation, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestMockErrorsAreSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("read task: %w", ErrMockNetwork)
	assert.ErrorIs(t, wrapped, ErrMockNetwork)

	// A copy of the message is not the sentinel.
	assert.NotErrorIs(t, errors.New("connection reset"), ErrMockNetwork) //nolint:err113 // checks a dynamic error on purpose
}
