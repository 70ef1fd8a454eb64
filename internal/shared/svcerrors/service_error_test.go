package svcerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr *ServiceError
		wantOk  bool
	}{
		{
			name:    "nil input",
			err:     nil,
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "regular error",
			err:     errors.New("x"),
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "direct ServiceError",
			err:     NewInvalidArgumentError("ING_1000", "validation failed", nil),
			wantErr: NewInvalidArgumentError("ING_1000", "validation failed", nil),
			wantOk:  true,
		},
		{
			name:    "wrapped ServiceError",
			err:     fmt.Errorf("wrap: %w", NewInternalError("ING_9000", nil)),
			wantErr: NewInternalError("ING_9000", nil),
			wantOk:  true,
		},
		{
			name:    "not found ServiceError",
			err:     NewNotFoundError("APP_1001", "input file not found", nil),
			wantErr: NewNotFoundError("APP_1001", "input file not found", nil),
			wantOk:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			gotErr, gotOk := AsServiceError(tt.err)

			assert.Equal(t, tt.wantOk, gotOk, "AsServiceError() ok value mismatch")

			if tt.wantErr == nil {
				assert.Nil(t, gotErr, "AsServiceError() should return nil error")
			} else {
				require.NotNil(t, gotErr, "AsServiceError() should return non-nil error")
				assert.Equal(t, tt.wantErr.Category, gotErr.Category, "Category mismatch")
				assert.Equal(t, tt.wantErr.Code, gotErr.Code, "Code mismatch")
				assert.Equal(t, tt.wantErr.Message, gotErr.Message, "Message mismatch")
			}
		})
	}
}

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: 1},
		{name: "invalid argument", err: NewInvalidArgumentError("ING_1000", "bad pattern", nil), want: 2},
		{name: "not found", err: NewNotFoundError("APP_1001", "missing", nil), want: 3},
		{name: "wrapped internal", err: fmt.Errorf("ctx: %w", NewInternalError("ING_9000", nil)), want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestServiceError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewInternalError("STORE_9000", cause)

	assert.Equal(t, "STORE_9000: internal error: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsInternalError())
}
