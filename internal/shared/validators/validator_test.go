package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Method string `validate:"required,oneof=* GET POST"`
	Width  int    `validate:"min=100,max=8000"`
}

func TestDescribe_ValidationErrors(t *testing.T) {
	t.Parallel()

	err := New().Struct(&sampleRequest{Method: "PUT", Width: 10})
	require.Error(t, err)

	description := Describe(err)
	assert.Contains(t, description, "method (oneof=* GET POST)")
	assert.Contains(t, description, "width (min=100)")
}

func TestDescribe_Required(t *testing.T) {
	t.Parallel()

	err := New().Struct(&sampleRequest{Width: 200})
	require.Error(t, err)
	assert.Equal(t, "method (required)", Describe(err))
}

func TestDescribe_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
