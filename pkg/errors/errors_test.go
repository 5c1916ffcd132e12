package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := fmt.Errorf("base error")

	wrapped := Wrap(base, "context")
	require.Error(t, wrapped)
	assert.Equal(t, "context: base error", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))

	assert.NoError(t, Wrap(nil, "context"))
}

func TestWrapf(t *testing.T) {
	base := fmt.Errorf("base error")

	wrapped := Wrapf(base, "item %q (%d)", "thumbnail", 3)
	require.Error(t, wrapped)
	assert.Equal(t, `item "thumbnail" (3): base error`, wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))

	assert.NoError(t, Wrapf(nil, "item %q", "thumbnail"))
}
