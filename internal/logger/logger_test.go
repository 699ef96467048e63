package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		l, err := New(Config{})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("invalid level", func(t *testing.T) {
		l, err := New(Config{Level: "chatty"})
		assert.Error(t, err)
		assert.Nil(t, l)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestGetSet(t *testing.T) {
	nop := zap.NewNop()
	Set(nop)
	t.Cleanup(func() { Set(nil) })

	assert.Same(t, nop, Get())

	Set(nil)
	assert.NotNil(t, Get())
}
