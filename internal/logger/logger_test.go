package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"prod", "dev", "local"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env, "", "")
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}

	_, err := NewLogger("staging", "", "")
	assert.Error(t, err)

	_, err = NewLogger("dev", "loud", "")
	assert.Error(t, err)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviebot.log")
	l, err := NewLogger("prod", "debug", path)
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))

	l := zap.NewExample()
	assert.Same(t, l, FromContextOr(ContextWithLogger(context.Background(), l), fallback))
}
