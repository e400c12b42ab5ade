package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := FetchToken("http://localhost:8787")
	require.True(t, errors.Is(err, ErrNoToken))

	require.NoError(t, StoreToken("http://localhost:8787/api/content", "s3cret"))
	got, err := FetchToken("HTTP://LOCALHOST:8787")
	require.NoError(t, err)
	require.Equal(t, "s3cret", got)

	require.NoError(t, DeleteToken("http://localhost:8787"))
	_, err = FetchToken("http://localhost:8787")
	require.True(t, errors.Is(err, ErrNoToken))
}

func TestTokenNeedsHost(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.Error(t, StoreToken("/api/content", "x"))
	_, err := FetchToken("")
	require.Error(t, err)
}

func TestTokenBoundToHost(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, StoreToken("http://a.test", "alpha"))
	require.NoError(t, StoreToken("http://b.test", "beta"))

	tf, err := openFile()
	require.NoError(t, err)
	tf.Tokens["http://b.test"] = tf.Tokens["http://a.test"]
	require.NoError(t, tf.write())

	got, err := FetchToken("http://a.test")
	require.NoError(t, err)
	require.Equal(t, "alpha", got)

	_, err = FetchToken("http://b.test")
	require.Error(t, err)

	require.NoError(t, DeleteToken("http://never.test"))
}
