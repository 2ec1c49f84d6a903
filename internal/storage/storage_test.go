package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarKey(t *testing.T) {
	key := AvatarKey("user-1", "Me.PNG")
	assert.True(t, strings.HasPrefix(key, "avatars/user-1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, AvatarKey("user-1", "Me.PNG"))
}

func TestLocalStorage_UploadDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/static/")
	require.NoError(t, err)

	url, err := s.Upload(ctx, "avatars/u1/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/static/avatars/u1/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "u1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	key := s.KeyFromURL(url)
	assert.Equal(t, "avatars/u1/a.png", key)
	assert.Empty(t, s.KeyFromURL("https://elsewhere.test/x.png"))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "avatars", "u1", "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "../escape.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, s.Delete(context.Background(), "/etc/passwd"), ErrInvalidKey)
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}
