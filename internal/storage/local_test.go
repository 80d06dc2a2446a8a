package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage_SaveAndDownload(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	key := "42/7/gst_1700000000000.pdf"
	saved, err := store.Save(strings.NewReader("%PDF-1.4 test"), key)
	assert.NoError(t, err)
	assert.Equal(t, key, saved)
	assert.True(t, store.Exists(key))

	size, err := store.GetSize(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(len("%PDF-1.4 test")), size)

	f, err := store.Download(key)
	assert.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(content))
}

func TestLocalStorage_SaveNeverOverwrites(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	key := "42/7/pan_1700000000000.png"
	_, err = store.Save(strings.NewReader("first"), key)
	assert.NoError(t, err)

	_, err = store.Save(strings.NewReader("second"), key)
	assert.ErrorIs(t, err, ErrKeyExists)

	f, err := store.Download(key)
	assert.NoError(t, err)
	defer f.Close()
	content, _ := io.ReadAll(f)
	assert.Equal(t, "first", string(content))
}

func TestLocalStorage_SaveBytes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	path, err := store.SaveBytes([]byte("csv,data"), "register.csv", "exports")
	assert.NoError(t, err)
	assert.True(t, store.Exists(path))
	assert.True(t, strings.HasPrefix(path, "exports/"))
	assert.True(t, strings.HasSuffix(path, ".csv"))
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	key := "1/1/other_1.pdf"
	_, err = store.Save(strings.NewReader("x"), key)
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(key))
	assert.False(t, store.Exists(key))
}

func TestContentTypeValidation(t *testing.T) {
	assert.True(t, IsValidContentType("application/pdf"))
	assert.True(t, IsValidContentType("image/jpeg"))
	assert.True(t, IsValidContentType("image/jpg"))
	assert.True(t, IsValidContentType("image/png"))
	assert.False(t, IsValidContentType("image/gif"))
	assert.False(t, IsValidContentType("application/zip"))
}

func TestMaxFileSize(t *testing.T) {
	assert.Equal(t, int64(5242880), MaxFileSize())
}
