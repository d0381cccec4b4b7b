package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func TestConnector_Scheme(t *testing.T) {
	assert.Equal(t, "file", New(0).Scheme())
}

func TestConnector_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ficha.txt")
	require.NoError(t, os.WriteFile(path, []byte("596-70 Dirigir sem CNH"), 0o644))

	t.Run("bare path", func(t *testing.T) {
		raw, err := New(0).Fetch(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, raw.Origin)
		assert.Equal(t, "text/plain", raw.MIMEType)
		assert.Equal(t, "596-70 Dirigir sem CNH", string(raw.Content))
		assert.Equal(t, path, raw.Metadata["path"])
	})

	t.Run("file URI", func(t *testing.T) {
		raw, err := New(0).Fetch(context.Background(), "file://"+path)
		require.NoError(t, err)
		assert.Equal(t, "596-70 Dirigir sem CNH", string(raw.Content))
	})

	t.Run("missing file is a fetch error", func(t *testing.T) {
		_, err := New(0).Fetch(context.Background(), filepath.Join(dir, "nope.txt"))

		var fetchErr *domain.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, 404, fetchErr.Status)
		assert.False(t, domain.IsRetryable(err))
	})

	t.Run("directory is invalid input", func(t *testing.T) {
		_, err := New(0).Fetch(context.Background(), dir)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("size limit", func(t *testing.T) {
		_, err := New(4).Fetch(context.Background(), path)

		var fetchErr *domain.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, 413, fetchErr.Status)
	})

	t.Run("sniffs unknown extensions", func(t *testing.T) {
		p := filepath.Join(dir, "scan.bin")
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4\n"), 0o644))

		raw, err := New(0).Fetch(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", raw.MIMEType)
	})
}

func TestConnector_List(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	write("b.pdf")
	write("a.txt")
	write("sub/c.html")
	write("image.png")
	write(".hidden.txt")
	write(".git/config.txt")

	paths, err := New(0).List(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "c.html"),
	}, paths)
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected *domain.Change
	}{
		{"create file", file, fsnotify.Create, &domain.Change{Type: domain.ChangeCreated, Origin: file}},
		{"write file", file, fsnotify.Write, &domain.Change{Type: domain.ChangeUpdated, Origin: file}},
		{"write and chmod", file, fsnotify.Write | fsnotify.Chmod, &domain.Change{Type: domain.ChangeUpdated, Origin: file}},
		{"remove file", filepath.Join(dir, "gone.txt"), fsnotify.Remove, &domain.Change{Type: domain.ChangeDeleted, Origin: filepath.Join(dir, "gone.txt")}},
		{"rename file", filepath.Join(dir, "old.txt"), fsnotify.Rename, &domain.Change{Type: domain.ChangeDeleted, Origin: filepath.Join(dir, "old.txt")}},
		{"chmod only", file, fsnotify.Chmod, nil},
		{"create directory", sub, fsnotify.Create, nil},
		{"hidden file", filepath.Join(dir, ".swp"), fsnotify.Create, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.expected, change)
		})
	}
}

func TestConnector_Watch(t *testing.T) {
	dir := t.TempDir()
	c := New(0)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := c.Watch(ctx, dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "nova.txt")
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("conteúdo"), 0o644)
	}()

	select {
	case change := <-changes:
		assert.Equal(t, path, change.Origin)
		assert.NotEqual(t, domain.ChangeDeleted, change.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change event")
	}

	cancel()
	for range changes {
	}
}

func TestConnector_WatchAfterClose(t *testing.T) {
	c := New(0)
	require.NoError(t, c.Close())

	_, err := c.Watch(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrConnectorClosed)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/tmp/a.pdf", Path("file:///tmp/a.pdf"))
	assert.Equal(t, "docs/a.pdf", Path("docs/a.pdf"))
}
