package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goRenderer is a stub renderer of Go units.
type goRenderer struct{ stubRenderer }

func (goRenderer) Extension() string          { return ".go" }
func (goRenderer) NamespaceSeparator() string { return "/" }

func TestNewWriter(t *testing.T) {
	_, err := NewWriter(nil, stubRenderer{})
	assert.True(t, IsConfigError(err))

	_, err = NewWriter(&Config{}, stubRenderer{})
	assert.True(t, IsConfigError(err))

	w, err := NewWriter(&Config{Target: t.TempDir()}, stubRenderer{})
	require.NoError(t, err)
	assert.Zero(t, w.Metrics())
}

func TestWriterPath(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(&Config{Target: dir}, stubRenderer{})
	require.NoError(t, err)

	out := &Output{
		Placement: Placement{Namespace: `App\Model\Base`, ClassName: "NovelQuery"},
		FileName:  "NovelQuery.php",
	}
	assert.Equal(t, filepath.Join(dir, "App", "Model", "Base", "NovelQuery.php"), w.Path(out))
}

func TestWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(&Config{Target: dir}, stubRenderer{})
	require.NoError(t, err)

	out := &Output{
		Placement: Placement{Namespace: `App\Base`, ClassName: "EssayQuery"},
		FileName:  "EssayQuery.php",
		Source:    []byte("<?php\n"),
	}
	require.NoError(t, w.Write(out))
	got, err := os.ReadFile(w.Path(out))
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(got))

	t.Run("existing file is kept", func(t *testing.T) {
		edited := []byte("<?php\n// customized\n")
		require.NoError(t, os.WriteFile(w.Path(out), edited, 0o644))
		require.NoError(t, w.Write(out))
		got, err := os.ReadFile(w.Path(out))
		require.NoError(t, err)
		assert.Equal(t, string(edited), string(got))
	})

	m := w.Metrics()
	assert.Equal(t, 1, m.FilesWritten)
	assert.Equal(t, 1, m.FilesSkipped)
	assert.Equal(t, int64(len("<?php\n")), m.TotalBytes)
}

func TestWriterOverwrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(&Config{Target: dir, Overwrite: true}, stubRenderer{})
	require.NoError(t, err)

	out := &Output{Placement: Placement{Namespace: "Base", ClassName: "AQuery"}, FileName: "AQuery.php", Source: []byte("new")}
	path := w.Path(out)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, w.Write(out))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	assert.Equal(t, 0, w.Metrics().FilesSkipped)
}

func TestWriterFormatsGo(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(&Config{Target: dir}, goRenderer{})
	require.NoError(t, err)

	out := &Output{
		Placement: Placement{Namespace: "example.com/shop/Base", ClassName: "TruckQuery"},
		FileName:  "TruckQuery.go",
		Source:    []byte("package base\ntype   TruckQuery struct{}\n"),
	}
	require.NoError(t, w.Write(out))
	got, err := os.ReadFile(filepath.Join(dir, "example.com", "shop", "Base", "TruckQuery.go"))
	require.NoError(t, err)
	assert.Equal(t, "package base\n\ntype TruckQuery struct{}\n", string(got))

	t.Run("invalid go source", func(t *testing.T) {
		bad := &Output{Placement: Placement{Namespace: "x/Base", ClassName: "Bad"}, FileName: "Bad.go", Source: []byte("package base\nfunc {")}
		err := w.Write(bad)
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		_, statErr := os.Stat(w.Path(bad))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestWriterWriteAll(t *testing.T) {
	db := loadDB(t, bookstore)
	dir := t.TempDir()
	cfg := MustNewConfig(WithTarget(dir), WithWorkers(3))
	g := NewGenerator(cfg, stubRenderer{})

	outs, err := g.GenerateAll(context.Background(), db)
	require.NoError(t, err)

	w, err := NewWriter(cfg, g.Renderer())
	require.NoError(t, err)
	require.NoError(t, w.WriteAll(context.Background(), outs))
	assert.Equal(t, len(outs), w.Metrics().FilesWritten)

	for _, name := range []string{"EssayQuery.txt", "NovelQuery.txt", "ShortNovelQuery.txt", "ComicQuery.txt"} {
		assert.FileExists(t, filepath.Join(dir, "App", "Model", "Base", name))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.WriteAll(ctx, outs), context.Canceled)
}
