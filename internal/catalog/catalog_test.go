package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/mtempl/internal/cache"
	mterrors "github.com/conneroisu/mtempl/internal/errors"
	"github.com/conneroisu/mtempl/internal/template"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "app.yml", `
templates:
  user-login: "User {username} from {ip}"
  job-done: "Job {0} finished in {1}ms"
`)

	store := cache.NewStore()
	cat, err := Load(path, store)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	login, ok := cat.Get("user-login")
	require.True(t, ok)
	assert.True(t, login.Valid())
	assert.Equal(t, template.ModeName, login.Template.Mode())
	assert.Equal(t, path, login.File)

	job, ok := cat.Get("job-done")
	require.True(t, ok)
	assert.Equal(t, template.ModeIndex, job.Template.Mode())
}

func TestLoadKeepsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "mixed.yml", `
templates:
  good: "Hi {name}"
  bad: "{0} and {name}"
  worse: "{a} and {a}"
`)

	store := cache.NewStore()
	cat, err := Load(path, store)
	require.NoError(t, err, "grammar errors must not abort the load")
	assert.Equal(t, 3, cat.Len())

	bad, ok := cat.Get("bad")
	require.True(t, ok)
	assert.False(t, bad.Valid())
	assert.Equal(t, mterrors.KindMixedDesignators, bad.Err.Kind)

	invalid := cat.Invalid().Errors()
	assert.Len(t, invalid, 2)
	assert.True(t, cat.Invalid().HasErrors())
}

func TestLoadPathsWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "a.yml", "templates:\n  one: \"{x}\"\n")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeCatalog(t, sub, "b.yaml", "templates:\n  two: \"{y}\"\n")
	writeCatalog(t, dir, "ignored.txt", "not a catalog")

	store := cache.NewStore()
	cat, err := LoadPaths([]string{dir}, nil, store)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	_, ok := cat.Get("one")
	assert.True(t, ok)
	_, ok = cat.Get("two")
	assert.True(t, ok)
}

func TestLoadPathsExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "keep.yml", "templates:\n  kept: \"{x}\"\n")
	writeCatalog(t, dir, "skip.yml", "templates:\n  skipped: \"{y}\"\n")

	store := cache.NewStore()
	cat, err := LoadPaths([]string{dir}, []string{"skip.*"}, store)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
	_, ok := cat.Get("skipped")
	assert.False(t, ok)
}

func TestLoadEntriesSortedByName(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "c.yml", "templates:\n  zebra: \"{z}\"\n  alpha: \"{a}\"\n  mid: \"{m}\"\n")

	store := cache.NewStore()
	cat, err := Load(filepath.Join(dir, "c.yml"), store)
	require.NoError(t, err)

	names := make([]string, 0, cat.Len())
	for _, e := range cat.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zebra"}, names)
}

func TestLoadMissingFile(t *testing.T) {
	store := cache.NewStore()
	_, err := Load("/does/not/exist.yml", store)
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "broken.yml", "templates: [not, a, map\n")
	store := cache.NewStore()
	_, err := Load(path, store)
	assert.Error(t, err)
}

func TestIsCatalogFile(t *testing.T) {
	assert.True(t, IsCatalogFile("a.yml"))
	assert.True(t, IsCatalogFile("b.YAML"))
	assert.False(t, IsCatalogFile("c.json"))
	assert.False(t, IsCatalogFile("d"))
}

func TestLoadSharesCache(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "x.yml", "templates:\n  a: \"same {raw}\"\n  b: \"same {raw}\"\n")

	store := cache.NewStore()
	cat, err := Load(filepath.Join(dir, "x.yml"), store)
	require.NoError(t, err)

	a, _ := cat.Get("a")
	b, _ := cat.Get("b")
	assert.Same(t, a.Template, b.Template, "equal raw strings share the canonical template")
}
