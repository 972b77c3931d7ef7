package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescherling/quiver/internal/view"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, ViewHistogram, c.View)
	assert.Equal(t, 15, c.Table.Rows)
	assert.Equal(t, 5, c.Table.Cols)
	assert.Equal(t, 300.0, c.Width)
	assert.True(t, c.Animation)
	assert.Equal(t, view.DefaultLayout(), c.Layout())
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "quiver.toml", `
view = "table"
animation = false

[table]
rows = 20
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ViewTable, c.View)
	assert.False(t, c.Animation)
	assert.Equal(t, 20, c.Table.Rows)
	assert.Equal(t, 5, c.Table.Cols, "unset keys keep defaults")
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "quiver.yaml", "view: scatter\nselector:\n  height: 30\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ViewScatter, c.View)
	assert.Equal(t, 30.0, c.Selector.Height)
	assert.Equal(t, 5.0, c.Selector.Margin)

	c, err = Load(write(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(write(t, "bad.toml", `colour = "red"`))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.yaml", "view: pie\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(write(t, "quiver.ini", "view=table"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Table.Rows = 0
	c.Width = -1
	err := c.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "table page 0x5")
	assert.Contains(t, err.Error(), "plot size")
}

func TestOverride(t *testing.T) {
	fs := flag.NewFlagSet("quiver", flag.ContinueOnError)
	fs.String("view", ViewHistogram, "")
	fs.String("log", "", "")
	fs.Int("rows", 15, "")
	fs.Int("cols", 5, "")
	fs.Bool("watch", false, "")
	fs.Bool("noanim", false, "")
	require.NoError(t, fs.Parse([]string{"-rows", "8", "-noanim", "-log", "q.log"}))

	c := Default()
	c.View = ViewTable
	c.Override(fs)
	assert.Equal(t, 8, c.Table.Rows)
	assert.Equal(t, 5, c.Table.Cols)
	assert.False(t, c.Animation)
	assert.Equal(t, "q.log", c.Log)
	assert.Equal(t, ViewTable, c.View, "unset flags keep file values")
}
