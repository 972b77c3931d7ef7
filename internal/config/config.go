// Package config holds the settings of a quiver session. Settings come
// from Default, then an optional TOML or YAML file, then command-line
// flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/aescherling/quiver/internal/view"
)

// ErrInvalid is returned for settings outside their allowed range.
var ErrInvalid = errors.New("invalid config")

// Views that can be shown first.
const (
	ViewHistogram = "histogram"
	ViewScatter   = "scatter"
	ViewTable     = "table"
)

// Views lists the views in tab order.
var Views = []string{ViewHistogram, ViewScatter, ViewTable}

type Selector struct {
	Height float64 `toml:"height" yaml:"height"`
	Margin float64 `toml:"margin" yaml:"margin"`
}

type Table struct {
	Rows            int     `toml:"rows" yaml:"rows"`
	Cols            int     `toml:"cols" yaml:"cols"`
	RowSliderLength float64 `toml:"row_slider_length" yaml:"row_slider_length"`
	ColSliderLength float64 `toml:"col_slider_length" yaml:"col_slider_length"`
}

// Config is the full set of session settings.
type Config struct {
	// View is shown at startup.
	View string `toml:"view" yaml:"view"`

	// Width and Height of the plot area in view units.
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`

	Selector Selector `toml:"selector" yaml:"selector"`
	Table    Table    `toml:"table" yaml:"table"`

	// Animation springs histogram bars to their new heights.
	Animation    bool `toml:"animation" yaml:"animation"`
	AnimationFPS int  `toml:"animation_fps" yaml:"animation_fps"`

	// Log is a file that receives structured logs. Empty discards them.
	Log   string `toml:"log" yaml:"log"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

// Default returns the stock configuration.
func Default() Config {
	l := view.DefaultLayout()
	return Config{
		View:   ViewHistogram,
		Width:  l.Width,
		Height: l.Height,
		Selector: Selector{
			Height: l.SelectorHeight,
			Margin: l.SelectorMargin,
		},
		Table: Table{
			Rows:            l.PageRows,
			Cols:            l.PageCols,
			RowSliderLength: l.RowSliderLength,
			ColSliderLength: l.ColSliderLength,
		},
		Animation:    true,
		AnimationFPS: 60,
	}
}

// Load reads path over Default. The format follows the extension.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err = dec.Decode(&c); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return c, fmt.Errorf("%w: unknown config extension %q", ErrInvalid, ext)
	}
	if err != nil {
		return c, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, c.Validate()
}

// Validate checks every setting.
func (c Config) Validate() error {
	var errs []error
	if !isView(c.View) {
		errs = append(errs, fmt.Errorf("%w: view %q, want one of %s", ErrInvalid, c.View, strings.Join(Views, ", ")))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: plot size %gx%g", ErrInvalid, c.Width, c.Height))
	}
	if c.Selector.Height <= 0 || c.Selector.Margin < 0 || 2*c.Selector.Margin >= c.Width {
		errs = append(errs, fmt.Errorf("%w: selector height %g margin %g", ErrInvalid, c.Selector.Height, c.Selector.Margin))
	}
	if c.Table.Rows < 1 || c.Table.Cols < 1 {
		errs = append(errs, fmt.Errorf("%w: table page %dx%d", ErrInvalid, c.Table.Rows, c.Table.Cols))
	}
	if c.Table.RowSliderLength <= 2*c.Selector.Margin || c.Table.ColSliderLength <= 2*c.Selector.Margin {
		errs = append(errs, fmt.Errorf("%w: table slider lengths %g, %g", ErrInvalid, c.Table.RowSliderLength, c.Table.ColSliderLength))
	}
	if c.Animation && c.AnimationFPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: animation fps %d", ErrInvalid, c.AnimationFPS))
	}
	return errors.Join(errs...)
}

func isView(v string) bool {
	for _, name := range Views {
		if v == name {
			return true
		}
	}
	return false
}

// Override copies every flag that was set on fs over c. The flags it
// knows are view, rows, cols, log, watch and noanim.
func (c *Config) Override(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		g, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch v := g.Get().(type) {
		case string:
			switch f.Name {
			case "view":
				c.View = v
			case "log":
				c.Log = v
			}
		case int:
			switch f.Name {
			case "rows":
				c.Table.Rows = v
			case "cols":
				c.Table.Cols = v
			}
		case bool:
			switch f.Name {
			case "watch":
				c.Watch = v
			case "noanim":
				c.Animation = !v
			}
		}
	})
}

// Layout converts c into view sizes.
func (c Config) Layout() view.Layout {
	return view.Layout{
		Width:           c.Width,
		Height:          c.Height,
		SelectorHeight:  c.Selector.Height,
		SelectorMargin:  c.Selector.Margin,
		PageRows:        c.Table.Rows,
		PageCols:        c.Table.Cols,
		RowSliderLength: c.Table.RowSliderLength,
		ColSliderLength: c.Table.ColSliderLength,
	}
}
