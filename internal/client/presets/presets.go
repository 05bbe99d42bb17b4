// Package presets reads and writes style presets. A preset is a TOML
// document with the same keys as the persisted style; keys it leaves out
// keep their default values.
package presets

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

//go:embed builtin/*.toml
var builtin embed.FS

var ErrUnknownPreset = errors.New("unknown preset")

// Decode reads a preset onto qr.DefaultStyle. Invalid enum values and
// colors are replaced with defaults the same way persisted styles are.
func Decode(r io.Reader) (qr.Style, error) {
	s := qr.DefaultStyle()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return qr.Style{}, fmt.Errorf("decode preset: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return qr.Style{}, fmt.Errorf("decode preset: unknown key %q", keys[0].String())
	}

	raw, err := qr.MarshalStyle(s)
	if err != nil {
		return qr.Style{}, err
	}
	return qr.LoadStyle(raw), nil
}

// Encode writes s as a preset.
func Encode(w io.Writer, s qr.Style) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	return nil
}

// Load resolves name to a built-in preset, or failing that, a file path.
func Load(name string) (qr.Style, error) {
	if f, err := builtin.Open(path.Join("builtin", name+".toml")); err == nil {
		defer f.Close()
		return Decode(f)
	}

	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return qr.Style{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
		}
		return qr.Style{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Save writes s to the file at p, replacing it.
func Save(p string, s qr.Style) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Builtin lists the names of the embedded presets.
func Builtin() []string {
	entries, _ := builtin.ReadDir("builtin")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}
