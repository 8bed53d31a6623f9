package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

//go:embed data/*.json
var builtinData embed.FS

// SchemaError reports a catalog file whose shape does not match the fixed
// slot schema. Missing keys are errors so that "empty OID" stays an
// intentional statement, never an accident of a typo.
type SchemaError struct {
	File  string
	Model string
	Key   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog %s: model %q: missing required key %q", e.File, e.Model, e.Key)
}

// rawSlot mirrors OidSlot with pointers so missing keys are detectable.
type rawSlot struct {
	Level    *string `json:"level"`
	MaxLevel *string `json:"max_level"`
}

type rawColorSet struct {
	Black   *rawSlot `json:"black"`
	Cyan    *rawSlot `json:"cyan"`
	Magenta *rawSlot `json:"magenta"`
	Yellow  *rawSlot `json:"yellow"`
}

type rawEntry struct {
	Info *struct {
		SerialNumber string `json:"serial_number"`
	} `json:"info"`
	Toner     *rawColorSet `json:"toner"`
	Drum      *rawColorSet `json:"drum"`
	Fuser     *rawSlot     `json:"fuser"`
	Reservoir *rawSlot     `json:"reservoir"`
	Metrics   *MetricOids  `json:"metrics"`
}

// Load builds a catalog from the built-in data plus, when dir is non-empty,
// every *.json file found there. External files win over built-ins for the
// same model name.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{entries: map[string]*Entry{}}

	if err := loadFS(c, builtinData, "data"); err != nil {
		return nil, err
	}

	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("catalog dir %s: not a directory", dir)
		}
		if err := loadFS(c, os.DirFS(dir), "."); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func loadFS(c *Catalog, fsys fs.FS, root string) error {
	names, err := fs.Glob(fsys, path.Join(root, "*.json"))
	if err != nil {
		return err
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", name, err)
		}
		if err := parseFile(c, name, data); err != nil {
			return err
		}
	}
	return nil
}

func parseFile(c *Catalog, name string, data []byte) error {
	var models map[string]rawEntry
	if err := json.Unmarshal(data, &models); err != nil {
		return fmt.Errorf("catalog %s: %w", name, err)
	}
	for model, raw := range models {
		entry, err := buildEntry(name, model, raw)
		if err != nil {
			return err
		}
		c.entries[model] = entry
	}
	return nil
}

func buildEntry(file, model string, raw rawEntry) (*Entry, error) {
	missing := func(key string) error {
		return &SchemaError{File: file, Model: model, Key: key}
	}

	toner, err := buildColorSet("toner", raw.Toner, missing)
	if err != nil {
		return nil, err
	}
	drum, err := buildColorSet("drum", raw.Drum, missing)
	if err != nil {
		return nil, err
	}
	fuser, err := buildSlot("fuser", raw.Fuser, missing)
	if err != nil {
		return nil, err
	}
	reservoir, err := buildSlot("reservoir", raw.Reservoir, missing)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Toner:     toner,
		Drum:      drum,
		Fuser:     fuser,
		Reservoir: reservoir,
	}
	if raw.Info != nil {
		entry.SerialOID = raw.Info.SerialNumber
	}
	if raw.Metrics != nil {
		entry.Metrics = *raw.Metrics
	}
	return entry, nil
}

func buildColorSet(key string, raw *rawColorSet, missing func(string) error) (ColorSet, error) {
	if raw == nil {
		return ColorSet{}, missing(key)
	}
	var set ColorSet
	colors := []struct {
		name string
		raw  *rawSlot
		dst  *OidSlot
	}{
		{"black", raw.Black, &set.Black},
		{"cyan", raw.Cyan, &set.Cyan},
		{"magenta", raw.Magenta, &set.Magenta},
		{"yellow", raw.Yellow, &set.Yellow},
	}
	for _, c := range colors {
		slot, err := buildSlot(key+"."+c.name, c.raw, missing)
		if err != nil {
			return ColorSet{}, err
		}
		*c.dst = slot
	}
	return set, nil
}

func buildSlot(key string, raw *rawSlot, missing func(string) error) (OidSlot, error) {
	if raw == nil {
		return OidSlot{}, missing(key)
	}
	if raw.Level == nil {
		return OidSlot{}, missing(key + ".level")
	}
	if raw.MaxLevel == nil {
		return OidSlot{}, missing(key + ".max_level")
	}
	return OidSlot{
		Level:    strings.TrimSpace(*raw.Level),
		MaxLevel: strings.TrimSpace(*raw.MaxLevel),
	}, nil
}
