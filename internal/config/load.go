package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Load reads an experiment file on top of Default. The format follows the
// file extension: .ini, .yaml/.yml or .toml.
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes an experiment document of the given format (an extension
// with or without the leading dot) and validates it.
func Parse(format string, data []byte) (Experiment, error) {
	exp := Default()
	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "ini":
		err = decodeINI(data, &exp)
	case "yaml", "yml":
		err = decodeYAML(data, &exp)
	case "toml":
		err = decodeTOML(data, &exp)
	default:
		return Experiment{}, fmt.Errorf("config error: unsupported format %q", format)
	}
	if err != nil {
		return Experiment{}, fmt.Errorf("config error: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, err
	}
	return exp, nil
}

func decodeINI(data []byte, exp *Experiment) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return err
	}

	sections := []struct {
		name   string
		target any
	}{
		{"experiment", &exp.Experiment},
		{"cgp", &exp.CGP},
		{"cne", &exp.CNE},
		{"selection", &exp.Selection},
		{"store", &exp.Store},
		{"log", &exp.Log},
	}
	for _, section := range sections {
		if err := cfg.Section(section.name).MapTo(section.target); err != nil {
			return fmt.Errorf("section [%s]: %w", section.name, err)
		}
	}
	return nil
}

func decodeYAML(data []byte, exp *Experiment) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(exp); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, exp *Experiment) error {
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(exp)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}
