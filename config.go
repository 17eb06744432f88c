package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options are the job settings, loadable from a YAML file and overridable
// per-flag on the command line.
type Options struct {
	Origin     [3]int     `yaml:"origin"`
	Offset     [3]float64 `yaml:"offset"`
	IncludeAir bool       `yaml:"include_air"`
	Namespace  string     `yaml:"namespace"`
	AirBlock   string     `yaml:"air_block"`
}

func loadOptions(path string) (*Options, error) {
	opts := &Options{}
	if path == "" {
		return opts, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, opts); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, nil
}

// parseOffset parses a comma-separated x,y,z triple.
func parseOffset(s string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("offset %q: want x,y,z", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("offset %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
