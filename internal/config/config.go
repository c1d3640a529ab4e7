package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Process count bounds.
const (
	MinProcesses = 1
	MaxProcesses = 6
)

// DefaultPath is used when no configuration path is given on the command line.
const DefaultPath = "runner.yaml"

// Defaults applied by Validate.
const (
	DefaultMaxLines    = 10000
	DefaultGracePeriod = 200 * time.Millisecond
)

// Process describes one supervised child process.
type Process struct {
	// Name is the pane title and the unique key of the process.
	Name string `yaml:"name" toml:"name"`

	// Command is the executable to run. It is resolved through PATH.
	Command string `yaml:"command" toml:"command"`

	// Args are passed to the command verbatim.
	Args []string `yaml:"args" toml:"args"`

	// Cwd is the working directory. Empty inherits the runner's directory.
	Cwd string `yaml:"cwd" toml:"cwd"`

	// Color is an optional hex accent color for the pane border.
	Color string `yaml:"color,omitempty" toml:"color,omitempty"`
}

// Accent returns the parsed accent color and whether one was configured.
func (p Process) Accent() (colorful.Color, bool) {
	if p.Color == "" {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(p.Color)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// Config is the validated runner configuration.
type Config struct {
	// Processes are the supervised processes in pane order.
	Processes []Process `yaml:"processes" toml:"processes"`

	// MaxLines caps the number of lines retained per pane.
	MaxLines int `yaml:"max_lines,omitempty" toml:"max_lines,omitempty"`

	// GracePeriod bounds how long teardown waits for children to die,
	// as a Go duration string.
	GracePeriod string `yaml:"grace_period,omitempty" toml:"grace_period,omitempty"`

	// Path is the file the configuration was loaded from.
	Path string `yaml:"-" toml:"-"`
}

// Grace returns the teardown grace period.
func (c *Config) Grace() time.Duration {
	if c.GracePeriod == "" {
		return DefaultGracePeriod
	}
	d, err := time.ParseDuration(c.GracePeriod)
	if err != nil || d <= 0 {
		return DefaultGracePeriod
	}
	return d
}

// Names returns the process names in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Processes))
	for i, p := range c.Processes {
		names[i] = p.Name
	}
	return names
}

// Load reads, decodes and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates configuration data. The format is chosen
// from the extension of source.
func Parse(source string, data []byte) (*Config, error) {
	var cfg Config

	switch format := formatFor(source); format {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, &ParseError{Path: source, Format: format, Message: err.Error(), Err: err}
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: source, Format: format, Message: err.Error(), Err: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if n := len(c.Processes); n < MinProcesses || n > MaxProcesses {
		return &BoundsError{Count: n, Min: MinProcesses, Max: MaxProcesses}
	}

	if c.MaxLines < 0 {
		return &ValidationError{Index: -1, Field: "max_lines", Message: "must not be negative"}
	}
	if c.MaxLines == 0 {
		c.MaxLines = DefaultMaxLines
	}

	if c.GracePeriod != "" {
		d, err := time.ParseDuration(c.GracePeriod)
		if err != nil {
			return &ValidationError{Index: -1, Field: "grace_period", Message: err.Error()}
		}
		if d <= 0 {
			return &ValidationError{Index: -1, Field: "grace_period", Message: "must be positive"}
		}
	}

	seen := make(map[string]int, len(c.Processes))
	for i := range c.Processes {
		p := &c.Processes[i]
		p.Name = strings.TrimSpace(p.Name)

		if p.Name == "" {
			return &ValidationError{Index: i, Field: "name", Message: "must not be empty"}
		}
		if prev, ok := seen[p.Name]; ok {
			return &ValidationError{Index: i, Field: "name", Message: fmt.Sprintf("duplicate of processes[%d]", prev)}
		}
		seen[p.Name] = i

		if strings.TrimSpace(p.Command) == "" {
			return &ValidationError{Index: i, Field: "command", Message: "must not be empty"}
		}
		if p.Color != "" {
			if _, err := colorful.Hex(p.Color); err != nil {
				return &ValidationError{Index: i, Field: "color", Message: fmt.Sprintf("invalid hex color %q", p.Color)}
			}
		}
	}

	return nil
}

func formatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}
