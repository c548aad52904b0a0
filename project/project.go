package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jsparse/js/parser"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "jsparse.yaml"

// Config is the contents of jsparse.yaml. Paths and globs are relative to
// the project root and use forward slashes.
type Config struct {
	Include    []string   `yaml:"include"`
	Exclude    []string   `yaml:"exclude,omitempty"`
	SourceType string     `yaml:"sourceType,omitempty"`
	Overrides  []Override `yaml:"overrides,omitempty"`
}

// Override adjusts the settings of files matching any of its globs. Unset
// fields keep the value derived so far. Later overrides win.
type Override struct {
	Files      []string `yaml:"files"`
	SourceType string   `yaml:"sourceType,omitempty"`
	JSX        *bool    `yaml:"jsx,omitempty"`
	Flow       *bool    `yaml:"flow,omitempty"`
	TypeScript *bool    `yaml:"typescript,omitempty"`
}

// DefaultConfig is used when a project has no jsparse.yaml.
func DefaultConfig() *Config {
	return &Config{
		Include: []string{"**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts,flow}"},
		Exclude: []string{"**/node_modules/**", "**/dist/**"},
	}
}

// Project is a directory of JavaScript sources and its configuration.
type Project struct {
	RootDir string
	Config  *Config
}

// Load reads the project rooted at the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads the project rooted at rootDir. A missing jsparse.yaml
// yields the default configuration.
func LoadFrom(rootDir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(rootDir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Project{RootDir: rootDir, Config: DefaultConfig()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(rootDir, ConfigFile), err)
	}
	return &Project{RootDir: rootDir, Config: cfg}, nil
}

// ParseConfig decodes and validates a jsparse.yaml document.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultConfig().Include
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the globs and source types.
func (c *Config) Validate() error {
	check := func(field string, globs []string) error {
		for _, g := range globs {
			if !doublestar.ValidatePattern(g) {
				return fmt.Errorf("%s: invalid glob %q", field, g)
			}
		}
		return nil
	}
	if err := check("include", c.Include); err != nil {
		return err
	}
	if err := check("exclude", c.Exclude); err != nil {
		return err
	}
	if c.SourceType != "" {
		if _, err := parser.ParseSourceType(c.SourceType); err != nil {
			return fmt.Errorf("sourceType: %w", err)
		}
	}
	for i, o := range c.Overrides {
		field := fmt.Sprintf("overrides[%d]", i)
		if len(o.Files) == 0 {
			return fmt.Errorf("%s: files is empty", field)
		}
		if err := check(field+".files", o.Files); err != nil {
			return err
		}
		if o.SourceType != "" {
			if _, err := parser.ParseSourceType(o.SourceType); err != nil {
				return fmt.Errorf("%s.sourceType: %w", field, err)
			}
		}
		if o.Flow != nil && o.TypeScript != nil && *o.Flow && *o.TypeScript {
			return fmt.Errorf("%s: flow and typescript are mutually exclusive", field)
		}
	}
	return nil
}

// WriteConfig writes cfg as rootDir/jsparse.yaml. It refuses to replace an
// existing file.
func WriteConfig(rootDir string, cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	name := filepath.Join(rootDir, ConfigFile)
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// Includes reports whether rel, a slash-separated path relative to the
// root, is selected by the include and exclude globs.
func (p *Project) Includes(rel string) bool {
	return matchAny(p.Config.Include, rel) && !matchAny(p.Config.Exclude, rel)
}

// Files lists the project's source files, relative to the root, in sorted
// order.
func (p *Project) Files() ([]string, error) {
	fsys := os.DirFS(p.RootDir)
	seen := map[string]bool{}
	var files []string
	for _, pattern := range p.Config.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || matchAny(p.Config.Exclude, m) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	slices.Sort(files)
	return files, nil
}

// Settings returns the parse settings for rel: extension defaults, then
// the configured source type, then every matching override in order.
func (p *Project) Settings(rel, src string) Settings {
	s := DefaultSettings(rel, src)
	if p.Config.SourceType != "" {
		s.SourceType, _ = parser.ParseSourceType(p.Config.SourceType)
	}
	for _, o := range p.Config.Overrides {
		if !matchAny(o.Files, rel) {
			continue
		}
		if o.SourceType != "" {
			s.SourceType, _ = parser.ParseSourceType(o.SourceType)
		}
		if o.JSX != nil {
			s.Syntax.JSX = *o.JSX
		}
		if o.Flow != nil {
			s.Syntax.Flow = *o.Flow
			if s.Syntax.Flow {
				s.Syntax.TS = false
			}
		}
		if o.TypeScript != nil {
			s.Syntax.TS = *o.TypeScript
			if s.Syntax.TS {
				s.Syntax.Flow = false
			}
		}
	}
	return s
}

// ParseFile reads and parses rel with its settings.
func (p *Project) ParseFile(rel string) (*parser.Program, error) {
	data, err := os.ReadFile(filepath.Join(p.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	src := string(data)
	return parser.Parse(src, p.Settings(rel, src).Options(rel)...), nil
}

func matchAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// Settings select how one file is parsed.
type Settings struct {
	SourceType parser.SourceType
	Syntax     parser.Syntax
}

// Options converts the settings to parser options for the file name.
func (s Settings) Options(name string, extra ...parser.Option) []parser.Option {
	opts := []parser.Option{
		parser.WithFile(name),
		parser.WithSourceType(s.SourceType),
		parser.WithSyntax(s.Syntax),
	}
	return append(opts, extra...)
}

// DefaultSettings derives settings from the file extension and, for plain
// JavaScript, a leading @flow pragma.
func DefaultSettings(name, src string) Settings {
	var s Settings
	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".mjs":
		s.SourceType = parser.SourceModule
		s.Syntax.JSX = true
	case ".ts", ".cts":
		s.Syntax.TS = true
	case ".mts":
		s.SourceType = parser.SourceModule
		s.Syntax.TS = true
	case ".tsx":
		s.Syntax.TS = true
		s.Syntax.JSX = true
	case ".flow":
		s.Syntax.Flow = true
		s.Syntax.JSX = true
	default:
		s.Syntax.JSX = true
		s.Syntax.Flow = hasFlowPragma(src)
	}
	return s
}

// hasFlowPragma reports whether the comments before the first token
// contain @flow.
func hasFlowPragma(src string) bool {
	rest := src
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		var body string
		switch {
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexAny(rest, "\r\n")
			if end < 0 {
				end = len(rest)
			}
			body, rest = rest[2:end], rest[end:]
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest, "*/")
			if end < 0 {
				return false
			}
			body, rest = rest[2:end], rest[end+2:]
		default:
			return false
		}
		for _, field := range strings.Fields(body) {
			if field == "@flow" {
				return true
			}
		}
	}
}
