package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jsparse/js/parser"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestDefaultSettings(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		source parser.SourceType
		syntax parser.Syntax
	}{
		{name: "a.js", syntax: parser.Syntax{JSX: true}},
		{name: "a.jsx", syntax: parser.Syntax{JSX: true}},
		{name: "a.cjs", syntax: parser.Syntax{JSX: true}},
		{name: "a.mjs", source: parser.SourceModule, syntax: parser.Syntax{JSX: true}},
		{name: "a.ts", syntax: parser.Syntax{TS: true}},
		{name: "a.mts", source: parser.SourceModule, syntax: parser.Syntax{TS: true}},
		{name: "a.tsx", syntax: parser.Syntax{TS: true, JSX: true}},
		{name: "a.flow", syntax: parser.Syntax{Flow: true, JSX: true}},
		{name: "A.JS", syntax: parser.Syntax{JSX: true}},
		{name: "p.js", src: "// @flow\nlet a = 1;", syntax: parser.Syntax{JSX: true, Flow: true}},
		{name: "p.js", src: "/**\n * @flow strict\n */\n", syntax: parser.Syntax{JSX: true, Flow: true}},
		{name: "p.js", src: "// header\n\n/* @flow */", syntax: parser.Syntax{JSX: true, Flow: true}},
		{name: "p.js", src: "let a; // @flow", syntax: parser.Syntax{JSX: true}},
		{name: "p.js", src: "// @flowtype", syntax: parser.Syntax{JSX: true}},
		{name: "p.js", src: "/* @flow", syntax: parser.Syntax{JSX: true}},
		{name: "p.ts", src: "// @flow", syntax: parser.Syntax{TS: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.src, func(t *testing.T) {
			got := DefaultSettings(tt.name, tt.src)
			assert.Equal(t, tt.source, got.SourceType)
			assert.Equal(t, tt.syntax, got.Syntax)
		})
	}
}

func TestLoadWithoutConfig(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.js": "a;"})
	p, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), p.Config)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
include: ["src/**/*.js"]
exclude: ["src/vendor/**"]
sourceType: module
overrides:
  - files: ["src/legacy/**"]
    sourceType: script
    jsx: false
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.js"}, cfg.Include)
	assert.Equal(t, "module", cfg.SourceType)
	require.Len(t, cfg.Overrides, 1)
	require.NotNil(t, cfg.Overrides[0].JSX)
	assert.False(t, *cfg.Overrides[0].JSX)
	assert.Nil(t, cfg.Overrides[0].Flow)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Include, cfg.Include)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "includes: [a]", "field includes not found"},
		{"bad glob", "include: ['src/[a']", `include: invalid glob "src/[a"`},
		{"bad source type", "sourceType: commonjs", `sourceType: unknown source type "commonjs"`},
		{"empty override", "overrides: [{jsx: true}]", "overrides[0]: files is empty"},
		{"bad override source", "overrides: [{files: [a], sourceType: x}]", "overrides[0].sourceType"},
		{"flow and ts", "overrides: [{files: [a], flow: true, typescript: true}]", "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	root := writeFiles(t, map[string]string{ConfigFile: "sourceType: nope"})
	_, err := LoadFrom(root)
	assert.ErrorContains(t, err, ConfigFile)
}

func TestFiles(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/b.js":                  "",
		"src/a.ts":                  "",
		"src/nested/c.tsx":          "",
		"src/readme.md":             "",
		"node_modules/dep/index.js": "",
		"src/node_modules/x/y.js":   "",
		"dist/bundle.js":            "",
		"lib.mjs":                   "",
	})
	p, err := LoadFrom(root)
	require.NoError(t, err)

	files, err := p.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"lib.mjs", "src/a.ts", "src/b.js", "src/nested/c.tsx"}, files)

	assert.True(t, p.Includes("src/b.js"))
	assert.False(t, p.Includes("src/readme.md"))
	assert.False(t, p.Includes("node_modules/dep/index.js"))
}

func TestSettingsOverrides(t *testing.T) {
	yes, no := true, false
	p := &Project{Config: &Config{
		Include:    DefaultConfig().Include,
		SourceType: "module",
		Overrides: []Override{
			{Files: []string{"legacy/**"}, SourceType: "script", JSX: &no},
			{Files: []string{"**/*.types.js"}, Flow: &yes},
			{Files: []string{"legacy/typed/**"}, TypeScript: &yes},
		},
	}}

	tests := []struct {
		rel    string
		source parser.SourceType
		syntax parser.Syntax
	}{
		{"app.js", parser.SourceModule, parser.Syntax{JSX: true}},
		{"legacy/old.js", parser.SourceScript, parser.Syntax{}},
		{"lib/a.types.js", parser.SourceModule, parser.Syntax{JSX: true, Flow: true}},
		{"legacy/typed/x.types.js", parser.SourceScript, parser.Syntax{TS: true}},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			s := p.Settings(tt.rel, "")
			assert.Equal(t, tt.source, s.SourceType)
			assert.Equal(t, tt.syntax, s.Syntax)
		})
	}
}

func TestParseFile(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.mjs": "export const x = <b/>;",
		"b.ts":  "let n: number = 1;",
		"c.js":  "let = ;",
	})
	p, err := LoadFrom(root)
	require.NoError(t, err)

	prog, err := p.ParseFile("a.mjs")
	require.NoError(t, err)
	assert.Equal(t, "a.mjs", prog.File)
	assert.Equal(t, parser.SourceModule, prog.SourceType)
	assert.False(t, prog.Corrupt, "%v", prog.Diagnostics)

	prog, err = p.ParseFile("b.ts")
	require.NoError(t, err)
	assert.False(t, prog.Corrupt, "%v", prog.Diagnostics)

	prog, err = p.ParseFile("c.js")
	require.NoError(t, err)
	assert.True(t, prog.Corrupt)

	_, err = p.ParseFile("missing.js")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteConfig(root, DefaultConfig()))

	p, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), p.Config)

	err = WriteConfig(root, DefaultConfig())
	assert.ErrorIs(t, err, os.ErrExist)
}
