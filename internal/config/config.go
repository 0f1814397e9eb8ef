// Package config loads the project configuration file described in
// spec.md §6: a keyword-map written in the wire protocol's own
// symbolic-expression dialect, so parsing reuses internal/wire's reader
// rather than pulling in a YAML/TOML library the teacher never needed.
package config

import (
	"os"
	"regexp"

	"github.com/pkg/errors"

	"github.com/adamchandra/ensime/internal/wire"
)

// Config is the immutable-after-load configuration spec.md §3 describes.
type Config struct {
	RootDir string
	Name    string
	Package string

	ModuleName         string
	ActiveSubproject   string
	DependsOnModules   []string
	Version            string

	CompileDeps []string
	CompileJars []string
	RuntimeDeps []string
	RuntimeJars []string
	TestDeps    []string

	SourceRoots          []string
	ReferenceSourceRoots []string

	Target     string
	TestTarget string

	DisableIndexOnStartup       bool
	DisableSourceLoadOnStartup  bool
	DisableScalaJarsOnClasspath bool

	OnlyIncludeInIndex []*regexp.Regexp
	ExcludeFromIndex   []*regexp.Regexp

	CompilerArgs      []string
	BuilderArgs       []string
	JavaCompilerArgs  []string
	JavaCompilerVersion string

	FormattingPrefs map[string]wire.Value

	Subprojects []Subproject
}

// Subproject is one entry of the top-level `:subprojects` list.
type Subproject struct {
	ModuleName       string
	Name             string
	SourceRoots      []string
	CompileDeps      []string
	CompileJars      []string
	RuntimeDeps      []string
	RuntimeJars      []string
	TestDeps         []string
	DependsOnModules []string
}

// Load reads and parses the config file at path, then applies the
// active-subproject merge spec.md §6 describes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	v, err := wire.ParseValue(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}
	cfg, err := parseConfig(v)
	if err != nil {
		return nil, err
	}
	return mergeActiveSubproject(cfg), nil
}

func parseConfig(v wire.Value) (*Config, error) {
	if _, ok := v.AsList(); !ok {
		return nil, errors.New("config file root must be a keyword-map list")
	}
	cfg := &Config{FormattingPrefs: map[string]wire.Value{}}

	get := func(key string) (wire.Value, bool) { return v.KeywordArg(key) }

	if s, ok := stringArg(get, "root-dir"); ok {
		cfg.RootDir = s
	}
	if s, ok := firstStringArg(get, "name", "project-name"); ok {
		cfg.Name = s
	}
	if s, ok := firstStringArg(get, "package", "project-package"); ok {
		cfg.Package = s
	}
	if s, ok := stringArg(get, "module-name"); ok {
		cfg.ModuleName = s
	}
	if s, ok := stringArg(get, "active-subproject"); ok {
		cfg.ActiveSubproject = s
	}
	cfg.DependsOnModules = stringListArg(get, "depends-on-modules")
	if s, ok := stringArg(get, "version"); ok {
		cfg.Version = s
	}
	cfg.CompileDeps = stringListArg(get, "compile-deps")
	cfg.CompileJars = stringListArg(get, "compile-jars")
	cfg.RuntimeDeps = stringListArg(get, "runtime-deps")
	cfg.RuntimeJars = stringListArg(get, "runtime-jars")
	cfg.TestDeps = stringListArg(get, "test-deps")
	cfg.SourceRoots = firstStringListArg(get, "source-roots", "sources")
	cfg.ReferenceSourceRoots = stringListArg(get, "reference-source-roots")
	if s, ok := stringArg(get, "target"); ok {
		cfg.Target = s
	}
	if s, ok := stringArg(get, "test-target"); ok {
		cfg.TestTarget = s
	}
	cfg.DisableIndexOnStartup = boolArg(get, "disable-index-on-startup")
	cfg.DisableSourceLoadOnStartup = boolArg(get, "disable-source-load-on-startup")
	cfg.DisableScalaJarsOnClasspath = boolArg(get, "disable-scala-jars-on-classpath")

	var err error
	cfg.OnlyIncludeInIndex, err = regexListArg(get, "only-include-in-index")
	if err != nil {
		return nil, err
	}
	cfg.ExcludeFromIndex, err = regexListArg(get, "exclude-from-index")
	if err != nil {
		return nil, err
	}

	cfg.CompilerArgs = stringListArg(get, "compiler-args")
	cfg.BuilderArgs = stringListArg(get, "builder-args")
	cfg.JavaCompilerArgs = stringListArg(get, "java-compiler-args")
	if s, ok := stringArg(get, "java-compiler-version"); ok {
		cfg.JavaCompilerVersion = s
	}

	if prefs, ok := get("formatting-prefs"); ok {
		cfg.FormattingPrefs = parsePrefs(prefs)
	}

	if subs, ok := get("subprojects"); ok {
		if subList, ok := subs.AsList(); ok {
			for _, s := range subList {
				cfg.Subprojects = append(cfg.Subprojects, parseSubproject(s))
			}
		}
	}

	return cfg, nil
}

func parseSubproject(v wire.Value) Subproject {
	get := func(key string) (wire.Value, bool) { return v.KeywordArg(key) }
	var sp Subproject
	if s, ok := stringArg(get, "module-name"); ok {
		sp.ModuleName = s
	}
	if s, ok := firstStringArg(get, "name", "project-name"); ok {
		sp.Name = s
	}
	sp.SourceRoots = firstStringListArg(get, "source-roots", "sources")
	sp.CompileDeps = stringListArg(get, "compile-deps")
	sp.CompileJars = stringListArg(get, "compile-jars")
	sp.RuntimeDeps = stringListArg(get, "runtime-deps")
	sp.RuntimeJars = stringListArg(get, "runtime-jars")
	sp.TestDeps = stringListArg(get, "test-deps")
	sp.DependsOnModules = stringListArg(get, "depends-on-modules")
	return sp
}

func parsePrefs(v wire.Value) map[string]wire.Value {
	prefs := map[string]wire.Value{}
	list, ok := v.AsList()
	if !ok {
		return prefs
	}
	for i := 0; i+1 < len(list); i += 2 {
		if list[i].Kind == wire.KindKeyword {
			prefs[list[i].Str] = list[i+1]
		}
	}
	return prefs
}

type lookup func(key string) (wire.Value, bool)

func stringArg(get lookup, key string) (string, bool) {
	v, ok := get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func firstStringArg(get lookup, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := stringArg(get, k); ok {
			return s, true
		}
	}
	return "", false
}

func stringListArg(get lookup, key string) []string {
	v, ok := get(key)
	if !ok {
		return nil
	}
	list, ok := v.AsList()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

func firstStringListArg(get lookup, keys ...string) []string {
	for _, k := range keys {
		if l := stringListArg(get, k); l != nil {
			return l
		}
	}
	return nil
}

func boolArg(get lookup, key string) bool {
	v, ok := get(key)
	if !ok {
		return false
	}
	return v.AsBool()
}

func regexListArg(get lookup, key string) ([]*regexp.Regexp, error) {
	strs := stringListArg(get, key)
	if strs == nil {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(strs))
	for _, s := range strs {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling regex %q", s)
		}
		out = append(out, re)
	}
	return out, nil
}
