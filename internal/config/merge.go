package config

// mergeActiveSubproject implements spec.md §6's multi-module composition:
// when :active-subproject names a subproject in :subprojects, list-valued
// keys concatenate (subproject entries first so subproject-specific
// sources/deps take search priority), scalar keys let the subproject
// override the main project, and dependencies named in
// :depends-on-modules are merged transitively.
func mergeActiveSubproject(cfg *Config) *Config {
	if cfg.ActiveSubproject == "" {
		return cfg
	}
	sp, ok := findSubproject(cfg.Subprojects, cfg.ActiveSubproject)
	if !ok {
		return cfg
	}

	merged := *cfg
	merged.Name = overrideString(sp.Name, cfg.Name)
	merged.ModuleName = overrideString(sp.ModuleName, cfg.ModuleName)
	merged.SourceRoots = concat(sp.SourceRoots, cfg.SourceRoots)
	merged.CompileDeps = concat(sp.CompileDeps, cfg.CompileDeps)
	merged.CompileJars = concat(sp.CompileJars, cfg.CompileJars)
	merged.RuntimeDeps = concat(sp.RuntimeDeps, cfg.RuntimeDeps)
	merged.RuntimeJars = concat(sp.RuntimeJars, cfg.RuntimeJars)
	merged.TestDeps = concat(sp.TestDeps, cfg.TestDeps)

	seen := map[string]bool{sp.ModuleName: true}
	queue := append([]string{}, sp.DependsOnModules...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		dep, ok := findSubproject(cfg.Subprojects, name)
		if !ok {
			continue
		}
		merged.CompileDeps = concat(merged.CompileDeps, dep.CompileDeps)
		merged.CompileJars = concat(merged.CompileJars, dep.CompileJars)
		merged.RuntimeDeps = concat(merged.RuntimeDeps, dep.RuntimeDeps)
		merged.RuntimeJars = concat(merged.RuntimeJars, dep.RuntimeJars)
		merged.TestDeps = concat(merged.TestDeps, dep.TestDeps)
		merged.SourceRoots = concat(merged.SourceRoots, dep.SourceRoots)
		queue = append(queue, dep.DependsOnModules...)
	}

	return &merged
}

func findSubproject(subs []Subproject, name string) (Subproject, bool) {
	for _, s := range subs {
		if s.ModuleName == name {
			return s, true
		}
	}
	return Subproject{}, false
}

func overrideString(subprojectValue, mainValue string) string {
	if subprojectValue != "" {
		return subprojectValue
	}
	return mainValue
}

func concat(a, b []string) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
