package toggles

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tacogips/esops/internal/component"
	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
)

// OverridesFile names caller-supplied toggles in errors.
const OverridesFile = "overrides"

// Resolution is the outcome of resolving a component's toggles.
type Resolution struct {
	// FilesWithoutToggles are the content files to render, in walk order.
	FilesWithoutToggles []string
	// Toggles is the final toggle set: parsed defaults with overrides applied.
	Toggles Toggles
	// Declarations are the declaration files found, relative to the root.
	Declarations []string
	// Excluded are relative paths dropped by include rules.
	Excluded []string
	// Undeclared are toggle names referenced by rules but never declared.
	Undeclared []string
}

// Resolver reads and merges toggle declarations.
type Resolver struct {
	fs fsys.FS
}

// NewResolver creates a Resolver.
func NewResolver(fs fsys.FS) *Resolver {
	return &Resolver{fs: fs}
}

// Resolve partitions files (absolute paths under root, in walk order) into
// declarations and content, parses the declarations, applies overrides, and
// drops content excluded by include rules.
func (r *Resolver) Resolve(root string, files []string, overrides Toggles) (*Resolution, error) {
	debug.Debug("[toggles] Resolving toggles for %d files under %s", len(files), root)

	var declarations, content []string
	for _, f := range files {
		if IsDeclaration(f) {
			declarations = append(declarations, f)
		} else {
			content = append(content, f)
		}
	}

	res := &Resolution{}
	defaults := Toggles{}
	origin := map[string]string{}

	for _, f := range declarations {
		rel, err := component.RelativePath(root, f)
		if err != nil {
			return nil, &ToggleError{Type: ToggleReadFailed, Message: "failed to relativize declaration", File: f, Cause: err}
		}
		data, err := r.fs.ReadFile(f)
		if err != nil {
			return nil, &ToggleError{Type: ToggleReadFailed, Message: "failed to read declaration", File: rel, Cause: err}
		}
		decl, err := ParseDeclaration(rel, data)
		if err != nil {
			return nil, err
		}
		debug.Debug("[toggles] Declaration %s: %d toggles, %d rules", rel, len(decl.Toggles), len(decl.Rules))
		res.Declarations = append(res.Declarations, rel)

		for _, key := range decl.Toggles.Keys() {
			if err := setDefault(defaults, origin, key, decl.Toggles[key], rel); err != nil {
				return nil, err
			}
		}
		for _, rule := range decl.Rules {
			if err := setDefault(defaults, origin, rule.Key(), rule.Value, rel); err != nil {
				return nil, err
			}
		}
	}

	if err := validateOverrides(overrides); err != nil {
		return nil, err
	}

	res.Toggles = defaults.With(overrides)
	res.Undeclared = undeclaredReferences(res.Toggles)
	for _, name := range res.Undeclared {
		debug.Warn("toggle %q is referenced by a rule but never declared; treating it as false", name)
	}

	for _, f := range content {
		rel, err := component.RelativePath(root, f)
		if err != nil {
			return nil, &ToggleError{Type: ToggleReadFailed, Message: "failed to relativize file", File: f, Cause: err}
		}
		if !Included(res.Toggles, rel) {
			debug.Debug("[toggles] Excluding %s (include rule disabled)", rel)
			res.Excluded = append(res.Excluded, rel)
			continue
		}
		res.FilesWithoutToggles = append(res.FilesWithoutToggles, f)
	}

	debug.Debug("[toggles] Resolved %d toggles, %d files kept, %d excluded",
		len(res.Toggles), len(res.FilesWithoutToggles), len(res.Excluded))
	return res, nil
}

func setDefault(defaults Toggles, origin map[string]string, key string, v Value, file string) error {
	if prev, ok := defaults[key]; ok && prev != v {
		return newParseError(file, key,
			"conflicting default (already declared as "+prev.String()+" in "+origin[key]+")", nil)
	}
	defaults[key] = v
	origin[key] = file
	return nil
}

func validateOverrides(overrides Toggles) error {
	for _, key := range overrides.Keys() {
		section, pattern, ok := SplitRuleKey(key)
		if !ok {
			continue
		}
		if !isRuleSection(section) {
			return newParseError(OverridesFile, key, "unknown rule section", nil)
		}
		if !doublestar.ValidatePattern(pattern) {
			return newParseError(OverridesFile, key, "invalid glob pattern", nil)
		}
	}
	return nil
}

func undeclaredReferences(t Toggles) []string {
	seen := map[string]bool{}
	for key, v := range t {
		if _, _, ok := SplitRuleKey(key); !ok || !v.IsString() {
			continue
		}
		if _, declared := t[v.Str()]; !declared {
			seen[v.Str()] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
