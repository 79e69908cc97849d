package toggles

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ohler55/ojg/oj"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DeclarationBase is the file name, without extension, of toggle
// declaration files.
const DeclarationBase = "esops.toggles"

// Declaration sections.
const (
	SectionToggles    = "toggles"
	SectionInclude    = "include"
	SectionMergeJSON  = "mergeJson"
	SectionMergeFile  = "mergeFile"
	SectionGitPublish = "gitPublish"
)

// RuleSections lists the sections whose keys are glob patterns.
var RuleSections = []string{SectionInclude, SectionMergeJSON, SectionMergeFile, SectionGitPublish}

var declarationExts = map[string]bool{
	".json":  true,
	".jsonc": true,
	".yaml":  true,
	".yml":   true,
	".toml":  true,
}

// IsDeclaration reports whether path names a toggle declaration file.
func IsDeclaration(p string) bool {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	return declarationExts[ext] && strings.TrimSuffix(base, ext) == DeclarationBase
}

// Rule is one pattern entry of a rule section.
type Rule struct {
	// Section is one of RuleSections.
	Section string
	// Pattern is a doublestar glob relative to the component root.
	Pattern string
	// Value is a bool, or a string naming the toggle that enables the rule.
	Value Value
}

// Key returns the flattened toggle key for the rule.
func (r Rule) Key() string {
	return RuleKey(r.Section, r.Pattern)
}

// RuleKey builds a flattened rule key, e.g. "mergeJson:package.json".
func RuleKey(section, pattern string) string {
	return section + ":" + pattern
}

// SplitRuleKey splits a flattened rule key. ok is false for plain toggles.
func SplitRuleKey(key string) (section, pattern string, ok bool) {
	idx := strings.Index(key, ":")
	if idx < 0 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}

func isRuleSection(s string) bool {
	for _, rs := range RuleSections {
		if rs == s {
			return true
		}
	}
	return false
}

// Declaration is a parsed toggle declaration file.
type Declaration struct {
	// File is the declaration path relative to the component root.
	File string
	// Scope is the directory of the declaration relative to the component
	// root; empty at the root. Rule patterns are prefixed with it.
	Scope string
	// Toggles holds plain toggle defaults.
	Toggles Toggles
	// Rules holds rule entries ordered by section then pattern.
	Rules []Rule
}

// ParseDeclaration decodes a declaration. rel is the slash-separated path
// of the file relative to the component root; its extension selects the
// format.
func ParseDeclaration(rel string, data []byte) (*Declaration, error) {
	doc, err := decode(rel, data)
	if err != nil {
		return nil, err
	}

	scope := path.Dir(rel)
	if scope == "." {
		scope = ""
	}

	decl := &Declaration{
		File:    rel,
		Scope:   scope,
		Toggles: Toggles{},
	}

	sections := make([]string, 0, len(doc))
	for name := range doc {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		entries, ok := doc[name].(map[string]any)
		if !ok {
			if doc[name] == nil {
				continue
			}
			return nil, newParseError(rel, name, "section must be a mapping", nil)
		}

		switch {
		case name == SectionToggles:
			for key, raw := range entries {
				if strings.Contains(key, ":") {
					return nil, newParseError(rel, key, "toggle names cannot contain ':'", nil)
				}
				v, err := ParseValue(raw)
				if err != nil {
					return nil, newParseError(rel, key, "invalid toggle value", err)
				}
				decl.Toggles[key] = v
			}
		case isRuleSection(name):
			rules, err := parseRules(rel, scope, name, entries)
			if err != nil {
				return nil, err
			}
			decl.Rules = append(decl.Rules, rules...)
		default:
			return nil, newParseError(rel, name, "unknown section", nil)
		}
	}

	return decl, nil
}

func parseRules(rel, scope, section string, entries map[string]any) ([]Rule, error) {
	patterns := make([]string, 0, len(entries))
	for p := range entries {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		v, err := ParseValue(entries[p])
		if err != nil {
			return nil, newParseError(rel, RuleKey(section, p), "invalid rule value", err)
		}
		scoped := path.Join(scope, strings.TrimPrefix(p, "/"))
		if !doublestar.ValidatePattern(scoped) {
			return nil, newParseError(rel, RuleKey(section, p), "invalid glob pattern", nil)
		}
		rules = append(rules, Rule{Section: section, Pattern: scoped, Value: v})
	}
	return rules, nil
}

func decode(rel string, data []byte) (map[string]any, error) {
	var doc map[string]any

	switch filepath.Ext(rel) {
	case ".json", ".jsonc":
		parsed, err := oj.Parse(jsonc.ToJSON(data))
		if err != nil {
			return nil, newParseError(rel, "", "invalid JSON", err)
		}
		m, ok := parsed.(map[string]any)
		if !ok {
			return nil, newParseError(rel, "", fmt.Sprintf("declaration must be an object, got %T", parsed), nil)
		}
		doc = m
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, newParseError(rel, "", "invalid YAML", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, newParseError(rel, "", "invalid TOML", err)
		}
	default:
		return nil, newParseError(rel, "", "unsupported declaration format", nil)
	}

	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
