package toggles

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tacogips/esops/internal/manifest"
)

// Policy is the merge classification of one file.
type Policy struct {
	Action     manifest.MergeAction
	GitPublish bool
}

// Classify decides how the file at rel is merged. mergeJson rules take
// precedence over mergeFile rules; without a truthy match the file is an
// override. GitPublish is decided independently.
func Classify(t Toggles, rel string) Policy {
	p := Policy{Action: manifest.Override}

	switch {
	case t.ruleMatches(SectionMergeJSON, rel):
		p.Action = manifest.MergeJSON
	case t.ruleMatches(SectionMergeFile, rel):
		p.Action = manifest.MergeFile
	}

	p.GitPublish = t.ruleMatches(SectionGitPublish, rel)
	return p
}

// Included reports whether rel survives the include rules. A file that no
// include rule matches is always included; otherwise at least one
// matching rule must be enabled.
func Included(t Toggles, rel string) bool {
	matched := false
	prefix := SectionInclude + ":"
	for key, v := range t {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if ok, _ := doublestar.Match(key[len(prefix):], rel); !ok {
			continue
		}
		if t.ruleEnabled(v) {
			return true
		}
		matched = true
	}
	return !matched
}

func (t Toggles) ruleMatches(section, rel string) bool {
	prefix := section + ":"
	for key, v := range t {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if ok, _ := doublestar.Match(key[len(prefix):], rel); ok && t.ruleEnabled(v) {
			return true
		}
	}
	return false
}

// ruleEnabled evaluates a rule value. A string names another toggle; an
// undeclared name is false.
func (t Toggles) ruleEnabled(v Value) bool {
	if !v.IsString() {
		return v.Truthy()
	}
	ref, ok := t[v.Str()]
	if !ok {
		return false
	}
	return ref.Truthy()
}
