// Package manifest defines the per-file actions that flow from render
// staging into commit, and the ordered list that carries them.
package manifest

import (
	"encoding/json"
	"fmt"
)

// MergeAction is how a file is combined with whatever already exists at its
// destination. Exactly one action applies to a file.
type MergeAction int

const (
	// Override copies the file and fails if the destination already exists.
	Override MergeAction = iota
	// MergeJSON deep-merges the file into an existing JSON document.
	MergeJSON
	// MergeFile appends the file to an existing text file.
	MergeFile
)

// String returns the action name used in reports and logs.
func (a MergeAction) String() string {
	switch a {
	case MergeJSON:
		return "mergeJson"
	case MergeFile:
		return "mergeFile"
	default:
		return "override"
	}
}

// IsMerge reports whether the action merges rather than overrides.
func (a MergeAction) IsMerge() bool {
	return a == MergeJSON || a == MergeFile
}

// MarshalJSON encodes the action by name.
func (a MergeAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an action name.
func (a *MergeAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "mergeJson":
		*a = MergeJSON
	case "mergeFile":
		*a = MergeFile
	case "override":
		*a = Override
	default:
		return fmt.Errorf("unknown merge action %q", s)
	}
	return nil
}

// FileAction is one manifest entry.
type FileAction struct {
	// From is the absolute source path.
	From string `json:"from"`
	// To is the absolute destination path.
	To string `json:"to"`
	// RelativePath is slash-separated and relative to the component root.
	// It doubles as the destination-relative path.
	RelativePath string `json:"relativePath"`
	// Action is the merge policy for this file.
	Action MergeAction `json:"action"`
	// GitPublish keeps the path out of the managed ignore block.
	GitPublish bool `json:"gitPublish"`
	// Success is set once the action has been applied.
	Success bool `json:"success"`
}

// Manifest is an ordered list of file actions. Order is the deterministic
// tree-walk order and every stage preserves it.
type Manifest []FileAction

// RelativePaths returns the relative paths in manifest order.
func (m Manifest) RelativePaths() []string {
	paths := make([]string, 0, len(m))
	for _, a := range m {
		paths = append(paths, a.RelativePath)
	}
	return paths
}

// IgnoreEntries returns the relative paths that are not git-published, in
// manifest order. These are the lines of the managed ignore block.
func (m Manifest) IgnoreEntries() []string {
	paths := make([]string, 0, len(m))
	for _, a := range m {
		if !a.GitPublish {
			paths = append(paths, a.RelativePath)
		}
	}
	return paths
}

// Succeeded returns the number of entries marked successful.
func (m Manifest) Succeeded() int {
	n := 0
	for _, a := range m {
		if a.Success {
			n++
		}
	}
	return n
}
