package flatten

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Policy selects how sources flattening to the same name are handled.
type Policy string

const (
	// PolicyLast keeps only the last source, in sorted order, per target.
	PolicyLast Policy = "last"
	// PolicyFail refuses to plan a mapping with collisions.
	PolicyFail Policy = "fail"
	// PolicySuffix renames later sources with a numeric suffix.
	PolicySuffix Policy = "suffix"
)

// Policies lists the accepted policy names.
var Policies = []Policy{PolicyLast, PolicyFail, PolicySuffix}

// ParsePolicy validates a policy name.
func ParsePolicy(raw string) (Policy, error) {
	name := Policy(strings.ToLower(strings.TrimSpace(raw)))
	for _, p := range Policies {
		if p == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown collision policy %q", raw)
}

// Entry is a single file to write: Source is the original relative path and
// Target the archive entry name.
type Entry struct {
	Source string
	Target string
}

// CollisionError reports sources that flatten to the same target.
type CollisionError struct {
	Target  string
	Sources []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%d entries flatten to %q: %s", len(e.Sources), e.Target, strings.Join(e.Sources, ", "))
}

// Plan returns the entries to write, ordered by source.
func (m Mapping) Plan(policy Policy) ([]Entry, error) {
	collisions := m.Collisions()

	switch policy {
	case PolicyLast, "":
		return m.planLast(collisions), nil
	case PolicyFail:
		if len(collisions) > 0 {
			targets := make([]string, 0, len(collisions))
			for target := range collisions {
				targets = append(targets, target)
			}
			sort.Strings(targets)
			return nil, &CollisionError{Target: targets[0], Sources: collisions[targets[0]]}
		}
		return m.planLast(nil), nil
	case PolicySuffix:
		return m.planSuffix(collisions), nil
	default:
		return nil, fmt.Errorf("unknown collision policy %q", policy)
	}
}

func (m Mapping) planLast(collisions map[string][]string) []Entry {
	entries := make([]Entry, 0, len(m))
	for _, source := range m.Sources() {
		target := m[source]
		if group, ok := collisions[target]; ok && group[len(group)-1] != source {
			continue
		}
		entries = append(entries, Entry{Source: source, Target: target})
	}
	return entries
}

func (m Mapping) planSuffix(collisions map[string][]string) []Entry {
	taken := make(map[string]struct{}, len(m))
	for _, target := range m {
		taken[target] = struct{}{}
	}

	targets := make([]string, 0, len(collisions))
	for target := range collisions {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	renamed := make(map[string]string)
	for _, target := range targets {
		sources := collisions[target]
		for _, source := range sources[1:] {
			candidate := target
			for n := 2; ; n++ {
				candidate = withSuffix(target, n)
				if _, ok := taken[candidate]; !ok {
					break
				}
			}
			taken[candidate] = struct{}{}
			renamed[source] = candidate
		}
	}

	entries := make([]Entry, 0, len(m))
	for _, source := range m.Sources() {
		target := m[source]
		if alt, ok := renamed[source]; ok {
			target = alt
		}
		entries = append(entries, Entry{Source: source, Target: target})
	}
	return entries
}

func withSuffix(name string, n int) string {
	ext := path.Ext(name)
	return fmt.Sprintf("%s%s%d%s", strings.TrimSuffix(name, ext), Joiner, n, ext)
}
