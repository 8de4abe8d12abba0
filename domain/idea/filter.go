package idea

import (
	"sort"
	"strings"
)

// Criteria is the set of optional predicates used to narrow an idea list.
// Zero values (empty string, empty slice) mean the clause is inactive.
type Criteria struct {
	Category Category `json:"category,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Status   Status   `json:"status,omitempty"`
	Search   string   `json:"search,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Empty reports whether no clause is active
func (c Criteria) Empty() bool {
	return c.Category == "" && c.Priority == "" && c.Status == "" &&
		c.Search == "" && len(c.Tags) == 0
}

// Filter reduces ideas to those matching every active clause of the
// criteria. The relative order of the input is preserved and the input
// slice is never mutated. Pure: no I/O, no side effects.
func Filter(ideas []Idea, criteria Criteria) []Idea {
	if criteria.Empty() {
		return ideas
	}

	var out []Idea
	for _, i := range ideas {
		if matches(i, criteria) {
			out = append(out, i)
		}
	}
	return out
}

func matches(i Idea, c Criteria) bool {
	if c.Search != "" {
		// Same case folding on needle and haystack, always.
		needle := strings.ToLower(c.Search)
		found := strings.Contains(strings.ToLower(i.Title), needle) ||
			strings.Contains(strings.ToLower(i.Description), needle)
		if !found {
			for _, tag := range i.Tags {
				if strings.Contains(strings.ToLower(tag), needle) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	if c.Category != "" && i.Category != c.Category {
		return false
	}
	if c.Priority != "" && i.Priority != c.Priority {
		return false
	}
	if c.Status != "" && i.Status != c.Status {
		return false
	}

	// Tag clause is inclusive: any one of the requested tags suffices.
	if len(c.Tags) > 0 {
		hasTag := false
		for _, want := range c.Tags {
			for _, have := range i.Tags {
				if have == want {
					hasTag = true
					break
				}
			}
			if hasTag {
				break
			}
		}
		if !hasTag {
			return false
		}
	}

	return true
}

// DistinctTags returns the deduplicated union of all tags across the
// given ideas in ascending lexical order.
func DistinctTags(ideas []Idea) []string {
	seen := make(map[string]struct{})
	for _, i := range ideas {
		for _, tag := range i.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ByCategory returns the ideas in the given category, preserving order
func ByCategory(ideas []Idea, category Category) []Idea {
	var out []Idea
	for _, i := range ideas {
		if i.Category == category {
			out = append(out, i)
		}
	}
	return out
}

// ByStatus returns the ideas with the given status, preserving order
func ByStatus(ideas []Idea, status Status) []Idea {
	var out []Idea
	for _, i := range ideas {
		if i.Status == status {
			out = append(out, i)
		}
	}
	return out
}
