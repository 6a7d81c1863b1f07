package managedgit

// Tag is a named pointer to a commit.
type Tag struct {
	Name string `json:"name" yaml:"name"`
}

// TagSet is an ordered tag sequence; index 0 is the most recent by provider
// convention.
type TagSet struct {
	Tags []Tag `json:"tags" yaml:"tags"`
}

// NewTagSet builds a TagSet from names, keeping their order.
func NewTagSet(names ...string) *TagSet {
	ts := &TagSet{Tags: make([]Tag, 0, len(names))}
	for _, n := range names {
		ts.Tags = append(ts.Tags, Tag{Name: n})
	}
	return ts
}

// Len returns the number of tags. A nil set has none.
func (ts *TagSet) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Tags)
}

// Latest returns the first tag. It reports false for a nil or empty set.
func (ts *TagSet) Latest() (Tag, bool) {
	if ts.Len() == 0 {
		return Tag{}, false
	}
	return ts.Tags[0], true
}

// Names returns the tag names in order.
func (ts *TagSet) Names() []string {
	out := make([]string, 0, ts.Len())
	if ts == nil {
		return out
	}
	for _, t := range ts.Tags {
		out = append(out, t.Name)
	}
	return out
}
