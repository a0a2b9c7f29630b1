package content

import "strings"

// Rule replaces a whole line left behind by the export tool.
//
// Exactly one of Contains or Equals should be set; a rule with both matches
// when either condition holds. A matching line is replaced by Replace.
type Rule struct {
	Name     string `yaml:"name"`
	Contains string `yaml:"contains,omitempty"`
	Equals   string `yaml:"equals,omitempty"`
	Replace  string `yaml:"replace"`
}

// Match reports whether the rule applies to line.
func (r Rule) Match(line string) bool {
	if r.Equals != "" && line == r.Equals {
		return true
	}
	return r.Contains != "" && strings.Contains(line, r.Contains)
}

// DefaultArtifacts lists the known export-tool artifacts: the stray link to the
// front page image and the lone break-tag placeholder line.
func DefaultArtifacts() []Rule {
	return []Rule{
		{
			Name:     "front-page-image",
			Contains: "[Front Page (Image)](Front_Page_(Image).md)",
		},
		{
			Name:   "lone-break",
			Equals: " <br/>",
		},
	}
}
