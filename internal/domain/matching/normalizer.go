package matching

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

type Skill struct {
	ID       uuid.UUID
	Name     string
	Category string
}

// Aliases maps a skill key to the key of its canonical catalog name.
var Aliases = map[string]string{
	"golang":              "go",
	"js":                  "javascript",
	"ecmascript":          "javascript",
	"ts":                  "typescript",
	"node":                "nodejs",
	"reactjs":             "react",
	"vuejs":               "vue",
	"postgres":            "postgresql",
	"psql":                "postgresql",
	"k8s":                 "kubernetes",
	"amazonwebservices":   "aws",
	"googlecloud":         "gcp",
	"googlecloudplatform": "gcp",
	"py":                  "python",
	"mongo":               "mongodb",
}

// Catalog resolves skill references against the reference skill list.
type Catalog struct {
	byID  map[uuid.UUID]Skill
	byKey map[string]uuid.UUID
}

func NewCatalog(skills []Skill) *Catalog {
	c := &Catalog{
		byID:  make(map[uuid.UUID]Skill, len(skills)),
		byKey: make(map[string]uuid.UUID, len(skills)),
	}
	for _, s := range skills {
		if s.ID == uuid.Nil {
			continue
		}
		c.byID[s.ID] = s
		k := SkillKey(s.Name)
		if k == "" {
			continue
		}
		if prev, ok := c.byKey[k]; ok && bytes.Compare(prev[:], s.ID[:]) <= 0 {
			continue
		}
		c.byKey[k] = s.ID
	}
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

func (c *Catalog) Skill(id uuid.UUID) (Skill, bool) {
	if c == nil {
		return Skill{}, false
	}
	s, ok := c.byID[id]
	return s, ok
}

// Normalize accepts a catalog id or a skill name and returns the canonical id.
func (c *Catalog) Normalize(ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: empty reference", ErrUnknownSkill)
	}
	if c == nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownSkill, ref)
	}

	if id, err := uuid.Parse(ref); err == nil {
		return c.NormalizeID(id)
	}

	k := SkillKey(ref)
	if id, ok := c.byKey[k]; ok {
		return id, nil
	}
	if canonical, ok := Aliases[k]; ok {
		if id, ok := c.byKey[canonical]; ok {
			return id, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownSkill, ref)
}

func (c *Catalog) NormalizeID(id uuid.UUID) (uuid.UUID, error) {
	if c != nil {
		if _, ok := c.byID[id]; ok {
			return id, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownSkill, id)
}

// SkillKey reduces a skill name to its lookup key: lower-case letters, digits, '+' and '#'.
// "Node.js", "node js" and "NodeJS" share the key "nodejs".
func SkillKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '+', r == '#':
			b.WriteRune(r)
		}
	}
	return b.String()
}
