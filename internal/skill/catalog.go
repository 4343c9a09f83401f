package skill

import (
	"sort"
	"strings"
	"sync"
)

// Catalog holds the merged pool of global and user-level skills.
// All operations are thread-safe.
type Catalog struct {
	mu     sync.RWMutex
	skills map[string]*Skill
}

// NewCatalog creates an empty Catalog ready for use.
func NewCatalog() *Catalog {
	return &Catalog{skills: make(map[string]*Skill)}
}

// Load populates the catalog from the global and user skill directories.
// User skills with the same name shadow global ones.
func Load(globalDir, userDir string) (*Catalog, error) {
	c := NewCatalog()

	globals, err := LoadFromDir(globalDir, SourceGlobal)
	if err != nil {
		return nil, err
	}
	for _, s := range globals {
		c.Add(s)
	}

	users, err := LoadFromDir(userDir, SourceUser)
	if err != nil {
		return nil, err
	}
	for _, s := range users {
		c.Add(s)
	}

	return c, nil
}

// Add registers a skill in the catalog, replacing any existing skill with
// the same name.
func (c *Catalog) Add(s *Skill) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skills[s.Name] = s
}

// Get returns a skill by name, or nil if not found.
func (c *Catalog) Get(name string) *Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.skills[name]
}

// List returns every skill sorted by source (global first), then by name.
func (c *Catalog) List() []*Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Match returns the knowledge skills whose trigger appears in the message,
// excluding any skill named in disabled. Matching is case-insensitive
// substring search.
func (c *Catalog) Match(message string, disabled map[string]struct{}) []*Skill {
	lowered := strings.ToLower(message)

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Skill
	for _, s := range c.skills {
		if s.Type != TypeKnowledge {
			continue
		}
		if _, off := disabled[s.Name]; off {
			continue
		}
		for _, trig := range s.Triggers {
			if trig != "" && strings.Contains(lowered, strings.ToLower(trig)) {
				out = append(out, s)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Repo returns the repo-type skills excluding any named in disabled.
// These apply to every conversation rather than matching on triggers.
func (c *Catalog) Repo(disabled map[string]struct{}) []*Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Skill
	for _, s := range c.skills {
		if s.Type != TypeRepo {
			continue
		}
		if _, off := disabled[s.Name]; off {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DisabledSet converts a list of disabled skill names into a set.
func DisabledSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
