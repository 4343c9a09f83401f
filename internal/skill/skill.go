package skill

// Skill represents a named capability (microagent) that can be enabled or
// disabled per user. Knowledge skills carry trigger phrases; repo and task
// skills apply unconditionally.
type Skill struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"` // "global" or "user"
	Type     string   `json:"type"`   // "knowledge", "repo", or "task"
	Triggers []string `json:"triggers,omitempty"`
}

// Skill types.
const (
	TypeKnowledge = "knowledge"
	TypeRepo      = "repo"
	TypeTask      = "task"
)

// Skill sources.
const (
	SourceGlobal = "global"
	SourceUser   = "user"
)
