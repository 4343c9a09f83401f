package skill

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFromDir scans a directory for skill definition subdirectories.
// Each subdirectory should contain a skill.json file describing the skill.
// If dir doesn't exist, returns an empty slice without error so that a
// deployment without user-level skills still works.
func LoadFromDir(dir, source string) ([]*Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading skill directory %s: %w", dir, err)
	}

	var skills []*Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		s, err := loadSkillFromSubdir(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading skill %s: %w", entry.Name(), err)
		}
		if s != nil {
			s.Source = source
			skills = append(skills, s)
		}
	}

	return skills, nil
}

func loadSkillFromSubdir(dir string) (*Skill, error) {
	jsonPath := filepath.Join(dir, "skill.json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading skill.json: %w", err)
	}

	var s Skill
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing skill.json in %s: %w", dir, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(dir)
	}
	if s.Type == "" {
		if len(s.Triggers) > 0 {
			s.Type = TypeKnowledge
		} else {
			s.Type = TypeRepo
		}
	}

	return &s, nil
}
