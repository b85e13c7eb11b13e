package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/arena/internal/component"
	"gopkg.in/yaml.v3"
)

// ColliderRuleEntry is one named pairing of tag filters from
// collider_rules.yaml. An entity plays the left (right) role when its shape
// carries every tag listed on that side.
type ColliderRuleEntry struct {
	Name  string                    `yaml:"name"`
	Left  []component.CollisionType `yaml:"left"`
	Right []component.CollisionType `yaml:"right"`
	Note  string                    `yaml:"note"`
}

func (e *ColliderRuleEntry) LeftTypes() component.CollisionTypes {
	return component.TypesOf(e.Left...)
}

func (e *ColliderRuleEntry) RightTypes() component.CollisionTypes {
	return component.TypesOf(e.Right...)
}

// LoadColliderRules loads collider_rules.yaml.
func LoadColliderRules(path string) ([]ColliderRuleEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collider rules: %w", err)
	}
	rules, err := ParseColliderRules(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseColliderRules decodes and validates a rule list. Order is preserved;
// it is the evaluation order of the collision pass.
func ParseColliderRules(raw []byte) ([]ColliderRuleEntry, error) {
	var entries []ColliderRuleEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse collider rules: %w", err)
	}
	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("collider rule #%d: missing name", i)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("collider rule %q: duplicate name", e.Name)
		}
		seen[e.Name] = struct{}{}
		if len(e.Left) == 0 || len(e.Right) == 0 {
			return nil, fmt.Errorf("collider rule %q: both left and right need at least one tag", e.Name)
		}
	}
	return entries, nil
}
