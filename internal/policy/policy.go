// Package policy loads the active workplace-conduct policy from its YAML
// definition. The policy is read once at startup; matching against it is the
// alignment collaborator's job.
package policy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"caseflow/internal/workflow/ports"
)

// Load reads and validates the policy definition at path.
func Load(path string) (ports.Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ports.Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML policy document and validates it.
func Parse(raw []byte) (ports.Policy, error) {
	var p ports.Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return ports.Policy{}, fmt.Errorf("parse policy yaml: %w", err)
	}
	if err := validate(p); err != nil {
		return ports.Policy{}, err
	}
	return p, nil
}

func validate(p ports.Policy) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("policy name is required")
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("policy %q has no sections", p.Name)
	}
	seen := make(map[string]struct{}, len(p.Sections))
	for i, section := range p.Sections {
		if strings.TrimSpace(section.ID) == "" {
			return fmt.Errorf("policy %q: section %d has no id", p.Name, i)
		}
		if _, dup := seen[section.ID]; dup {
			return fmt.Errorf("policy %q: duplicate section id %q", p.Name, section.ID)
		}
		seen[section.ID] = struct{}{}
		if strings.TrimSpace(section.Body) == "" {
			return fmt.Errorf("policy %q: section %q has no body", p.Name, section.ID)
		}
	}
	return nil
}
