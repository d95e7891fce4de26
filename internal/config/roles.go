package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role describes a custom assistant focus loaded from a roles file.
// Name is optional; when present it prefixes the focus in prompts and the
// research plan ("Economic Analyst: market sizing and cost structures").
type Role struct {
	Name  string `yaml:"name"`
	Focus string `yaml:"focus"`
}

// roleFile is the on-disk YAML structure of a --roles file.
type roleFile struct {
	Roles []Role `yaml:"roles"`
}

// String renders the role as the focus line used in prompts.
func (r Role) String() string {
	if r.Name != "" {
		return r.Name + ": " + r.Focus
	}
	return r.Focus
}

// LoadRoles reads a YAML roles file and returns the focus lines in order.
// Entries with an empty focus are rejected so a malformed file fails loudly
// instead of silently producing unfocused assistants.
func LoadRoles(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}

	var rf roleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roles file %s: %w", path, err)
	}
	if len(rf.Roles) == 0 {
		return nil, fmt.Errorf("roles file %s defines no roles", path)
	}

	focuses := make([]string, 0, len(rf.Roles))
	for i, role := range rf.Roles {
		if strings.TrimSpace(role.Focus) == "" {
			return nil, fmt.Errorf("roles file %s: role %d has an empty focus", path, i+1)
		}
		focuses = append(focuses, role.String())
	}
	return focuses, nil
}
