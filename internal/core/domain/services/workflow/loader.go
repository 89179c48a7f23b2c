package workflow

import (
	"bytes"
	"fmt"
	"os"

	"orderportal/internal/core/domain/model/kernel"

	yamlv3 "gopkg.in/yaml.v3"
)

// yamlStatus is the on-disk shape of a status record.
type yamlStatus struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Enabled     bool     `yaml:"enabled"`
	Initial     bool     `yaml:"initial"`
	Action      string   `yaml:"action"`
	Edit        []string `yaml:"edit"`
	Attach      []string `yaml:"attach"`
}

// yamlTransition is the on-disk shape of a transition record.
// Require accepts only the value "valid" (or nothing).
type yamlTransition struct {
	Source     string   `yaml:"source"`
	Targets    []string `yaml:"targets"`
	Permission []string `yaml:"permission"`
	Require    string   `yaml:"require"`
}

type yamlWorkflow struct {
	Statuses    []yamlStatus     `yaml:"statuses"`
	Transitions []yamlTransition `yaml:"transitions"`
}

// LoadConfig reads a workflow configuration from a YAML file and freezes
// it into a Config. Any defect (unreadable file, unknown role or require
// value, or a violation of the NewConfig rules) is a startup-fatal
// configuration error.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
	}
	return ParseConfig(content)
}

// ParseConfig parses and validates a YAML workflow configuration.
func ParseConfig(content []byte) (*Config, error) {
	var doc yamlWorkflow
	decoder := yamlv3.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrConfiguration, err)
	}

	statuses := make([]StatusDefinition, 0, len(doc.Statuses))
	for _, ys := range doc.Statuses {
		edit, err := parseRoles(ys.Edit)
		if err != nil {
			return nil, fmt.Errorf("%w: status %q: %v", ErrConfiguration, ys.ID, err)
		}
		attach, err := parseRoles(ys.Attach)
		if err != nil {
			return nil, fmt.Errorf("%w: status %q: %v", ErrConfiguration, ys.ID, err)
		}
		statuses = append(statuses, StatusDefinition{
			ID:          ys.ID,
			Description: ys.Description,
			Enabled:     ys.Enabled,
			Initial:     ys.Initial,
			Action:      ys.Action,
			EditRoles:   edit,
			AttachRoles: attach,
		})
	}

	transitions := make([]TransitionDefinition, 0, len(doc.Transitions))
	for _, yt := range doc.Transitions {
		if yt.Require != "" && yt.Require != "valid" {
			return nil, fmt.Errorf("%w: transition from %q: unknown require value %q",
				ErrConfiguration, yt.Source, yt.Require)
		}
		roles, err := parseRoles(yt.Permission)
		if err != nil {
			return nil, fmt.Errorf("%w: transition from %q: %v", ErrConfiguration, yt.Source, err)
		}
		transitions = append(transitions, TransitionDefinition{
			Source:       yt.Source,
			Targets:      yt.Targets,
			Roles:        roles,
			RequireValid: yt.Require == "valid",
		})
	}

	return NewConfig(statuses, transitions)
}

func parseRoles(names []string) ([]kernel.Role, error) {
	roles := make([]kernel.Role, 0, len(names))
	for _, name := range names {
		role, err := kernel.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
