package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
)

// Bindings is the contents of the bindings file: the ordered list of
// trigger-to-action descriptors, plus optional posts to issue once at
// startup for debugging a session.
type Bindings struct {
	Actions    []domain.TriggerBinding `yaml:"actions"`
	DebugCalls []domain.DebugCall      `yaml:"debug_calls"`
}

func LoadBindings(path string) (*Bindings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings file: %w", err)
	}

	var b Bindings
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse bindings file %s: %w", path, err)
	}

	if len(b.Actions) == 0 {
		return nil, errors.New("bindings file defines no actions")
	}
	for i, a := range b.Actions {
		if a.Trigger == "" {
			return nil, fmt.Errorf("action %d has an empty trigger", i)
		}
	}

	return &b, nil
}
