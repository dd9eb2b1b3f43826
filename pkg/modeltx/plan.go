package modeltx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
)

// BatchPlan is the YAML shape of a batch the CLI executes. Operations run
// in file order.
type BatchPlan struct {
	Name        string          `yaml:"name"`
	StopOnError bool            `yaml:"stop_on_error"`
	Operations  []PlanOperation `yaml:"operations"`
}

// PlanOperation is one named operation in a plan file.
type PlanOperation struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

// ParsePlan decodes a batch plan from YAML.
func ParsePlan(data []byte) (*BatchPlan, error) {
	var plan BatchPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse batch plan: %w", err)
	}
	if len(plan.Operations) == 0 {
		return nil, fmt.Errorf("parse batch plan: no operations")
	}
	for i, op := range plan.Operations {
		if op.Name == "" {
			return nil, fmt.Errorf("parse batch plan: operation %d has no name", i)
		}
	}
	return &plan, nil
}

// LoadPlan reads a batch plan from a YAML file.
func LoadPlan(path string) (*BatchPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file %s: %w", path, err)
	}
	return ParsePlan(data)
}

// ToOperations converts the plan into the executor's operation list.
func (p *BatchPlan) ToOperations() []core.Operation {
	ops := make([]core.Operation, len(p.Operations))
	for i, op := range p.Operations {
		ops[i] = core.Operation{Name: op.Name, Params: op.Params}
	}
	return ops
}

// Options returns the executor options the plan declares.
func (p *BatchPlan) Options() core.BatchOptions {
	return core.BatchOptions{Name: p.Name, StopOnError: p.StopOnError}
}
