package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configurable is the slice of the trainer surface a preset needs: algorithm
// selection and parameter assignment. *trainer.Trainer satisfies it.
type Configurable interface {
	Select(algorithm, modelType string) error
	Set(name string, value any) error
}

// Preset is a declarative trainer configuration, typically loaded from a
// YAML file checked in next to the training corpus:
//
//	algorithm: l2sgd
//	model_type: crf1d
//	params:
//	  c2: 0.01
//	  max_iterations: 500
type Preset struct {
	// Algorithm is the training algorithm name or alias. Required.
	Algorithm string `yaml:"algorithm"`

	// ModelType is the graphical model type. Defaults to "crf1d".
	ModelType string `yaml:"model_type"`

	// Params holds parameter assignments applied after selection. Values
	// keep the loose types the YAML decoder produced; Encode handles the
	// coercion to the engine's string encoding.
	Params map[string]any `yaml:"params"`
}

// ParsePreset decodes a YAML preset document.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	if p.Algorithm == "" {
		return nil, fmt.Errorf("parse preset: missing algorithm")
	}
	if p.ModelType == "" {
		p.ModelType = "crf1d"
	}
	return &p, nil
}

// LoadPreset reads and decodes a YAML preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load preset: %w", err)
	}
	return ParsePreset(data)
}

// Apply selects the preset's algorithm/model-type pair and assigns each
// parameter. Assignment order over the Params map is unspecified; engine
// parameters are independent, so order does not matter.
func (p *Preset) Apply(c Configurable) error {
	if err := c.Select(p.Algorithm, p.ModelType); err != nil {
		return err
	}
	for name, value := range p.Params {
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}
