package contract

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Load reads a contract from a YAML file and validates it.
func Load(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a contract from YAML (or JSON, which is a YAML subset) and
// validates it. The field names match the control-plane wire format, so a
// serialized contract round-trips unchanged.
func Parse(data []byte) (*Contract, error) {
	var c Contract
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse contract: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseUnvalidated decodes a contract from YAML without validating it.
// Callers that fill in identity fields later (project, credential) validate
// on submission instead.
func ParseUnvalidated(data []byte) (*Contract, error) {
	var c Contract
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse contract: %w", err)
	}
	return &c, nil
}

// Marshal serializes the contract to YAML using the wire-format field names.
func (c *Contract) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize contract: %w", err)
	}
	return data, nil
}

// Save writes the contract as YAML to path.
func (c *Contract) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write contract file: %w", err)
	}
	return nil
}
