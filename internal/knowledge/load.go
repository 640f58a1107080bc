package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML knowledge file. Environment variables referenced as
// ${VAR_NAME} are expanded before parsing. Sections the file leaves out
// fall back to the built-in definition.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}

	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return New(def)
}

// ParseDefinition parses YAML into a definition, filling omitted sections
// from the built-in definition
func ParseDefinition(data []byte) (Definition, error) {
	content := os.ExpandEnv(string(data))

	var def Definition
	if err := yaml.Unmarshal([]byte(content), &def); err != nil {
		return Definition{}, fmt.Errorf("parse knowledge file: %w", err)
	}

	defaults := DefaultDefinition()
	if def.PiiRules == nil {
		def.PiiRules = defaults.PiiRules
	}
	if def.Glossary == nil {
		def.Glossary = defaults.Glossary
	}
	if def.Lineage == nil {
		def.Lineage = defaults.Lineage
	}
	if def.Layers == nil {
		def.Layers = defaults.Layers
	}
	return def, nil
}
