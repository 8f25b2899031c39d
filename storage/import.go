package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wtldr/model"
)

// ImportFile is the on-disk format accepted by `wtldr import`.
// JSON documents with the same shape are valid YAML and load too.
//
//	messages:
//	  - platform: onebot
//	    guild_id: "123456"
//	    user_id: "10001"
//	    username: Alice
//	    content: 'look <img src="a.png"/>'
//	    timestamp: 2025-05-01T10:00:00Z
type ImportFile struct {
	Messages []model.StoredMessage `yaml:"messages"`
}

// LoadImportFile reads and decodes an import file.
func LoadImportFile(path string) ([]model.StoredMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return ParseImport(data)
}

// ParseImport decodes an import document.
func ParseImport(data []byte) ([]model.StoredMessage, error) {
	var f ImportFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	for i, msg := range f.Messages {
		if err := validateMessage(msg); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return f.Messages, nil
}
