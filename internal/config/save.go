package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settable lists the config keys `attend config set` accepts.
var Settable = []string{
	"data_dir",
	"catalog_path",
	"identity.base_url",
	"identity.api_key",
	"tracing.enabled",
	"tracing.exporter",
	"tracing.file_path",
	"tracing.otlp_endpoint",
}

// SaveValue updates a single dotted-key setting in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveValue(configPath, key, value string) error {
	if !isSettable(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user-chosen config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config file is not a YAML mapping")
	}

	setNested(doc.Content[0], strings.Split(key, "."), value)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

func isSettable(key string) bool {
	for _, k := range Settable {
		if k == key {
			return true
		}
	}
	return false
}

// setNested walks the key path through mapping nodes, creating missing
// sections, and sets the leaf scalar.
func setNested(mapping *yaml.Node, path []string, value string) {
	key := path[0]

	var valueNode *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			valueNode = mapping.Content[i+1]
			break
		}
	}

	if len(path) == 1 {
		leaf := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
		if value == "true" || value == "false" {
			leaf.Tag = "!!bool"
		}
		if valueNode != nil {
			*valueNode = *leaf
			return
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			leaf,
		)
		return
	}

	if valueNode == nil || valueNode.Kind != yaml.MappingNode {
		section := &yaml.Node{Kind: yaml.MappingNode}
		if valueNode != nil {
			*valueNode = *section
			setNested(valueNode, path[1:], value)
			return
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			section,
		)
		setNested(section, path[1:], value)
		return
	}

	setNested(valueNode, path[1:], value)
}

// writeAtomic writes to a temp file in the target directory, then renames.
func writeAtomic(configPath string, content []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".attend.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(content); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
