package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// menuYAML is the on-disk form of MenuConfig.
type menuYAML struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
	Border    struct {
		Enable bool `yaml:"enable"`
		Style  any  `yaml:"style,omitempty"`
	} `yaml:"border"`
}

// SaveMenu updates the ui.menu section of the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveMenu(configPath string, m MenuConfig) error {
	var out menuYAML
	out.MaxWidth = m.MaxWidth
	out.MaxHeight = m.MaxHeight
	out.Border.Enable = m.Border.Enable
	out.Border.Style = m.Border.Style

	var menuNode yaml.Node
	if err := menuNode.Encode(out); err != nil {
		return fmt.Errorf("building menu node: %w", err)
	}
	return saveSection(configPath, []string{"ui", "menu"}, &menuNode)
}

// saveSection replaces the value at path in the config file with value,
// creating intermediate mappings as needed.
func saveSection(configPath string, path []string, value *yaml.Node) error {
	// Read existing file content
	data, err := os.ReadFile(configPath)
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
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level must be a mapping")
	}
	if err := setPath(doc.Content[0], path, value); err != nil {
		return err
	}

	// Marshal back to YAML
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// setPath walks mapping nodes along path and replaces or appends the last key.
func setPath(node *yaml.Node, path []string, value *yaml.Node) error {
	key := path[0]
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value != key {
			continue
		}
		if len(path) == 1 {
			// Keep comments attached to the old value.
			value.HeadComment = node.Content[i+1].HeadComment
			value.LineComment = node.Content[i+1].LineComment
			node.Content[i+1] = value
			return nil
		}
		child := node.Content[i+1]
		if child.Kind == yaml.ScalarNode && child.Tag == "!!null" {
			child.Kind = yaml.MappingNode
			child.Tag = ""
			child.Value = ""
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("config key %q is not a mapping", key)
		}
		return setPath(child, path[1:], value)
	}

	if len(path) == 1 {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
		return nil
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
	return setPath(child, path[1:], value)
}

// writeAtomic writes data to path through a temp file and a rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".compleet.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
