package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/packscheduler/internal/fileutil"
	"github.com/zjrosen/packscheduler/internal/log"
)

// SaveRecords points the records section at new files. The rest of the
// file, comments included, is left alone.
func SaveRecords(configPath string, records RecordsConfig) error {
	return replaceSection(configPath, "records", records)
}

// SaveFlags replaces the flags section.
func SaveFlags(configPath string, flags map[string]bool) error {
	return replaceSection(configPath, "flags", flags)
}

func replaceSection(configPath, section string, value any) error {
	root, doc, err := readDocument(configPath)
	if err != nil {
		return err
	}

	node := new(yaml.Node)
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", section, err)
	}
	putKey(root, section, node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := fileutil.WriteAtomic(configPath, buf.Bytes(), 0o600); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Config section saved", "path", configPath, "section", section)
	return nil
}

// readDocument parses configPath into a node tree and returns its top-level
// mapping. A missing or empty file yields an empty mapping.
func readDocument(configPath string) (*yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path comes from the user's config flag
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	doc := new(yaml.Node)
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	if doc.Kind == 0 {
		root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
		return root, doc, nil
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("config %s: top level is not a mapping", configPath)
	}
	return doc.Content[0], doc, nil
}

// putKey sets key in mapping, keeping any comments attached to the old value.
func putKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 1; i < len(mapping.Content); i += 2 {
		if mapping.Content[i-1].Value != key {
			continue
		}
		old := mapping.Content[i]
		value.HeadComment, value.LineComment, value.FootComment = old.HeadComment, old.LineComment, old.FootComment
		mapping.Content[i] = value
		return
	}
	mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}
