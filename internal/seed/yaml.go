package seed

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/moyu/internal/models"
)

// yamlDocument accepts either a bare list of units or {units: [...]}.
type yamlDocument struct {
	Units []*models.KnowledgeUnit `yaml:"units"`
}

func loadYAML(content []byte) ([]*models.KnowledgeUnit, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return []*models.KnowledgeUnit{}, nil
	}
	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var units []*models.KnowledgeUnit
		if err := node.Decode(&units); err != nil {
			return nil, fmt.Errorf("decode units: %w", err)
		}
		return units, nil
	case yaml.MappingNode:
		var doc yamlDocument
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode units: %w", err)
		}
		return doc.Units, nil
	default:
		return nil, fmt.Errorf("line %d: seed YAML must be a list of units", node.Line)
	}
}
