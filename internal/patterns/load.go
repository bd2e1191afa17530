package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Custom pattern files are declarative YAML: a mapping of regex source to
// category label. Example:
//
//	"ERROR|FAIL": GENERIC_ERROR
//	"Timeout":    TIMEOUT
//
// The file never contains executable content; every entry is validated as a
// regex before anything is merged.

// ParseCustom decodes a custom pattern document, preserving the order entries
// appear in the file. It does not touch any registry.
func ParseCustom(data []byte) ([]Pattern, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: err}
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{Reason: fmt.Errorf("pattern file must be a mapping of regex to category")}
	}
	out := make([]Pattern, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, &LoadError{Entry: key.Value, Reason: fmt.Errorf("category must be a string")}
		}
		out = append(out, Pattern{Source: key.Value, Category: val.Value, Origin: OriginCustom})
	}
	return out, nil
}

// LoadCustomFile reads, parses, validates and merges a custom pattern file
// into the registry. The merge is atomic: any invalid entry rejects the whole
// file and leaves the registry exactly as it was. Returns the number of
// patterns loaded.
func (r *Registry) LoadCustomFile(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, &LoadError{Reason: err}
	}
	return r.LoadCustom(b)
}

// LoadCustom is LoadCustomFile for an in-memory document.
func (r *Registry) LoadCustom(data []byte) (int, error) {
	rules, err := ParseCustom(data)
	if err != nil {
		return 0, err
	}
	return r.AddCustom(rules)
}
