// Package convert round-trips a value tree through YAML, so a loaded
// configuration can be re-emitted in a format other than Apache-style
// text (and a YAML document can seed a tree for Dump). Key order is
// not preserved across a YAML round-trip: gopkg.in/yaml.v2 decodes
// mappings into map[interface{}]interface{}, which Go does not order.
package convert

import (
	"gopkg.in/yaml.v2"

	"github.com/lefeck/apacheconf/tree"
)

// ToYAML renders m as a YAML document.
func ToYAML(m *tree.Map) ([]byte, error) {
	return yaml.Marshal(m.ToNative())
}

// FromYAML parses a YAML document into a value tree.
func FromYAML(data []byte) (*tree.Map, error) {
	var native map[string]interface{}
	if err := yaml.Unmarshal(data, &native); err != nil {
		return nil, err
	}
	return tree.FromNative(native), nil
}
