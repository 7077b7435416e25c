package transcode

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/n0-computer/dasl/drisl"
)

// FromYAML parses a YAML document into a drisl Value. yaml.v3 decodes
// mappings with string keys as map[string]any and scalars as Go
// primitives, so the FromGo mapping applies directly.
func FromYAML(b []byte) (*drisl.Value, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("transcode: parse yaml: %w", err)
	}
	return FromGo(doc)
}
