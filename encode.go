package scorm

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
)

const yamlIndent = 2

// EncodeManifest манифест в формате json (каноническая форма) или yaml
func EncodeManifest(m *manifest.Manifest, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return manifest.Canonical(m)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(yamlIndent)
		if err := enc.Encode(m); err != nil {
			return nil, errors.Wrap(err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encode yaml")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}
}
