package loader

import (
	"bytes"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

// Manifest selects a registered suite and its per-run settings.
type Manifest struct {
	// Suite names a suite registered via Register.
	Suite string `yaml:"suite"`
	// Timeout is a Go duration string ("500ms", "5s"). Empty means the
	// engine default.
	Timeout string `yaml:"timeout,omitempty"`
	// Config is handed to runnables as the run config map.
	Config map[string]any `yaml:"config,omitempty"`
}

// manifestSchema is the CUE contract every manifest must satisfy before
// decoding. Closed so typos ("timout:", "confg:") are rejected with a
// position instead of being silently dropped.
const manifestSchema = `
#Manifest: close({
	suite:    string & !=""
	timeout?: string & =~"^[0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h)$"
	config?: {[string]: _}
})
`

var schemaOnce = sync.OnceValues(func() (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(manifestSchema)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile manifest schema: %w", err)
	}
	schema := v.LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("lookup manifest schema: %w", err)
	}
	return schema, nil
})

// validateManifest checks one manifest file against the CUE schema.
func validateManifest(path string, data []byte) error {
	schema, err := schemaOnce()
	if err != nil {
		return err
	}
	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	value := schema.Context().BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}

// decodeManifest parses a schema-validated manifest. Unknown fields are
// rejected here too; the CUE pass reports positions, this pass is the
// backstop for values CUE leaves open.
func decodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Suite == "" {
		return nil, fmt.Errorf("invalid manifest: suite is required")
	}
	return &m, nil
}

// ValidateFile checks a manifest without resolving its suite. Used by
// the validate command for development feedback before a run.
func ValidateFile(path string) error {
	m, err := readManifest(path)
	if err != nil {
		return err
	}
	if _, ok := Lookup(m.Suite); !ok {
		return fmt.Errorf("no suite registered under %q", m.Suite)
	}
	return nil
}
