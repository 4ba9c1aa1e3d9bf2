package contextsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a context file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML, FormatHCL}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", domain.NewError(domain.KindConfiguration, "detect context format", path,
		fmt.Errorf("unsupported extension %q", filepath.Ext(path)))
}

// Load reads and parses a context file. It fails with KindIo when the file
// cannot be read and KindParse when its content is malformed.
func Load(path string, format Format) (domain.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.KindIo, "read context", path, err)
	}
	value, err := Parse(data, format, path)
	if err != nil {
		return nil, domain.NewError(domain.KindParse, "parse context", path, err)
	}
	return value, nil
}

// Parse decodes data in the given format. filename is only used for diagnostics.
// The top-level document must be a mapping.
func Parse(data []byte, format Format, filename string) (domain.Value, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		if raw == nil {
			return domain.Value{}, nil
		}
		return bridge(raw)
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		if raw == nil {
			return domain.Value{}, nil
		}
		if _, ok := raw.(map[string]any); !ok {
			return nil, fmt.Errorf("yaml: top-level document must be a mapping, got %T", raw)
		}
		return bridge(raw)
	case FormatHCL:
		return decodeHCL(data, filename)
	}
	return nil, fmt.Errorf("unsupported context format %q", format)
}

func decodeJSON(data []byte) (domain.Value, error) {
	var value domain.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if value == nil {
		// A literal null document
		return nil, fmt.Errorf("json: top-level document must be an object")
	}
	return value, nil
}

// bridge converts a natively decoded document into the shared Value shape by
// round-tripping it through JSON. Numbers become float64, datetimes become
// RFC 3339 strings, and format-specific map types disappear.
func bridge(raw any) (domain.Value, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("convert to context value: %w", err)
	}
	return decodeJSON(buf.Bytes())
}

// decodeHCL reads a body made only of attributes. Objects and lists are written
// with HCL expression syntax (`site = { title = "Docs" }`); blocks, variables and
// function calls are rejected.
func decodeHCL(data []byte, filename string) (domain.Value, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		values[name] = val
	}

	encoded, err := json.Marshal(ctyjson.SimpleJSONValue{Value: cty.ObjectVal(values)})
	if err != nil {
		return nil, fmt.Errorf("hcl: %w", err)
	}
	return decodeJSON(encoded)
}
