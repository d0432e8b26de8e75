package builtin

import (
	"context"

	"github.com/mitchellh/mapstructure"

	"github.com/hvppyflow/hfnodes"
)

// NodeMetadata describes a node type beyond its port schema.
type NodeMetadata struct {
	ID          string    `json:"id" yaml:"id"`
	DisplayName string    `json:"displayName" yaml:"displayName"`
	Examples    []Example `json:"examples,omitempty" yaml:"examples,omitempty"`
	Since       string    `json:"since,omitempty" yaml:"since,omitempty"`
}

// Example shows how to use a node.
type Example struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Inputs      hfnodes.Inputs   `json:"inputs" yaml:"inputs"`
	Output      any              `json:"output,omitempty" yaml:"output,omitempty"`
	UI          map[string][]any `json:"ui,omitempty" yaml:"ui,omitempty"`
}

// Described is implemented by every builtin node.
type Described interface {
	hfnodes.Node
	Metadata() NodeMetadata
}

// decodeInputs copies keyword inputs into a typed struct.
func decodeInputs(in hfnodes.Inputs, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(in))
}

func loggerOrNop(l hfnodes.Logger) hfnodes.Logger {
	if l == nil {
		return hfnodes.NopLogger{}
	}
	return l
}

func logf(ctx context.Context, l hfnodes.Logger, msg string, kv ...any) {
	loggerOrNop(l).Debug(ctx, msg, kv...)
}
