package builtin

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/hvppyflow/hfnodes"
)

// SplitTextID is the registry id of the text-split node.
const SplitTextID = "HFSplitText"

// SplitTextNode splits a string into an ordered list of substrings.
type SplitTextNode struct {
	Logger hfnodes.Logger
}

type splitInputs struct {
	Input     string `mapstructure:"input"`
	Delimiter string `mapstructure:"delimiter"`
}

// Schema returns the port schema.
func (n *SplitTextNode) Schema() hfnodes.Schema {
	return hfnodes.Schema{
		Inputs: hfnodes.InputTypes{
			Required: []hfnodes.Input{
				{Name: "input", Type: hfnodes.String, Options: hfnodes.InputOptions{Multiline: true}},
				{Name: "delimiter", Type: hfnodes.String, Options: hfnodes.InputOptions{Default: ","}},
			},
		},
		ReturnTypes:  []hfnodes.IOType{hfnodes.String},
		OutputIsList: []bool{true},
		Category:     categoryMisc,
		Description:  "Splits text on a delimiter, or on whitespace when the delimiter is empty.",
		Function:     "split",
	}
}

// Metadata returns the node metadata.
func (n *SplitTextNode) Metadata() NodeMetadata {
	return NodeMetadata{
		ID:          SplitTextID,
		DisplayName: "Split Text",
		Examples: []Example{
			{
				Name:        "Comma separated",
				Description: "Empty fields are kept",
				Inputs:      hfnodes.Inputs{"input": "a,b,,c", "delimiter": ","},
				Output:      []string{"a", "b", "", "c"},
			},
			{
				Name:        "Whitespace",
				Description: "An empty delimiter splits on runs of whitespace",
				Inputs:      hfnodes.Inputs{"input": "a  b\tc", "delimiter": ""},
				Output:      []string{"a", "b", "c"},
			},
		},
		Since: "1.0.0",
	}
}

// Call splits the input text.
func (n *SplitTextNode) Call(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
	var args splitInputs
	if err := decodeInputs(in, &args); err != nil {
		return hfnodes.Result{}, fmt.Errorf("decode split inputs: %w", err)
	}

	parts := Split(args.Input, args.Delimiter)
	logf(ctx, n.Logger, "split text", "delimiter", args.Delimiter, "parts", len(parts))
	return hfnodes.Result{Outputs: []any{parts}}, nil
}

// Split cuts s at every occurrence of delimiter. An empty delimiter splits
// on runs of whitespace and drops empty segments.
func Split(s, delimiter string) []string {
	if delimiter == "" {
		return strings.FieldsFunc(s, isSpace)
	}
	return strings.Split(s, delimiter)
}

// isSpace extends unicode.IsSpace with the ASCII information separators
// U+001C to U+001F, which text splitting also treats as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}
