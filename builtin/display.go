package builtin

import (
	"context"

	"github.com/hvppyflow/hfnodes"
)

// Registry ids of the passthrough display nodes.
const (
	DebugID        = "HFDebug"
	ShowTextID     = "HFShowTextNode"
	ShowMarkdownID = "HFShowMarkdownNode"
)

// UI payload keys read by the front-end extensions.
const (
	UITextKey     = "text"
	UIMarkdownKey = "markdown"
)

// DisplayNode receives a whole list in one call, forwards it to the host's
// display side-channel and returns it unchanged.
type DisplayNode struct {
	Logger hfnodes.Logger

	meta        NodeMetadata
	port        string
	uiKey       string
	schema      hfnodes.Schema
	fingerprint bool
}

// NewDebug creates the debug print node.
func NewDebug() *DisplayNode {
	return &DisplayNode{
		meta: NodeMetadata{
			ID:          DebugID,
			DisplayName: "Debug",
			Examples: []Example{
				{
					Name:        "Print a list",
					Description: "Values are shown in the node and passed on",
					Inputs:      hfnodes.Inputs{"text": []string{"first", "second"}},
					Output:      []any{"first", "second"},
					UI:          map[string][]any{UITextKey: {"first", "second"}},
				},
			},
			Since: "1.0.0",
		},
		port:  "text",
		uiKey: UITextKey,
		schema: hfnodes.Schema{
			Inputs: hfnodes.InputTypes{
				Required: []hfnodes.Input{
					{Name: "text", Type: hfnodes.String, Options: hfnodes.InputOptions{ForceInput: true}},
				},
				Hidden: []hfnodes.Input{
					{Name: "unique_id", Type: hfnodes.UniqueID},
				},
			},
			ReturnTypes:  []hfnodes.IOType{hfnodes.String},
			InputIsList:  true,
			OutputIsList: []bool{true},
			OutputNode:   true,
			Category:     categoryUtils,
			Description:  "Shows its input in the node and passes it through.",
			Function:     "notify",
		},
		fingerprint: true,
	}
}

// NewShowText creates the show-text node.
func NewShowText() *DisplayNode {
	return newShowNode(ShowTextID, "Show Text", "text", UITextKey, "show_text",
		"Display a list of input strings and pass them through unchanged.")
}

// NewShowMarkdown creates the show-markdown node.
func NewShowMarkdown() *DisplayNode {
	return newShowNode(ShowMarkdownID, "Show Markdown", "markdown", UIMarkdownKey, "show_markdown",
		"Display a list of input markdown strings and pass them through unchanged.")
}

func newShowNode(id, displayName, port, uiKey, function, description string) *DisplayNode {
	return &DisplayNode{
		meta: NodeMetadata{
			ID:          id,
			DisplayName: displayName,
			Examples: []Example{
				{
					Name:        "Single value",
					Description: "A scalar is shown as a one-item list",
					Inputs:      hfnodes.Inputs{port: "hello"},
					Output:      []any{"hello"},
					UI:          map[string][]any{uiKey: {"hello"}},
				},
			},
			Since: "1.1.0",
		},
		port:  port,
		uiKey: uiKey,
		schema: hfnodes.Schema{
			Inputs: hfnodes.InputTypes{
				Required: []hfnodes.Input{
					{Name: port, Type: hfnodes.String, Options: hfnodes.InputOptions{
						ForceInput:     true,
						Multiline:      true,
						DynamicPrompts: new(bool),
					}},
				},
				Hidden: []hfnodes.Input{
					{Name: "unique_id", Type: hfnodes.UniqueID},
					{Name: "extra_pnginfo", Type: hfnodes.ExtraPNGInfo},
				},
			},
			ReturnTypes:  []hfnodes.IOType{hfnodes.String},
			ReturnNames:  []string{port},
			InputIsList:  true,
			OutputIsList: []bool{true},
			OutputNode:   true,
			Category:     categoryHFUtils,
			Description:  description,
			Function:     function,
		},
	}
}

// Schema returns the port schema.
func (n *DisplayNode) Schema() hfnodes.Schema {
	return n.schema
}

// Metadata returns the node metadata.
func (n *DisplayNode) Metadata() NodeMetadata {
	return n.meta
}

// Call normalizes the input into a list, puts it in the UI payload and
// returns it as the only output.
func (n *DisplayNode) Call(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
	// Hosts deliver list ports as lists, but a bare value still works.
	items := hfnodes.AsList(in[n.port])

	logf(ctx, n.Logger, "display", "node", n.meta.ID, "items", len(items), "unique_id", in["unique_id"])

	return hfnodes.Result{
		UI:      map[string][]any{n.uiKey: items},
		Outputs: []any{items},
	}, nil
}

// Fingerprint reports the input items so the host reruns the node whenever
// any of them changes. Only the debug node reports one.
func (n *DisplayNode) Fingerprint(in hfnodes.Inputs) any {
	if !n.fingerprint {
		return nil
	}
	v := in[n.port]
	if hfnodes.IsList(v) {
		return hfnodes.AsList(v)
	}
	return v
}
