package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	goyaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/hvppyflow/hfnodes"
)

var docsFile string

// docsCmd represents the docs command.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate documentation",
	Long: `Generate documentation for the builtin nodes.

The documentation includes port schemas and examples for each node.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := &DocsConfig{
			Format: output,
			Output: docsFile,
		}
		if config.Format == textFormat {
			config.Format = markdownFormat
		}
		return runGenerateDocs(cmd.OutOrStdout(), config)
	},
}

func init() {
	docsCmd.Flags().StringVarP(&docsFile, "file", "f", "", "Write documentation to a file instead of stdout")
	rootCmd.AddCommand(docsCmd)
}

// DocsConfig holds configuration for the docs command.
type DocsConfig struct {
	Format   string // "markdown", "json", "yaml"
	Output   string // Output file path (empty for stdout)
	Category string // Filter by category
}

// runGenerateDocs generates documentation from node metadata.
func runGenerateDocs(w io.Writer, config *DocsConfig) error {
	nodes := getBuiltinNodes()

	if config.Category != "" {
		filtered := []nodeEntry{}
		for _, node := range nodes {
			if node.Schema.Category == config.Category {
				filtered = append(filtered, node)
			}
		}
		nodes = filtered
	}

	if config.Output != "" {
		path, err := expandPath(config.Output)
		if err != nil {
			return fmt.Errorf("expand path: %w", err)
		}
		f, err := os.Create(path) // #nosec G304 - User-provided output path
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch config.Format {
	case jsonFormat, yamlFormat:
		docs := make([]map[string]any, len(nodes))
		for i, node := range nodes {
			docs[i] = map[string]any{
				"metadata": node.Meta,
				"schema":   node.Schema,
			}
		}
		return writeFormatted(w, config.Format, docs)
	case markdownFormat:
		_, err := io.WriteString(w, generateMarkdownDocs(nodes))
		return err
	default:
		return fmt.Errorf("unsupported docs format %q", config.Format)
	}
}

// generateMarkdownDocs renders the node reference as Markdown.
func generateMarkdownDocs(nodes []nodeEntry) string {
	var sb strings.Builder

	sb.WriteString("# hfnodes Node Reference\n\n")
	sb.WriteString("## Table of Contents\n\n")

	currentCategory := ""
	for _, node := range nodes {
		if node.Schema.Category != currentCategory {
			currentCategory = node.Schema.Category
			fmt.Fprintf(&sb, "\n### %s\n\n", currentCategory)
		}
		fmt.Fprintf(&sb, "- [%s](#%s) - %s\n", node.Meta.ID, strings.ToLower(node.Meta.ID), node.Meta.DisplayName)
	}
	sb.WriteString("\n---\n\n")

	for _, node := range nodes {
		fmt.Fprintf(&sb, "## %s\n\n", node.Meta.ID)
		fmt.Fprintf(&sb, "**%s** (category `%s`, function `%s`)\n\n", node.Meta.DisplayName, node.Schema.Category, node.Schema.Function)
		if node.Schema.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", node.Schema.Description)
		}
		if node.Meta.Since != "" {
			fmt.Fprintf(&sb, "*Since: %s*\n\n", node.Meta.Since)
		}

		sb.WriteString("### Inputs\n\n")
		sb.WriteString("| Name | Type | Group | Default |\n")
		sb.WriteString("|------|------|-------|---------|\n")
		for _, group := range []struct {
			name  string
			ports []inputPort
		}{
			{"required", toPorts(node.Schema.Inputs.Required)},
			{"optional", toPorts(node.Schema.Inputs.Optional)},
			{"hidden", toPorts(node.Schema.Inputs.Hidden)},
		} {
			for _, port := range group.ports {
				fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", port.name, port.typ, group.name, port.def)
			}
		}
		sb.WriteString("\n")

		sb.WriteString("### Outputs\n\n")
		for i, name := range node.Schema.OutputNames() {
			list := ""
			if i < len(node.Schema.OutputIsList) && node.Schema.OutputIsList[i] {
				list = " (list)"
			}
			fmt.Fprintf(&sb, "- `%s`: %s%s\n", name, node.Schema.ReturnTypes[i], list)
		}
		sb.WriteString("\n")

		if len(node.Meta.Examples) > 0 {
			sb.WriteString("### Examples\n\n")
			for _, example := range node.Meta.Examples {
				fmt.Fprintf(&sb, "#### %s\n\n", example.Name)
				if example.Description != "" {
					fmt.Fprintf(&sb, "%s\n\n", example.Description)
				}
				inputsYAML, _ := goyaml.Marshal(example.Inputs)
				sb.WriteString("```yaml\n")
				sb.Write(inputsYAML)
				sb.WriteString("```\n\n")
			}
		}

		sb.WriteString("---\n\n")
	}

	return sb.String()
}

type inputPort struct {
	name string
	typ  string
	def  string
}

func toPorts(inputs []hfnodes.Input) []inputPort {
	ports := make([]inputPort, len(inputs))
	for i, in := range inputs {
		def := "-"
		if in.Options.Default != nil {
			def = fmt.Sprintf("`%v`", in.Options.Default)
		}
		ports[i] = inputPort{name: in.Name, typ: string(in.Type), def: def}
	}
	return ports
}
