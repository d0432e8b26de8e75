package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	goyaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/hvppyflow/hfnodes"
	"github.com/hvppyflow/hfnodes/builtin"
)

// nodesCmd represents the nodes command.
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List available nodes",
	Long:  `List every registered node grouped by category.`,
	Example: `  # List nodes
  hfnodes nodes

  # List nodes as JSON
  hfnodes nodes --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNodesList(cmd.OutOrStdout(), &NodesConfig{Format: output})
	},
}

// nodesInfoCmd shows a single node.
var nodesInfoCmd = &cobra.Command{
	Use:   "info <node>",
	Short: "Show detailed information about a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNodesInfo(cmd.OutOrStdout(), args[0], output)
	},
}

func init() {
	nodesCmd.AddCommand(nodesInfoCmd)
	rootCmd.AddCommand(nodesCmd)
}

// NodesConfig holds configuration for the nodes command.
type NodesConfig struct {
	Format   string // "text", "json", "yaml"
	Category string // Filter by category
}

// nodeEntry joins a node's port schema with its metadata.
type nodeEntry struct {
	Meta   builtin.NodeMetadata
	Schema hfnodes.Schema
}

// getBuiltinNodes returns every builtin node sorted by category then id.
func getBuiltinNodes() []nodeEntry {
	nodes := builtin.Nodes(nil)
	entries := make([]nodeEntry, len(nodes))
	for i, node := range nodes {
		entries[i] = nodeEntry{Meta: node.Metadata(), Schema: node.Schema()}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Schema.Category != entries[j].Schema.Category {
			return entries[i].Schema.Category < entries[j].Schema.Category
		}
		return entries[i].Meta.ID < entries[j].Meta.ID
	})
	return entries
}

// runNodesList lists all available nodes.
func runNodesList(w io.Writer, config *NodesConfig) error {
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

	switch config.Format {
	case jsonFormat, yamlFormat:
		summary := make([]map[string]any, len(nodes))
		for i, node := range nodes {
			summary[i] = map[string]any{
				"id":          node.Meta.ID,
				"displayName": node.Meta.DisplayName,
				"category":    node.Schema.Category,
				"description": node.Schema.Description,
				"outputNode":  node.Schema.OutputNode,
			}
		}
		return writeFormatted(w, config.Format, summary)
	default:
		return outputTable(w, nodes)
	}
}

// outputTable outputs nodes in table format.
func outputTable(w io.Writer, nodes []nodeEntry) error {
	// Group by category
	categories := make(map[string][]nodeEntry)
	for _, node := range nodes {
		categories[node.Schema.Category] = append(categories[node.Schema.Category], node)
	}

	categoryNames := make([]string, 0, len(categories))
	for cat := range categories {
		categoryNames = append(categoryNames, cat)
	}
	sort.Strings(categoryNames)

	for _, cat := range categoryNames {
		fmt.Fprintf(w, "\n%s:\n", cat)
		fmt.Fprintln(w, strings.Repeat("-", len(cat)+1))

		for _, node := range categories[cat] {
			fmt.Fprintf(w, "  %-20s %s\n", node.Meta.ID, node.Schema.Description)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d nodes\n", len(nodes))
	fmt.Fprintln(w, "\nUse 'hfnodes nodes info <node>' for detailed information about a specific node.")
	return nil
}

// runNodesInfo shows detailed information about a specific node.
func runNodesInfo(w io.Writer, id, format string) error {
	for _, node := range getBuiltinNodes() {
		if node.Meta.ID != id {
			continue
		}

		if format == jsonFormat || format == yamlFormat {
			return writeFormatted(w, format, map[string]any{
				"metadata": node.Meta,
				"schema":   node.Schema,
			})
		}

		fmt.Fprintf(w, "Node: %s (%s)\n", node.Meta.ID, node.Meta.DisplayName)
		fmt.Fprintf(w, "Category: %s\n", node.Schema.Category)
		if node.Schema.Description != "" {
			fmt.Fprintf(w, "Description: %s\n", node.Schema.Description)
		}
		if node.Meta.Since != "" {
			fmt.Fprintf(w, "Since: %s\n", node.Meta.Since)
		}
		fmt.Fprintf(w, "Input is list: %t\n", node.Schema.InputIsList)
		fmt.Fprintf(w, "Output node: %t\n", node.Schema.OutputNode)
		fmt.Fprintln(w)

		fmt.Fprintln(w, "Inputs:")
		writePorts(w, "required", node.Schema.Inputs.Required)
		writePorts(w, "optional", node.Schema.Inputs.Optional)
		writePorts(w, "hidden", node.Schema.Inputs.Hidden)
		fmt.Fprintln(w)

		fmt.Fprintln(w, "Outputs:")
		for i, name := range node.Schema.OutputNames() {
			list := i < len(node.Schema.OutputIsList) && node.Schema.OutputIsList[i]
			fmt.Fprintf(w, "  %-12s %s", name, node.Schema.ReturnTypes[i])
			if list {
				fmt.Fprint(w, " (list)")
			}
			fmt.Fprintln(w)
		}

		if len(node.Meta.Examples) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Examples:")
			for i, example := range node.Meta.Examples {
				fmt.Fprintf(w, "  %d. %s\n", i+1, example.Name)
				if example.Description != "" {
					fmt.Fprintf(w, "     %s\n", example.Description)
				}
				inputsYAML, _ := goyaml.Marshal(example.Inputs)
				fmt.Fprintf(w, "     Inputs:\n")
				for _, line := range strings.Split(string(inputsYAML), "\n") {
					if line != "" {
						fmt.Fprintf(w, "       %s\n", line)
					}
				}
			}
		}
		return nil
	}

	return fmt.Errorf("node '%s' not found", id)
}

func writePorts(w io.Writer, group string, ports []hfnodes.Input) {
	for _, port := range ports {
		opts, _ := json.Marshal(port.Options)
		if string(opts) == "{}" {
			fmt.Fprintf(w, "  %-12s %-14s %s\n", port.Name, port.Type, group)
			continue
		}
		fmt.Fprintf(w, "  %-12s %-14s %s %s\n", port.Name, port.Type, group, opts)
	}
}
