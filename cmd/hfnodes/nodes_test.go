package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hvppyflow/hfnodes/builtin"
)

func TestGetBuiltinNodes(t *testing.T) {
	allNodes := getBuiltinNodes()

	if len(allNodes) != 5 {
		t.Fatalf("Expected 5 builtin nodes, got %d", len(allNodes))
	}

	for _, node := range allNodes {
		if node.Meta.ID == "" {
			t.Error("Node missing id")
		}
		if node.Schema.Category == "" {
			t.Errorf("Node %s missing category", node.Meta.ID)
		}
		if node.Schema.Function == "" {
			t.Errorf("Node %s missing function", node.Meta.ID)
		}
	}

	for i := 1; i < len(allNodes); i++ {
		prev, cur := allNodes[i-1], allNodes[i]
		if prev.Schema.Category > cur.Schema.Category {
			t.Errorf("Nodes not sorted by category: %s before %s", prev.Schema.Category, cur.Schema.Category)
		}
	}
}

func TestRunNodesListTable(t *testing.T) {
	var buf bytes.Buffer
	if err := runNodesList(&buf, &NodesConfig{Format: textFormat}); err != nil {
		t.Fatalf("runNodesList() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"misc:", "utils:", "HF - utils:", builtin.SleepID, builtin.SplitTextID, "Total: 5 nodes"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q", want)
		}
	}
}

func TestRunNodesListJSONWithCategory(t *testing.T) {
	var buf bytes.Buffer
	if err := runNodesList(&buf, &NodesConfig{Format: jsonFormat, Category: "HF - utils"}); err != nil {
		t.Fatalf("runNodesList() error = %v", err)
	}

	var result []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(result))
	}
	if result[0]["id"] != builtin.ShowMarkdownID || result[1]["id"] != builtin.ShowTextID {
		t.Errorf("Unexpected nodes: %v", result)
	}
}

func TestRunNodesInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := runNodesInfo(&buf, builtin.SleepID, textFormat); err != nil {
		t.Fatalf("runNodesInfo() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Node: HFSleep (Sleep)", "Category: misc", "minutes", "seconds", "Examples:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q", want)
		}
	}

	if err := runNodesInfo(&buf, "Nope", textFormat); err == nil {
		t.Error("Expected error for unknown node")
	}
}

func TestGenerateDocs(t *testing.T) {
	var buf bytes.Buffer
	if err := runGenerateDocs(&buf, &DocsConfig{Format: markdownFormat}); err != nil {
		t.Fatalf("runGenerateDocs() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"# hfnodes Node Reference", "## HFSplitText", "| `delimiter` | STRING | required | `,` |", "```yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("Docs missing %q", want)
		}
	}

	buf.Reset()
	if err := runGenerateDocs(&buf, &DocsConfig{Format: jsonFormat, Category: "misc"}); err != nil {
		t.Fatalf("runGenerateDocs() json error = %v", err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("Failed to parse JSON docs: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 misc nodes, got %d", len(docs))
	}
}
