package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goyaml "github.com/goccy/go-yaml"
	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"github.com/hvppyflow/hfnodes"
	"github.com/hvppyflow/hfnodes/builtin"
	"github.com/hvppyflow/hfnodes/invoke"
	"github.com/hvppyflow/hfnodes/middleware"
	"github.com/hvppyflow/hfnodes/ui"
)

// RunConfig holds configuration for the run command.
type RunConfig struct {
	Node     string
	FilePath string
	Sets     []string
	ID       string
	Select   string
	Parallel int
	Timeout  time.Duration
	Format   string
	NoColor  bool
}

var runFlags RunConfig

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run <node>",
	Short: "Invoke a single node",
	Long: `Invoke one node with inputs taken from a YAML file and --set flags.

Each YAML document in the input file is one invocation. Use "-" to read the
documents from stdin. Values given with --set override every document.`,
	Example: `  # Split a string
  hfnodes run HFSplitText --set input=a,b,c

  # Sleep for a second and a half, then echo the input
  hfnodes run HFSleep --set input=done --set seconds=1.5

  # Show every document of a file, two at a time
  hfnodes run HFShowTextNode -f texts.yaml --parallel 2

  # Pick one field of the JSON response
  hfnodes run HFSplitText --set input=a,b --select '$.result[0]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := runFlags
		config.Node = args[0]
		config.Format = output
		config.NoColor = noColor

		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runNode(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), logger, &config)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.FilePath, "file", "f", "", "YAML file with one inputs document per invocation (- for stdin)")
	runCmd.Flags().StringArrayVar(&runFlags.Sets, "set", nil, "Set an input value (key=value), repeatable")
	runCmd.Flags().StringVar(&runFlags.ID, "id", "", "Node instance id passed as unique_id")
	runCmd.Flags().StringVar(&runFlags.Select, "select", "", "JSONPath applied to the responses before printing")
	runCmd.Flags().IntVar(&runFlags.Parallel, "parallel", 1, "Maximum concurrent invocations (0 for unbounded)")
	runCmd.Flags().DurationVar(&runFlags.Timeout, "timeout", 0, "Per-invocation timeout (0 for none)")
	rootCmd.AddCommand(runCmd)
}

// runNode builds the requests, invokes them and prints the responses.
func runNode(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, logger hfnodes.Logger, config *RunConfig) error {
	var selector jp.Expr
	if config.Select != "" {
		expr, err := jp.ParseString(config.Select)
		if err != nil {
			return fmt.Errorf("invalid JSONPath expression: %w", err)
		}
		selector = expr
	}

	registry := builtin.NewRegistry(logger)
	node, err := registry.Lookup(config.Node)
	if err != nil {
		return err
	}
	schema := node.Schema()

	docs, err := readInputs(stdin, config.FilePath)
	if err != nil {
		return err
	}

	reqs := make([]invoke.Request, len(docs))
	for i, doc := range docs {
		for _, kv := range config.Sets {
			key, value, err := parseSet(kv, schema)
			if err != nil {
				return err
			}
			doc[key] = value
		}
		reqs[i] = invoke.Request{Node: config.Node, Inputs: doc, ID: config.ID}
		if config.ID != "" && len(docs) > 1 {
			reqs[i].ID = fmt.Sprintf("%s-%d", config.ID, i+1)
		}
	}

	// UI goes to stdout in text mode and to stderr when stdout carries data.
	uiOut := stdout
	if config.Format != textFormat || selector != nil {
		uiOut = stderr
	}
	terminal, err := ui.NewTerminal(uiOut, ui.WithNoColor(config.NoColor))
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}

	mws := []middleware.Middleware{middleware.Recover(), middleware.Logging(logger)}
	if config.Timeout > 0 {
		mws = append(mws, middleware.Timeout(config.Timeout))
	}

	inv := invoke.New(registry,
		invoke.WithSink(terminal),
		invoke.WithLogger(logger),
		invoke.WithMiddleware(mws...),
	)

	responses, err := inv.InvokeAll(ctx, reqs, config.Parallel)
	if err != nil {
		return err
	}

	if selector != nil {
		return printSelected(stdout, config.Format, selector, responses)
	}
	return printResponses(stdout, config.Format, responses)
}

// readInputs returns one inputs map per YAML document. Without a file a
// single empty document is returned.
func readInputs(stdin io.Reader, path string) ([]hfnodes.Inputs, error) {
	if path == "" {
		return []hfnodes.Inputs{{}}, nil
	}

	r := stdin
	if path != "-" {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, fmt.Errorf("expand path: %w", err)
		}
		f, err := os.Open(filepath.Clean(expanded)) // #nosec G304 - User-provided inputs file
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("file not found: %s", path)
			}
			return nil, fmt.Errorf("open inputs: %w", err)
		}
		defer f.Close()
		r = f
	}

	var docs []hfnodes.Inputs
	dec := goyaml.NewDecoder(r)
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse inputs document %d: %w", len(docs)+1, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		docs = append(docs, hfnodes.Inputs(doc))
	}

	if len(docs) == 0 {
		return []hfnodes.Inputs{{}}, nil
	}
	return docs, nil
}

func printResponses(w io.Writer, format string, responses []*invoke.Response) error {
	if format == jsonFormat || format == yamlFormat {
		if len(responses) == 1 {
			return writeFormatted(w, format, responses[0])
		}
		return writeFormatted(w, format, responses)
	}

	for _, resp := range responses {
		fmt.Fprintf(w, "%s (%s) finished in %v\n", resp.Node, resp.ID, resp.Duration.Round(time.Millisecond))
		data, err := goyaml.Marshal(resp.Outputs)
		if err != nil {
			return fmt.Errorf("failed to marshal outputs: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func printSelected(w io.Writer, format string, selector jp.Expr, responses []*invoke.Response) error {
	var target any = responses
	if len(responses) == 1 {
		target = responses[0]
	}

	// JSONPath walks generic maps and slices, so round-trip through JSON.
	data, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to decode responses: %w", err)
	}

	matches := selector.Get(generic)

	if format == jsonFormat || format == yamlFormat {
		return writeFormatted(w, format, matches)
	}
	for _, match := range matches {
		if s, ok := match.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		line, err := json.Marshal(match)
		if err != nil {
			return fmt.Errorf("failed to marshal match: %w", err)
		}
		fmt.Fprintln(w, string(line))
	}
	return nil
}
