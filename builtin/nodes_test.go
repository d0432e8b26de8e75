package builtin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvppyflow/hfnodes"
)

func TestSleepNode(t *testing.T) {
	node := &SleepNode{}
	ctx := context.Background()

	start := time.Now()
	res, err := node.Call(ctx, hfnodes.Inputs{"input": "x", "minutes": 0, "seconds": 0.1})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, res.Outputs)
	assert.Nil(t, res.UI)
	if elapsed < 100*time.Millisecond {
		t.Errorf("Expected delay of at least 100ms, got %v", elapsed)
	}
}

func TestSleepNodeZeroDuration(t *testing.T) {
	node := &SleepNode{}

	start := time.Now()
	res, err := node.Call(context.Background(), hfnodes.Inputs{"input": "x", "minutes": 0, "seconds": 0})
	require.NoError(t, err)

	assert.Equal(t, []any{"x"}, res.Outputs)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestSleepNodePassesOpaqueValues(t *testing.T) {
	type payload struct{ N int }
	in := &payload{N: 7}

	res, err := (&SleepNode{}).Call(context.Background(), hfnodes.Inputs{"input": in, "minutes": 0, "seconds": 0})
	require.NoError(t, err)
	assert.Same(t, in, res.Outputs[0])
}

func TestSleepNodeContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := (&SleepNode{}).Call(ctx, hfnodes.Inputs{"input": "x", "minutes": 1, "seconds": 0})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDelay(t *testing.T) {
	tests := []struct {
		minutes int
		seconds float64
		want    time.Duration
	}{
		{0, 0, 0},
		{0, 1.5, 1500 * time.Millisecond},
		{2, 0, 2 * time.Minute},
		{1, 30, 90 * time.Second},
		{0, -1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Delay(tt.minutes, tt.seconds), "Delay(%d, %v)", tt.minutes, tt.seconds)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter string
		want      []string
	}{
		{name: "comma keeps empty fields", input: "a,b,,c", delimiter: ",", want: []string{"a", "b", "", "c"}},
		{name: "empty delimiter without whitespace", input: "a,b,,c", delimiter: "", want: []string{"a,b,,c"}},
		{name: "whitespace runs", input: "a  b\tc", delimiter: "", want: []string{"a", "b", "c"}},
		{name: "leading and trailing whitespace", input: "  a b \n", delimiter: "", want: []string{"a", "b"}},
		{name: "empty input empty delimiter", input: "", delimiter: "", want: []string{}},
		{name: "empty input", input: "", delimiter: ",", want: []string{""}},
		{name: "multi-character delimiter", input: "a::b::", delimiter: "::", want: []string{"a", "b", ""}},
		{name: "information separators", input: "a\x1cb\x1dc\x1ed\x1fe", delimiter: "", want: []string{"a", "b", "c", "d", "e"}},
		{name: "unicode spaces", input: "a\u00a0b\u2028c\vd", delimiter: "", want: []string{"a", "b", "c", "d"}},
		{name: "no trimming", input: " a , b ", delimiter: ",", want: []string{" a ", " b "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.input, tt.delimiter))
		})
	}
}

func TestSplitRejoins(t *testing.T) {
	inputs := []string{"", "a", "a,b", ",,", "x,y,,z,", "héllo, wörld"}
	delimiters := []string{",", ", ", "ö", ",,"}

	for _, s := range inputs {
		for _, d := range delimiters {
			assert.Equal(t, s, strings.Join(Split(s, d), d), "split %q on %q", s, d)
		}
	}
}

func TestSplitTextNode(t *testing.T) {
	node := &SplitTextNode{}

	res, err := node.Call(context.Background(), hfnodes.Inputs{"input": "a,b", "delimiter": ","})
	require.NoError(t, err)
	assert.Equal(t, []any{[]string{"a", "b"}}, res.Outputs)

	schema := node.Schema()
	assert.Equal(t, []bool{true}, schema.OutputIsList)
	assert.Equal(t, ",", schema.Inputs.Required[1].Options.Default)
}

func TestDisplayNodes(t *testing.T) {
	tests := []struct {
		name  string
		node  *DisplayNode
		port  string
		uiKey string
	}{
		{name: "debug", node: NewDebug(), port: "text", uiKey: UITextKey},
		{name: "show text", node: NewShowText(), port: "text", uiKey: UITextKey},
		{name: "show markdown", node: NewShowMarkdown(), port: "markdown", uiKey: UIMarkdownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			res, err := tt.node.Call(ctx, hfnodes.Inputs{tt.port: "only"})
			require.NoError(t, err)
			assert.Equal(t, []any{[]any{"only"}}, res.Outputs)
			assert.Equal(t, map[string][]any{tt.uiKey: {"only"}}, res.UI)

			list := []any{"a", "b", "c"}
			res, err = tt.node.Call(ctx, hfnodes.Inputs{tt.port: list})
			require.NoError(t, err)
			assert.Equal(t, list, res.Outputs[0])
			assert.Equal(t, list, res.UI[tt.uiKey])

			schema := tt.node.Schema()
			assert.True(t, schema.InputIsList)
			assert.True(t, schema.OutputNode)
			assert.Equal(t, []bool{true}, schema.OutputIsList)
			assert.Equal(t, []hfnodes.IOType{hfnodes.String}, schema.ReturnTypes)
		})
	}
}

func TestDebugFingerprint(t *testing.T) {
	debug := NewDebug()
	assert.Equal(t, []any{"a", "b"}, debug.Fingerprint(hfnodes.Inputs{"text": []string{"a", "b"}}))
	assert.Equal(t, "a", debug.Fingerprint(hfnodes.Inputs{"text": "a"}))

	assert.Nil(t, NewShowText().Fingerprint(hfnodes.Inputs{"text": "a"}))
}

func TestRegisterAll(t *testing.T) {
	reg := NewRegistry(nil)

	assert.Equal(t, []string{DebugID, ShowMarkdownID, ShowTextID, SleepID, SplitTextID}, reg.IDs())
	assert.Equal(t, hfnodes.DefaultWebDirectory, reg.WebDirectory)
	assert.Equal(t, "Split Text", reg.DisplayName(SplitTextID))

	// Registering twice collides on every id.
	assert.ErrorIs(t, RegisterAll(reg, nil), hfnodes.ErrDuplicateNode)
}

func TestExamplesMatchBehavior(t *testing.T) {
	for _, node := range Nodes(nil) {
		meta := node.Metadata()
		for _, ex := range meta.Examples {
			t.Run(meta.ID+"/"+ex.Name, func(t *testing.T) {
				if meta.ID == SleepID && ex.Inputs["seconds"] != 0 {
					t.Skip("skip waiting examples")
				}
				res, err := node.Call(context.Background(), ex.Inputs)
				require.NoError(t, err)
				require.Len(t, res.Outputs, 1)
				assert.EqualValues(t, ex.Output, res.Outputs[0])
				if ex.UI != nil {
					assert.Equal(t, ex.UI, res.UI)
				}
			})
		}
	}
}
