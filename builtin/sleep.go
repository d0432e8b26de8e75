package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/hvppyflow/hfnodes"
)

// SleepID is the registry id of the sleep node.
const SleepID = "HFSleep"

// SleepNode holds a value back for a fixed wall-clock duration.
type SleepNode struct {
	Logger hfnodes.Logger
}

type sleepInputs struct {
	Input   any     `mapstructure:"input"`
	Minutes int     `mapstructure:"minutes"`
	Seconds float64 `mapstructure:"seconds"`
}

// Schema returns the port schema.
func (n *SleepNode) Schema() hfnodes.Schema {
	return hfnodes.Schema{
		Inputs: hfnodes.InputTypes{
			Required: []hfnodes.Input{
				{Name: "input", Type: hfnodes.Any},
				{Name: "minutes", Type: hfnodes.Int, Options: hfnodes.InputOptions{
					Default: 0,
					Min:     hfnodes.FloatPtr(0),
					Max:     hfnodes.FloatPtr(1439),
				}},
				{Name: "seconds", Type: hfnodes.Float, Options: hfnodes.InputOptions{
					Default: 0.0,
					Min:     hfnodes.FloatPtr(0),
					Max:     hfnodes.FloatPtr(59.99),
					Step:    0.01,
				}},
			},
		},
		ReturnTypes: []hfnodes.IOType{hfnodes.Any},
		Category:    categoryMisc,
		Description: "Delays the execution for the input amount of time.",
		Function:    "sleepdelay",
	}
}

// Metadata returns the node metadata.
func (n *SleepNode) Metadata() NodeMetadata {
	return NodeMetadata{
		ID:          SleepID,
		DisplayName: "Sleep",
		Examples: []Example{
			{
				Name:        "Short pause",
				Description: "Hold a value back for one and a half seconds",
				Inputs:      hfnodes.Inputs{"input": "done", "minutes": 0, "seconds": 1.5},
				Output:      "done",
			},
			{
				Name:        "No delay",
				Description: "A zero duration passes the value straight through",
				Inputs:      hfnodes.Inputs{"input": 42, "minutes": 0, "seconds": 0},
				Output:      42,
			},
		},
		Since: "1.0.0",
	}
}

// Call waits minutes*60+seconds and returns the input unchanged. The wait
// ends early only when ctx is done.
func (n *SleepNode) Call(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
	var args sleepInputs
	if err := decodeInputs(in, &args); err != nil {
		return hfnodes.Result{}, fmt.Errorf("decode sleep inputs: %w", err)
	}

	d := Delay(args.Minutes, args.Seconds)
	logf(ctx, n.Logger, "sleeping", "duration", d)

	if err := wait(ctx, d); err != nil {
		return hfnodes.Result{}, err
	}
	return hfnodes.Result{Outputs: []any{args.Input}}, nil
}

// Delay converts a minutes and seconds pair into a duration. Negative totals
// become zero.
func Delay(minutes int, seconds float64) time.Duration {
	total := float64(minutes)*60 + seconds
	if total <= 0 {
		return 0
	}
	return time.Duration(total * float64(time.Second))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
