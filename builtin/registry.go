// Package builtin provides the plugin nodes shipped with hfnodes.
package builtin

import (
	"github.com/hvppyflow/hfnodes"
)

// Node categories.
const (
	categoryMisc    = "misc"
	categoryUtils   = "utils"
	categoryHFUtils = "HF - utils"
)

// Nodes returns fresh instances of every builtin node, all sharing logger.
func Nodes(logger hfnodes.Logger) []Described {
	debug := NewDebug()
	debug.Logger = logger
	showText := NewShowText()
	showText.Logger = logger
	showMarkdown := NewShowMarkdown()
	showMarkdown.Logger = logger

	return []Described{
		debug,
		&SleepNode{Logger: logger},
		&SplitTextNode{Logger: logger},
		showText,
		showMarkdown,
	}
}

// RegisterAll registers every builtin node with reg.
func RegisterAll(reg *hfnodes.Registry, logger hfnodes.Logger) error {
	for _, node := range Nodes(logger) {
		meta := node.Metadata()
		if err := reg.Register(meta.ID, node, meta.DisplayName); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every builtin node.
func NewRegistry(logger hfnodes.Logger) *hfnodes.Registry {
	reg := hfnodes.NewRegistry()
	// A fresh registry cannot hold duplicates.
	_ = RegisterAll(reg, logger)
	return reg
}
