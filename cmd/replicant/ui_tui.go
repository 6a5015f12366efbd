//go:build !legacy

package main

import (
	"github.com/kannan/replicant/internal/cli"
	"github.com/kannan/replicant/internal/tui"
)

// runUI starts the Bubble Tea console.
func runUI() error {
	rt, err := cli.Bootstrap("")
	if err != nil {
		return err
	}
	return tui.Run(rt)
}
