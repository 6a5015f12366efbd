//go:build legacy

// Legacy builds use the readline console instead of the full-screen UI.
package main

import (
	"github.com/kannan/replicant/internal/cli"
	"github.com/kannan/replicant/internal/interactive"
)

// runUI starts the line console.
func runUI() error {
	rt, err := cli.Bootstrap("")
	if err != nil {
		return err
	}
	return interactive.Run(rt)
}
