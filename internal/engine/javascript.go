package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
)

// JavaScript runs modules on a goja runtime, one runtime per execution.
type JavaScript struct{}

// NewJavaScript creates a JavaScript engine.
func NewJavaScript() *JavaScript {
	return &JavaScript{}
}

// Name returns the engine name.
func (j *JavaScript) Name() string {
	return "javascript"
}

// Extensions returns the file extensions the engine claims.
func (j *JavaScript) Extensions() []string {
	return []string{".js"}
}

// Exec runs the program. Cancelling ctx interrupts the VM.
func (j *JavaScript) Exec(ctx context.Context, prog Program, out io.Writer) error {
	vm := goja.New()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	if err := setupConsole(vm, out); err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}

	if _, err := vm.RunScript(prog.File, prog.Source); err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return fmt.Errorf("execution interrupted: %v", interrupted.Value())
		}
		return err
	}
	return nil
}

// setupConsole binds print and console.* to out.
func setupConsole(vm *goja.Runtime, out io.Writer) error {
	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		fmt.Fprintln(out, strings.Join(args, " "))
		return goja.Undefined()
	}
	if err := vm.Set("print", printFunc); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, printFunc); err != nil {
			return fmt.Errorf("failed to set console.%s: %w", name, err)
		}
	}
	return vm.Set("console", console)
}
