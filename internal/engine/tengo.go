package engine

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Tengo runs modules written in the tengo scripting language.
type Tengo struct{}

// NewTengo creates a tengo engine.
func NewTengo() *Tengo {
	return &Tengo{}
}

// Name returns the engine name.
func (t *Tengo) Name() string {
	return "tengo"
}

// Extensions returns the file extensions the engine claims.
func (t *Tengo) Extensions() []string {
	return []string{".tengo"}
}

// Exec compiles and runs the program.
func (t *Tengo) Exec(ctx context.Context, prog Program, out io.Writer) error {
	script := tengo.NewScript([]byte(prog.Source))
	script.SetImports(tengoModules(out))

	for name, fn := range tengoPrinters(out) {
		if err := script.Add(name, fn); err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	if err := compiled.RunContext(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("execution interrupted: %w", ctx.Err())
		}
		return err
	}
	return nil
}

// tengoModules is the stdlib module map with fmt's printers bound to out.
func tengoModules(out io.Writer) *tengo.ModuleMap {
	var names []string
	for _, name := range stdlib.AllModuleNames() {
		if name != "fmt" {
			names = append(names, name)
		}
	}
	modules := stdlib.GetModuleMap(names...)

	fmtModule := make(map[string]tengo.Object)
	for k, v := range stdlib.BuiltinModules["fmt"] {
		fmtModule[k] = v
	}
	for k, v := range tengoPrinters(out) {
		fmtModule[k] = v
	}
	modules.AddBuiltinModule("fmt", fmtModule)
	return modules
}

func tengoPrinters(out io.Writer) map[string]*tengo.UserFunction {
	join := func(args []tengo.Object) string {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = tengoString(arg)
		}
		return strings.Join(parts, " ")
	}

	return map[string]*tengo.UserFunction{
		"print": {
			Name: "print",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				fmt.Fprint(out, join(args))
				return tengo.UndefinedValue, nil
			},
		},
		"println": {
			Name: "println",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				fmt.Fprintln(out, join(args))
				return tengo.UndefinedValue, nil
			},
		},
		"printf": {
			Name: "printf",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) == 0 {
					return nil, tengo.ErrWrongNumArguments
				}
				format, ok := args[0].(*tengo.String)
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{
						Name:     "format",
						Expected: "string",
						Found:    args[0].TypeName(),
					}
				}
				s, err := tengo.Format(format.Value, args[1:]...)
				if err != nil {
					return nil, err
				}
				fmt.Fprint(out, s)
				return tengo.UndefinedValue, nil
			},
		},
	}
}

func tengoString(o tengo.Object) string {
	if s, ok := o.(*tengo.String); ok {
		return s.Value
	}
	return o.String()
}
