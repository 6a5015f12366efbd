package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	name string
	exts []string
	run  func(ctx context.Context, prog Program, out io.Writer) error
}

func (f *fakeEngine) Name() string         { return f.name }
func (f *fakeEngine) Extensions() []string { return f.exts }
func (f *fakeEngine) Exec(ctx context.Context, prog Program, out io.Writer) error {
	return f.run(ctx, prog, out)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(0)
	require.NoError(t, r.Register(NewGolang()))
	require.NoError(t, r.Register(NewJavaScript()))
	require.NoError(t, r.Register(NewTengo()))

	assert.Equal(t, []string{".go", ".js", ".tengo"}, r.Extensions())
	assert.Equal(t, []string{"golang", "javascript", "tengo"}, r.Names())

	e, ok := r.ForExt(".JS")
	require.True(t, ok)
	assert.Equal(t, "javascript", e.Name())

	_, ok = r.ForExt(".py")
	assert.False(t, ok)

	_, ok = r.Get("tengo")
	assert.True(t, ok)
}

func TestRegistry_RegisterConflicts(t *testing.T) {
	r := NewRegistry(0)
	require.NoError(t, r.Register(NewJavaScript()))

	err := r.Register(NewJavaScript())
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(&fakeEngine{name: "other", exts: []string{".JS"}})
	assert.ErrorContains(t, err, "already claimed by javascript")
	assert.Equal(t, []string{"javascript"}, r.Names())
}

func TestRegistry_ExecNoEngine(t *testing.T) {
	r := NewRegistry(0)
	err := r.Exec(context.Background(), Program{Module: "x", File: "x.py"}, io.Discard)
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestRegistry_ExecWrapsErrors(t *testing.T) {
	cause := errors.New("boom")
	r := NewRegistry(0)
	require.NoError(t, r.Register(&fakeEngine{
		name: "fake",
		exts: []string{".fk"},
		run: func(context.Context, Program, io.Writer) error {
			return cause
		},
	}))

	err := r.Exec(context.Background(), Program{Module: "m", File: "m.fk"}, io.Discard)
	require.Error(t, err)

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "m", execErr.Module)
	assert.Equal(t, "fake", execErr.Engine)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "m (fake): boom", err.Error())
}

func TestRegistry_ExecRecoversPanic(t *testing.T) {
	r := NewRegistry(0)
	require.NoError(t, r.Register(&fakeEngine{
		name: "fake",
		exts: []string{".fk"},
		run: func(context.Context, Program, io.Writer) error {
			panic("kaput")
		},
	}))

	err := r.Exec(context.Background(), Program{Module: "m", File: "m.fk"}, io.Discard)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "panic: kaput")
}

func TestRegistry_ExecTimeout(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)
	require.NoError(t, r.Register(&fakeEngine{
		name: "fake",
		exts: []string{".fk"},
		run: func(ctx context.Context, _ Program, _ io.Writer) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}))

	err := r.Exec(context.Background(), Program{Module: "m", File: "m.fk"}, io.Discard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProgram_Ext(t *testing.T) {
	assert.Equal(t, ".js", Program{File: "dir/UPPER.JS"}.Ext())
	assert.Equal(t, "", Program{File: "noext"}.Ext())
}

func TestGolang_Exec(t *testing.T) {
	src := `package main

import "fmt"

func main() {
	fmt.Println("hello from go")
}
`
	var out bytes.Buffer
	err := NewGolang().Exec(context.Background(), Program{Module: "hello", File: "hello.go", Source: src}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello from go\n", out.String())
}

func TestGolang_CompileError(t *testing.T) {
	src := "package main\n\nfunc main() { undefinedThing() }\n"
	err := NewGolang().Exec(context.Background(), Program{Module: "bad", File: "bad.go", Source: src}, io.Discard)
	assert.Error(t, err)
}

func TestWrapGoSource(t *testing.T) {
	assert.Equal(t, "package main\n\nfunc main() {}", wrapGoSource("func main() {}"))

	withPkg := "// comment\npackage main\n"
	assert.Equal(t, withPkg, wrapGoSource(withPkg))

	script := "import \"fmt\"\nfmt.Println(\"hi\")\n"
	assert.Equal(t, script, wrapGoSource(script))
}

func TestGolang_ExecScript(t *testing.T) {
	src := "import \"fmt\"\n\nfmt.Println(\"hi\")\n"
	var out bytes.Buffer
	err := NewGolang().Exec(context.Background(), Program{Module: "script", File: "script.go", Source: src}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out.String())
}

func TestGolang_ExecBareMain(t *testing.T) {
	src := "import \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"from main\")\n}\n"
	var out bytes.Buffer
	err := NewGolang().Exec(context.Background(), Program{Module: "bare", File: "bare.go", Source: src}, &out)
	require.NoError(t, err)
	assert.Equal(t, "from main\n", out.String())
}

func TestJavaScript_Exec(t *testing.T) {
	src := `print("a", 1); console.log("b"); console.error("c");`
	var out bytes.Buffer
	err := NewJavaScript().Exec(context.Background(), Program{Module: "js", File: "js.js", Source: src}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a 1\nb\nc\n", out.String())
}

func TestJavaScript_Throw(t *testing.T) {
	src := `print("before"); throw new Error("nope");`
	var out bytes.Buffer
	err := NewJavaScript().Exec(context.Background(), Program{Module: "js", File: "js.js", Source: src}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Equal(t, "before\n", out.String())
}

func TestJavaScript_Interrupt(t *testing.T) {
	r := NewRegistry(50 * time.Millisecond)
	require.NoError(t, r.Register(NewJavaScript()))

	err := r.Exec(context.Background(), Program{Module: "loop", File: "loop.js", Source: "for (;;) {}"}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution interrupted")
}

func TestTengo_Exec(t *testing.T) {
	src := `
fmt := import("fmt")
println("sum", 1 + 2)
print("x")
printf(" %d\n", 7)
fmt.println("from fmt")
`
	var out bytes.Buffer
	err := NewTengo().Exec(context.Background(), Program{Module: "t", File: "t.tengo", Source: src}, &out)
	require.NoError(t, err)
	assert.Equal(t, "sum 3\nx 7\nfrom fmt\n", out.String())
}

func TestTengo_CompileError(t *testing.T) {
	err := NewTengo().Exec(context.Background(), Program{Module: "t", File: "t.tengo", Source: "x := "}, io.Discard)
	assert.ErrorContains(t, err, "compile error")
}

func TestTengo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewTengo().Exec(ctx, Program{Module: "t", File: "t.tengo", Source: "for {}"}, io.Discard)
	assert.ErrorContains(t, err, "execution interrupted")
}
