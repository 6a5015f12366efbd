package transcript

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_LinesAndWrites(t *testing.T) {
	tr := New()
	tr.Line(Prompt, "hello")
	fmt.Fprint(tr, "out1 ")
	fmt.Fprint(tr, "out2\n")
	tr.Lines(Source, "a", "b")

	entries := tr.Entries(0)
	require.Len(t, entries, 4)
	assert.Equal(t, Entry{Tone: Prompt, Text: "hello\n"}, entries[0])
	assert.Equal(t, Entry{Tone: Output, Text: "out1 out2\n"}, entries[1])
	assert.Equal(t, Entry{Tone: Source, Text: "a\n"}, entries[2])

	assert.Equal(t, "hello\nout1 out2\na\nb\n", tr.String())
	assert.Len(t, tr.Entries(3), 1)
	assert.Nil(t, tr.Entries(10))
}

func TestTranscript_CodeKeepsExtension(t *testing.T) {
	tr := New()
	tr.Code(".js", `print("a")`)
	tr.Code(".tengo", `fmt.println("b")`)

	entries := tr.Entries(0)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Tone: Source, Text: "print(\"a\")\n", Ext: ".js"}, entries[0])
	assert.Equal(t, ".tengo", entries[1].Ext)
}

func TestTranscript_EmptyWriteIgnored(t *testing.T) {
	tr := New()
	n, err := tr.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, tr.Len())
	assert.Zero(t, tr.Version())
}

func TestTranscript_Reset(t *testing.T) {
	tr := New()
	tr.Line(Error, "boom")
	v := tr.Version()
	tr.Reset()
	assert.Zero(t, tr.Len())
	assert.Greater(t, tr.Version(), v)
}

func TestTranscript_ConcurrentWrites(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fmt.Fprint(tr, "x")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, tr.String(), 800)
}

func TestTone_String(t *testing.T) {
	assert.Equal(t, "output", Output.String())
	assert.Equal(t, "prompt", Prompt.String())
	assert.Equal(t, "source", Source.String())
	assert.Equal(t, "error", Error.String())
}
