package interactive

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kannan/replicant/internal/transcript"
)

// lockedBuffer lets the test read what the printer wrote while it runs.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPrinter_SeekSkipsEarlierText(t *testing.T) {
	out := transcript.New()
	out.Line(transcript.Prompt, "before")

	var w bytes.Buffer
	p := NewPrinter(out, &w, Options{NoColor: true})
	p.Seek()
	out.Line(transcript.Output, "after")
	p.Flush()

	assert.Equal(t, "after\n", w.String())
}

func TestPrinter_FollowSkipsEcho(t *testing.T) {
	out := transcript.New()
	var w bytes.Buffer
	p := NewPrinter(out, &w, Options{NoColor: true})

	p.Follow(func() {
		out.Line(transcript.Prompt, "typed")
		out.Line(transcript.Prompt, "reply")
	})

	assert.Equal(t, "reply\n", w.String())
}

func TestPrinter_FollowStreams(t *testing.T) {
	out := transcript.New()
	w := &lockedBuffer{}
	p := NewPrinter(out, w, Options{NoColor: true})

	release := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		p.Follow(func() {
			out.Line(transcript.Prompt, "yes")
			out.Write([]byte("first "))
			<-release
			out.Write([]byte("second\n"))
		})
	}()

	require.Eventually(t, func() bool {
		return w.String() == "first "
	}, 5*time.Second, 10*time.Millisecond, "output should appear before the submission returns")

	close(release)
	<-finished
	assert.Equal(t, "first second\n", w.String())
}
