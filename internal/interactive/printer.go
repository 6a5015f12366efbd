package interactive

import (
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/kannan/replicant/internal/transcript"
)

const flushInterval = 100 * time.Millisecond

// Printer copies transcript text to a writer as it appears, coloured by
// tone. The echo of each submitted line is left out since the terminal
// already shows what was typed.
type Printer struct {
	out    *transcript.Transcript
	w      io.Writer
	colors map[transcript.Tone]*color.Color

	mu     sync.Mutex
	index  int
	offset int
	skip   int
}

// NewPrinter creates a printer that starts at the beginning of out.
func NewPrinter(out *transcript.Transcript, w io.Writer, opts Options) *Printer {
	colors := map[transcript.Tone]*color.Color{
		transcript.Output: color.New(color.FgCyan),
		transcript.Prompt: color.New(color.FgGreen),
		transcript.Source: color.New(color.FgBlue),
		transcript.Error:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range colors {
		if opts.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return &Printer{out: out, w: w, colors: colors, skip: -1}
}

// Seek marks everything already in the transcript as printed.
func (p *Printer) Seek() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = p.out.Len()
	p.offset = 0
}

// Follow runs submit in its own goroutine and prints transcript text on
// a ticker until it returns. The first entry submit appends is treated as
// the echo of the submitted line.
func (p *Printer) Follow(submit func()) {
	p.mu.Lock()
	p.skip = p.out.Len()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		submit()
	}()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			p.Flush()
			return
		case <-ticker.C:
			p.Flush()
		}
	}
}

// Flush prints transcript text not yet printed.
func (p *Printer) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.out.Entries(p.index)
	for i, e := range entries {
		text := e.Text
		if i == 0 {
			text = text[p.offset:]
		}
		if p.index+i == p.skip && e.Tone == transcript.Prompt {
			continue
		}
		if text != "" {
			p.colors[e.Tone].Fprint(p.w, text)
		}
	}

	if n := len(entries); n > 0 {
		p.index += n - 1
		p.offset = len(entries[n-1].Text)
	}
}
