// Package transcript models the console's output area: an append-only
// sequence of toned text entries.
package transcript

import (
	"strings"
	"sync"
)

// Tone is the presentation class of an entry.
type Tone int

const (
	// Output is text written by a running module.
	Output Tone = iota
	// Prompt is console messages and echoed input.
	Prompt
	// Source is module source shown during the inspect step.
	Source
	// Error is failures reported by the console.
	Error
)

func (t Tone) String() string {
	switch t {
	case Prompt:
		return "prompt"
	case Source:
		return "source"
	case Error:
		return "error"
	default:
		return "output"
	}
}

// Entry is one contiguous run of text in a single tone.
type Entry struct {
	Tone Tone
	Text string
	// Ext is the file extension of the module a Source entry came from.
	Ext string
}

// Transcript is safe for concurrent use; interpreters may write to it from
// their own goroutines while the UI reads.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
	version uint64
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Line appends text followed by a newline.
func (t *Transcript) Line(tone Tone, text string) {
	t.append(tone, text+"\n")
}

// Lines appends each text as its own line.
func (t *Transcript) Lines(tone Tone, texts ...string) {
	for _, text := range texts {
		t.Line(tone, text)
	}
}

// Code appends module source, remembering the extension it was read with
// so it can be highlighted long after the module stops being pending.
func (t *Transcript) Code(ext, text string) {
	t.push(Entry{Tone: Source, Text: text + "\n", Ext: ext})
}

// Write appends raw module output. It implements io.Writer.
func (t *Transcript) Write(p []byte) (int, error) {
	if len(p) > 0 {
		t.append(Output, string(p))
	}
	return len(p), nil
}

func (t *Transcript) append(tone Tone, text string) {
	t.push(Entry{Tone: tone, Text: text})
}

func (t *Transcript) push(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Consecutive output writes coalesce so streamed output stays one entry.
	if n := len(t.entries); n > 0 && e.Tone == Output && t.entries[n-1].Tone == Output {
		t.entries[n-1].Text += e.Text
	} else {
		t.entries = append(t.entries, e)
	}
	t.version++
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Version increases on every append.
func (t *Transcript) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Entries returns a copy of the entries starting at index from.
func (t *Transcript) Entries(from int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if from < 0 {
		from = 0
	}
	if from >= len(t.entries) {
		return nil
	}
	out := make([]Entry, len(t.entries)-from)
	copy(out, t.entries[from:])
	return out
}

// String returns the transcript as plain text.
func (t *Transcript) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var sb strings.Builder
	for _, e := range t.entries {
		sb.WriteString(e.Text)
	}
	return sb.String()
}

// Reset clears all entries.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	t.version++
}
