// Package session implements the console's inspect-then-run protocol.
//
// A session alternates between two states. In Select the input names a
// module, whose source is read and shown. In Confirm the next input decides
// whether that exact source runs. Either way the session returns to Select.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kannan/replicant/internal/engine"
	"github.com/kannan/replicant/internal/logger"
	"github.com/kannan/replicant/internal/module"
	"github.com/kannan/replicant/internal/transcript"
)

// ErrNothingPending is returned when a confirmation arrives with no
// inspected module to run.
var ErrNothingPending = errors.New("no module pending confirmation")

// DefaultConfirmWord is the affirmative response.
const DefaultConfirmWord = "yes"

// State is what the next input is interpreted as.
type State int

const (
	// Select expects a module name.
	Select State = iota
	// Confirm expects the answer to "Proceed?".
	Confirm
)

func (s State) String() string {
	if s == Confirm {
		return "confirm"
	}
	return "select"
}

// Options tune a session.
type Options struct {
	// ConfirmWord is compared exactly against the trimmed input.
	ConfirmWord string
}

// Session is safe for concurrent use. Submissions are serialised.
type Session struct {
	submitMu sync.Mutex

	mu          sync.RWMutex
	catalog     *module.Catalog
	engines     *engine.Registry
	out         *transcript.Transcript
	confirmWord string
	state       State
	pending     *engine.Program
}

// New creates a session in the Select state writing to out.
func New(catalog *module.Catalog, engines *engine.Registry, out *transcript.Transcript, opts Options) *Session {
	word := opts.ConfirmWord
	if word == "" {
		word = DefaultConfirmWord
	}
	return &Session{
		catalog:     catalog,
		engines:     engines,
		out:         out,
		confirmWord: word,
		state:       Select,
	}
}

// Transcript returns the output area the session writes to.
func (s *Session) Transcript() *transcript.Transcript {
	return s.out
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Pending returns the inspected program awaiting confirmation.
func (s *Session) Pending() (engine.Program, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return engine.Program{}, false
	}
	return *s.pending, true
}

// Modules returns the currently known module names.
func (s *Session) Modules() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Names()
}

// Catalog returns the current catalog.
func (s *Session) Catalog() *module.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Welcome writes the greeting and the module list.
func (s *Session) Welcome() {
	s.out.Line(transcript.Prompt, MsgWelcome)
	s.writeModules()
}

// Refresh rediscovers modules. A pending program survives even if its
// file is gone.
func (s *Session) Refresh() error {
	s.mu.RLock()
	backend := s.catalog.Backend()
	s.mu.RUnlock()

	catalog, err := module.Discover(backend, s.engines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
	logger.Debug("modules refreshed", "count", catalog.Len())
	return nil
}

// Submit handles one line of input. The returned error is non-nil when a
// known module could not be read or a confirmed module failed; either
// failure is also in the transcript. Unknown names are not errors.
func (s *Session) Submit(ctx context.Context, input string) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.out.Line(transcript.Prompt, input)
	entry := strings.TrimSpace(input)

	if s.State() == Confirm {
		return s.confirm(ctx, entry)
	}
	return s.inspect(entry)
}

func (s *Session) inspect(name string) error {
	s.mu.RLock()
	catalog := s.catalog
	s.mu.RUnlock()

	if _, ok := catalog.Lookup(name); !ok {
		s.out.Line(transcript.Prompt, MsgInvalid)
		return nil
	}

	prog, err := catalog.Inspect(name)
	if err != nil {
		logger.Warn("inspect failed", "module", name, "error", err)
		s.out.Line(transcript.Error, err.Error())
		return err
	}

	s.mu.Lock()
	s.pending = &prog
	s.state = Confirm
	s.mu.Unlock()

	s.out.Line(transcript.Prompt, fmt.Sprintf("%s %s\n", name, MsgInspect))
	s.out.Code(prog.Ext(), prog.Source)
	s.out.Line(transcript.Prompt, "\n"+MsgProceed)
	return nil
}

func (s *Session) confirm(ctx context.Context, answer string) error {
	s.mu.Lock()
	prog := s.pending
	s.pending = nil
	s.state = Select
	s.mu.Unlock()

	if prog == nil {
		s.out.Line(transcript.Error, ErrNothingPending.Error())
		s.nextOp()
		return ErrNothingPending
	}

	if answer != s.confirmWord {
		logger.Info("module discarded", "module", prog.Module)
		s.out.Line(transcript.Prompt, MsgAbort)
		s.nextOp()
		return nil
	}

	s.out.Line(transcript.Output, "")
	err := s.engines.Exec(ctx, *prog, s.out)
	if err != nil {
		s.out.Line(transcript.Error, err.Error())
		s.out.Line(transcript.Prompt, "\n"+MsgFailed)
	} else {
		s.out.Line(transcript.Prompt, "\n"+MsgComplete)
	}
	s.nextOp()
	return err
}

func (s *Session) nextOp() {
	s.out.Line(transcript.Prompt, MsgNextOp)
	s.writeModules()
}

func (s *Session) writeModules() {
	names := s.Modules()
	if len(names) == 0 {
		s.out.Line(transcript.Prompt, MsgNoModule)
		return
	}
	s.out.Lines(transcript.Prompt, names...)
}
