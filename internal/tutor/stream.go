package tutor

import (
	"fmt"
	"iter"
	"strings"

	"github.com/charmbracelet/log"
)

// Stream is a finite, non-restartable sequence of reply fragments. It is
// not safe for concurrent use.
type Stream struct {
	next     func() (string, error, bool)
	stop     func()
	logger   *log.Logger
	fallback string
	err      error
	done     bool
}

func newStream(seq iter.Seq2[string, error], logger *log.Logger) *Stream {
	next, stop := iter.Pull2(seq)
	return &Stream{next: next, stop: stop, logger: logger}
}

// failed returns a stream that yields msg once and reports err.
func failed(err error, msg string) *Stream {
	return &Stream{err: err, fallback: msg}
}

// Next returns the next non-empty fragment. ok is false once the stream
// has ended.
func (s *Stream) Next() (fragment string, ok bool) {
	if s.fallback != "" {
		fragment, s.fallback = s.fallback, ""
		s.done = true
		return fragment, true
	}
	if s.done {
		return "", false
	}

	for {
		text, err, more := s.pull()
		if !more {
			s.finish()
			return "", false
		}
		if err != nil {
			s.err = err
			if s.logger != nil {
				s.logger.Error("tutor provider failed", "err", err)
			}
			s.finish()
			return ErrorMessage, true
		}
		if text == "" {
			continue
		}
		return text, true
	}
}

func (s *Stream) pull() (text string, err error, more bool) {
	defer func() {
		if r := recover(); r != nil {
			text, err, more = "", fmt.Errorf("%w: %v", ErrProviderPanic, r), true
		}
	}()
	return s.next()
}

func (s *Stream) finish() {
	s.done = true
	s.Close()
}

// Err is nil when the stream ended naturally.
func (s *Stream) Err() error { return s.err }

// Close releases the provider. Further calls to Next return false.
func (s *Stream) Close() {
	s.done = true
	s.fallback = ""
	if s.stop != nil {
		stop := s.stop
		s.stop = nil
		func() {
			defer func() { recover() }()
			stop()
		}()
	}
}

// Collect drains the stream and returns the concatenated text.
func (s *Stream) Collect() string {
	var b strings.Builder
	for {
		frag, ok := s.Next()
		if !ok {
			return b.String()
		}
		b.WriteString(frag)
	}
}
