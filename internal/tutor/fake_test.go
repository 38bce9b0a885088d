package tutor_test

import (
	"context"
	"iter"
	"sync"

	"github.com/san-kum/mllab/internal/tutor"
)

// fakeProvider replays chunks, then fails with err if set. A non-nil
// panicWith makes the sequence panic after the chunks.
type fakeProvider struct {
	mu        sync.Mutex
	chunks    []string
	err       error
	panicWith any
	calls     int
	requests  []tutor.Request
	abandoned bool
}

func (f *fakeProvider) Stream(ctx context.Context, req tutor.Request) iter.Seq2[string, error] {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				f.mu.Lock()
				f.abandoned = true
				f.mu.Unlock()
				return
			}
		}
		if f.panicWith != nil {
			panic(f.panicWith)
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) LastRequest() tutor.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeProvider) Abandoned() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.abandoned
}
