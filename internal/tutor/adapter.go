package tutor

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/san-kum/mllab/internal/catalog"
)

const (
	MissingKeyMessage = "Error: API Key is missing. Please check your configuration."
	ErrorMessage      = "I encountered an error while thinking. Please try again later."
)

var (
	ErrMissingCredential = errors.New("tutor: api key is missing")
	ErrProviderPanic     = errors.New("tutor: provider panicked")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior message sent to the provider as history.
type Turn struct {
	Role Role
	Text string
}

type Request struct {
	SystemInstruction string
	History           []Turn
	Message           string
}

// Provider streams the reply to a request. The sequence yields text chunks
// and ends after the first non-nil error.
type Provider interface {
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}

type Adapter struct {
	provider Provider
	apiKey   string
	logger   *log.Logger
}

type Option func(*Adapter)

func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

func NewAdapter(p Provider, apiKey string, opts ...Option) *Adapter {
	a := &Adapter{provider: p, apiKey: apiKey, logger: log.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask starts a reply to question in the context of topic. The credential is
// checked before the provider is contacted.
func (a *Adapter) Ask(ctx context.Context, topic catalog.Topic, question string, history []Turn) *Stream {
	if a.apiKey == "" {
		a.logger.Warn("tutor api key not found")
		return failed(ErrMissingCredential, MissingKeyMessage)
	}
	req := Request{
		SystemInstruction: SystemInstruction(topic),
		History:           history,
		Message:           question,
	}
	return newStream(a.provider.Stream(ctx, req), a.logger)
}

// SystemInstruction frames the tutor around the topic being studied.
func SystemInstruction(topic catalog.Topic) string {
	return fmt.Sprintf(`You are an expert Machine Learning Tutor for a web guide.
The user is currently studying the topic: %q.

Context about this topic:
%s
%s

Your goal is to answer the user's questions clearly, rigorously but accessibly.
- Use Markdown for formatting.
- Use LaTeX style formatting for math like this: $ E = mc^2 $.
- Keep answers concise unless asked for deep detail.
- If the user asks about a different ML topic, guide them briefly but suggest they navigate to that section if it exists.
`, topic.Title, topic.Description, topic.Content)
}
