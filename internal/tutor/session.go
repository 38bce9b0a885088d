package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/xid"

	"github.com/san-kum/mllab/internal/catalog"
)

var (
	ErrEmptyQuestion = errors.New("tutor: question is empty")
	ErrBusy          = errors.New("tutor: a reply is already in progress")
)

type Message struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Text     string `json:"text"`
	Thinking bool   `json:"thinking,omitempty"`
}

// Session is the tutor panel's conversation about one topic. It accepts a
// single question at a time.
type Session struct {
	mu       sync.Mutex
	adapter  *Adapter
	topic    catalog.Topic
	messages []Message
	loading  bool
	pending  string
}

func NewSession(a *Adapter, topic catalog.Topic) *Session {
	return &Session{
		adapter: a,
		topic:   topic,
		messages: []Message{modelMessage(fmt.Sprintf(
			"Hello! I'm your AI Tutor. I can help you understand **%s** better. Ask me anything about the math or concepts!",
			topic.Title))},
	}
}

func modelMessage(text string) Message {
	return Message{ID: xid.New().String(), Role: RoleModel, Text: text}
}

// SetTopic replaces the conversation when the topic changes. A reply still
// in flight keeps streaming but no longer lands in the new conversation.
func (s *Session) SetTopic(topic catalog.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTopicLocked(topic)
}

func (s *Session) setTopicLocked(topic catalog.Topic) {
	if topic.ID == s.topic.ID {
		return
	}
	s.topic = topic
	s.pending = ""
	s.messages = []Message{modelMessage(fmt.Sprintf(
		"We've switched topics. Ask me anything about **%s**!", topic.Title))}
}

func (s *Session) Topic() catalog.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Begin submits question. It appends the user message and a thinking
// placeholder and returns the stream that Append folds into it. Every
// message before the question is sent as history.
func (s *Session) Begin(ctx context.Context, question string) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(question); err != nil {
		return nil, err
	}
	return s.beginLocked(ctx, question), nil
}

// BeginOn is Begin about topic. The conversation switches to topic only when
// the question is accepted, so a rejected question leaves the current
// conversation untouched.
func (s *Session) BeginOn(ctx context.Context, topic catalog.Topic, question string) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(question); err != nil {
		return nil, err
	}
	s.setTopicLocked(topic)
	return s.beginLocked(ctx, question), nil
}

func (s *Session) acceptLocked(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	if s.loading {
		return ErrBusy
	}
	return nil
}

func (s *Session) beginLocked(ctx context.Context, question string) *Stream {
	history := make([]Turn, len(s.messages))
	for i, m := range s.messages {
		history[i] = Turn{Role: m.Role, Text: m.Text}
	}

	s.messages = append(s.messages, Message{ID: xid.New().String(), Role: RoleUser, Text: question})
	placeholder := Message{ID: xid.New().String(), Role: RoleModel, Thinking: true}
	s.messages = append(s.messages, placeholder)
	s.pending = placeholder.ID
	s.loading = true

	return s.adapter.Ask(ctx, s.topic, question, history)
}

// Append adds a fragment to the reply in progress.
func (s *Session) Append(fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.pendingLocked(); m != nil {
		m.Text += fragment
		m.Thinking = false
	}
}

// Finish ends the reply in progress and accepts new questions.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.pendingLocked(); m != nil {
		m.Thinking = false
	}
	s.pending = ""
	s.loading = false
}

func (s *Session) pendingLocked() *Message {
	if s.pending == "" {
		return nil
	}
	for i := range s.messages {
		if s.messages[i].ID == s.pending {
			return &s.messages[i]
		}
	}
	return nil
}

// Ask runs a full question and reply. onFragment, if set, sees each
// fragment as it arrives. The reply text is returned.
func (s *Session) Ask(ctx context.Context, question string, onFragment func(string)) (string, error) {
	stream, err := s.Begin(ctx, question)
	if err != nil {
		return "", err
	}
	defer s.Finish()
	defer stream.Close()

	var b strings.Builder
	for {
		frag, ok := stream.Next()
		if !ok {
			break
		}
		b.WriteString(frag)
		s.Append(frag)
		if onFragment != nil {
			onFragment(frag)
		}
	}
	return b.String(), nil
}
