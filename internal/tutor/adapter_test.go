package tutor_test

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mllab/internal/catalog"
	"github.com/san-kum/mllab/internal/tutor"
)

func drain(s *tutor.Stream) []string {
	var out []string
	for {
		frag, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, frag)
	}
}

var _ = Describe("Adapter", func() {
	var (
		provider *fakeProvider
		topic    catalog.Topic
		quiet    tutor.Option
	)

	BeforeEach(func() {
		provider = &fakeProvider{}
		topic, _ = catalog.Get("k-means")
		quiet = tutor.WithLogger(log.New(io.Discard))
	})

	It("yields provider chunks in order and skips empty ones", func() {
		provider.chunks = []string{"K-means ", "", "minimizes ", "WCSS."}
		s := tutor.NewAdapter(provider, "key", quiet).Ask(context.Background(), topic, "What is it?", nil)

		Expect(drain(s)).To(Equal([]string{"K-means ", "minimizes ", "WCSS."}))
		Expect(s.Err()).NotTo(HaveOccurred())

		_, ok := s.Next()
		Expect(ok).To(BeFalse())
	})

	It("sends the topic context and history to the provider", func() {
		history := []tutor.Turn{{Role: tutor.RoleModel, Text: "Hello!"}}
		s := tutor.NewAdapter(provider, "key", quiet).Ask(context.Background(), topic, "Why K?", history)
		drain(s)

		req := provider.LastRequest()
		Expect(req.Message).To(Equal("Why K?"))
		Expect(req.History).To(Equal(history))
		Expect(req.SystemInstruction).To(ContainSubstring(`"K-Means Clustering"`))
		Expect(req.SystemInstruction).To(ContainSubstring(topic.Description))
		Expect(req.SystemInstruction).To(ContainSubstring(topic.Content))
	})

	It("reports a missing credential without contacting the provider", func() {
		provider.chunks = []string{"never"}
		s := tutor.NewAdapter(provider, "", quiet).Ask(context.Background(), topic, "Hi", nil)

		Expect(drain(s)).To(Equal([]string{tutor.MissingKeyMessage}))
		Expect(s.Err()).To(MatchError(tutor.ErrMissingCredential))
		Expect(provider.Calls()).To(BeZero())
	})

	It("ends with one fallback fragment when the provider fails", func() {
		boom := errors.New("503")
		provider.chunks = []string{"partial "}
		provider.err = boom
		s := tutor.NewAdapter(provider, "key", quiet).Ask(context.Background(), topic, "Hi", nil)

		Expect(drain(s)).To(Equal([]string{"partial ", tutor.ErrorMessage}))
		Expect(s.Err()).To(MatchError(boom))
	})

	It("turns a provider panic into the fallback fragment", func() {
		provider.panicWith = "bad chunk"
		s := tutor.NewAdapter(provider, "key", quiet).Ask(context.Background(), topic, "Hi", nil)

		Expect(drain(s)).To(Equal([]string{tutor.ErrorMessage}))
		Expect(s.Err()).To(MatchError(tutor.ErrProviderPanic))
	})

	It("releases the provider when closed early", func() {
		provider.chunks = []string{"a", "b", "c"}
		s := tutor.NewAdapter(provider, "key", quiet).Ask(context.Background(), topic, "Hi", nil)

		frag, ok := s.Next()
		Expect(ok).To(BeTrue())
		Expect(frag).To(Equal("a"))
		s.Close()

		Expect(provider.Abandoned()).To(BeTrue())
		_, ok = s.Next()
		Expect(ok).To(BeFalse())
	})

	It("collects the whole reply", func() {
		provider.chunks = []string{"a", "b"}
		s := tutor.NewAdapter(provider, "key", quiet).Ask(context.Background(), topic, "Hi", nil)
		Expect(s.Collect()).To(Equal("ab"))
	})
})
