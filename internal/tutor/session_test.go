package tutor_test

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mllab/internal/catalog"
	"github.com/san-kum/mllab/internal/tutor"
)

var _ = Describe("Session", func() {
	var (
		provider *fakeProvider
		session  *tutor.Session
		pca      catalog.Topic
	)

	newSession := func(key string) *tutor.Session {
		a := tutor.NewAdapter(provider, key, tutor.WithLogger(log.New(io.Discard)))
		return tutor.NewSession(a, pca)
	}

	BeforeEach(func() {
		provider = &fakeProvider{chunks: []string{"Projection ", "keeps variance."}}
		pca, _ = catalog.Get("pca")
		session = newSession("key")
	})

	It("starts with a greeting naming the topic", func() {
		msgs := session.Messages()
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Role).To(Equal(tutor.RoleModel))
		Expect(msgs[0].Text).To(Equal("Hello! I'm your AI Tutor. I can help you understand **Principal Component Analysis** better. Ask me anything about the math or concepts!"))
		Expect(msgs[0].ID).NotTo(BeEmpty())
	})

	It("folds the reply into a placeholder after the question", func() {
		var seen []string
		reply, err := session.Ask(context.Background(), "What is PC1?", func(f string) { seen = append(seen, f) })
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("Projection keeps variance."))
		Expect(seen).To(Equal([]string{"Projection ", "keeps variance."}))

		msgs := session.Messages()
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[1]).To(And(
			HaveField("Role", tutor.RoleUser),
			HaveField("Text", "What is PC1?"),
		))
		Expect(msgs[2]).To(And(
			HaveField("Role", tutor.RoleModel),
			HaveField("Text", "Projection keeps variance."),
			HaveField("Thinking", false),
		))
		Expect(session.Loading()).To(BeFalse())
	})

	It("sends every earlier message as history", func() {
		_, err := session.Ask(context.Background(), "First?", nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = session.Ask(context.Background(), "Second?", nil)
		Expect(err).NotTo(HaveOccurred())

		req := provider.LastRequest()
		Expect(req.Message).To(Equal("Second?"))
		Expect(req.History).To(HaveLen(3))
		Expect(req.History[1]).To(Equal(tutor.Turn{Role: tutor.RoleUser, Text: "First?"}))
		Expect(req.History[2].Text).To(Equal("Projection keeps variance."))
	})

	It("shows a thinking placeholder until the first fragment", func() {
		stream, err := session.Begin(context.Background(), "Explain")
		Expect(err).NotTo(HaveOccurred())
		defer stream.Close()

		msgs := session.Messages()
		Expect(msgs[len(msgs)-1].Thinking).To(BeTrue())
		Expect(session.Loading()).To(BeTrue())

		frag, _ := stream.Next()
		session.Append(frag)
		msgs = session.Messages()
		Expect(msgs[len(msgs)-1].Thinking).To(BeFalse())
		Expect(msgs[len(msgs)-1].Text).To(Equal("Projection "))
	})

	It("rejects a second question while a reply is in progress", func() {
		stream, err := session.Begin(context.Background(), "One")
		Expect(err).NotTo(HaveOccurred())
		defer stream.Close()

		_, err = session.Begin(context.Background(), "Two")
		Expect(err).To(MatchError(tutor.ErrBusy))
		Expect(session.Messages()).To(HaveLen(3))

		session.Finish()
		Expect(session.Loading()).To(BeFalse())
	})

	It("keeps the conversation when a question on another topic arrives mid-reply", func() {
		stream, err := session.Begin(context.Background(), "One")
		Expect(err).NotTo(HaveOccurred())
		defer stream.Close()
		before := session.Messages()

		km, _ := catalog.Get("k-means")
		_, err = session.BeginOn(context.Background(), km, "Two")
		Expect(err).To(MatchError(tutor.ErrBusy))
		Expect(session.Topic().ID).To(Equal("pca"))
		Expect(session.Messages()).To(Equal(before))

		frag, _ := stream.Next()
		session.Append(frag)
		session.Finish()
		msgs := session.Messages()
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[2].Text).To(Equal("Projection "))
	})

	It("switches topic when a question on another topic is accepted", func() {
		km, _ := catalog.Get("k-means")
		stream, err := session.BeginOn(context.Background(), km, "What is inertia?")
		Expect(err).NotTo(HaveOccurred())
		defer stream.Close()

		Expect(session.Topic().ID).To(Equal("k-means"))
		msgs := session.Messages()
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[0].Text).To(ContainSubstring("K-Means Clustering"))
		Expect(msgs[1].Text).To(Equal("What is inertia?"))
		req := provider.LastRequest()
		Expect(req.SystemInstruction).To(ContainSubstring(km.Title))
		Expect(req.History).To(HaveLen(1))
		session.Finish()
	})

	It("rejects blank questions", func() {
		_, err := session.Ask(context.Background(), "   ", nil)
		Expect(err).To(MatchError(tutor.ErrEmptyQuestion))
		Expect(session.Messages()).To(HaveLen(1))
		Expect(provider.Calls()).To(BeZero())
	})

	It("answers with the missing key message and stops loading", func() {
		session = newSession("")
		reply, err := session.Ask(context.Background(), "Hi", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("Error: API Key is missing. Please check your configuration."))

		msgs := session.Messages()
		Expect(msgs[len(msgs)-1].Text).To(Equal(tutor.MissingKeyMessage))
		Expect(session.Loading()).To(BeFalse())
		Expect(provider.Calls()).To(BeZero())
	})

	It("replaces the conversation on topic switch", func() {
		_, _ = session.Ask(context.Background(), "Hi", nil)
		km, _ := catalog.Get("k-means")
		session.SetTopic(km)

		msgs := session.Messages()
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Text).To(Equal("We've switched topics. Ask me anything about **K-Means Clustering**!"))
		Expect(session.Topic().ID).To(Equal("k-means"))

		session.SetTopic(km)
		Expect(session.Messages()[0].ID).To(Equal(msgs[0].ID))
	})

	It("drops fragments of a reply abandoned by a topic switch", func() {
		stream, err := session.Begin(context.Background(), "Hi")
		Expect(err).NotTo(HaveOccurred())
		defer stream.Close()

		km, _ := catalog.Get("k-means")
		session.SetTopic(km)
		frag, _ := stream.Next()
		session.Append(frag)
		session.Finish()

		Expect(session.Messages()).To(HaveLen(1))
		Expect(session.Loading()).To(BeFalse())
	})
})
