package api_test

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mllab/internal/api"
	"github.com/san-kum/mllab/internal/catalog"
	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/metrics"
	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/tutor"
)

type replayProvider struct{ chunks []string }

func (p replayProvider) Stream(ctx context.Context, req tutor.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range p.chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func decode[T any](resp *http.Response) T {
	defer resp.Body.Close()
	var v T
	Expect(json.NewDecoder(resp.Body).Decode(&v)).To(Succeed())
	return v
}

var _ = Describe("Server", func() {
	var (
		server  *api.Server
		session *tutor.Session
		ts      *httptest.Server
	)

	BeforeEach(func() {
		logger := log.New(io.Discard)
		adapter := tutor.NewAdapter(replayProvider{chunks: []string{"A line ", "fits."}}, "key", tutor.WithLogger(logger))
		session = tutor.NewSession(adapter, catalog.First())
		server = api.NewServer(experiment.NewRegistry(), session, 1, logger)
		ts = httptest.NewServer(server.Handler())
	})

	AfterEach(func() {
		ts.Close()
		server.Close()
	})

	post := func(path, body string) *http.Response {
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	get := func(path string) *http.Response {
		resp, err := http.Get(ts.URL + path)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	put := func(path, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, ts.URL+path, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("topics", func() {
		It("lists the catalog in order", func() {
			resp := get("/api/v1/topics")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			topics := decode[[]map[string]any](resp)
			Expect(topics).To(HaveLen(5))
			Expect(topics[0]["id"]).To(Equal("intro"))
		})

		It("returns one topic with its math", func() {
			t := decode[catalog.Topic](get("/api/v1/topics/pca"))
			Expect(t.Title).To(Equal("Principal Component Analysis"))
			Expect(t.Math).NotTo(BeEmpty())
		})

		It("answers 404 with a message for unknown topics", func() {
			resp := get("/api/v1/topics/nope")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(decode[map[string]string](resp)["msg"]).NotTo(BeEmpty())
		})
	})

	Describe("visualizations", func() {
		It("steps and resets linear regression", func() {
			snap := decode[sim.Snapshot](post("/api/v1/viz/linear-regression/step", ""))
			Expect(snap.Epoch).To(Equal(1))
			Expect(snap.Scene.Markers).To(HaveLen(20))

			snap = decode[sim.Snapshot](post("/api/v1/viz/linear-regression/reset", ""))
			Expect(snap.Epoch).To(Equal(0))
			Expect(snap.Training).To(BeFalse())
		})

		It("trains until stopped", func() {
			resp := post("/api/v1/viz/linear-regression/train", "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()

			Eventually(func() int {
				return decode[sim.Snapshot](get("/api/v1/viz/linear-regression")).Epoch
			}).WithTimeout(2 * time.Second).Should(BeNumerically(">", 2))

			stopped := decode[sim.Snapshot](post("/api/v1/viz/linear-regression/stop", ""))
			Expect(stopped.Training).To(BeFalse())
			Consistently(func() int {
				return decode[sim.Snapshot](get("/api/v1/viz/linear-regression")).Epoch
			}).WithTimeout(100 * time.Millisecond).Should(Equal(stopped.Epoch))
		})

		It("refuses to train PCA", func() {
			resp := post("/api/v1/viz/pca/train", "")
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			resp.Body.Close()
		})

		It("toggles the PCA projection", func() {
			before := decode[sim.Snapshot](get("/api/v1/viz/pca"))
			projected := decode[sim.Snapshot](post("/api/v1/viz/pca/project", ""))
			Expect(projected.Scene.Segments).To(HaveLen(len(before.Scene.Segments) + 40))
			restored := decode[sim.Snapshot](post("/api/v1/viz/pca/project", ""))
			Expect(restored.Scene.Markers).To(Equal(before.Scene.Markers))
		})

		It("rejects projection on other visualizations", func() {
			resp := post("/api/v1/viz/k-means/vectors", "")
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			resp.Body.Close()
		})

		It("updates parameters", func() {
			req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/viz/linear-regression/params", strings.NewReader(`{"learning_rate": 0.0002}`))
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(decode[sim.Snapshot](resp).Params).To(HaveKeyWithValue("learning_rate", 0.0002))

			req, _ = http.NewRequest(http.MethodPut, ts.URL+"/api/v1/viz/linear-regression/params", strings.NewReader(`{"momentum": 1}`))
			resp, err = http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			resp.Body.Close()
		})

		It("rejects a parameter batch with an unknown name without applying any of it", func() {
			before := decode[sim.Snapshot](get("/api/v1/viz/linear-regression")).Params
			resp := put("/api/v1/viz/linear-regression/params", `{"learning_rate": 0.0002, "momentum": 1}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			resp.Body.Close()

			after := decode[sim.Snapshot](get("/api/v1/viz/linear-regression")).Params
			Expect(after).To(Equal(before))
		})

		It("reports a diverged model as valid JSON", func() {
			resp := put("/api/v1/viz/linear-regression/params", `{"learning_rate": 10}`)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()
			for i := 0; i < 400; i++ {
				resp = post("/api/v1/viz/linear-regression/step", "")
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			}

			resp = get("/api/v1/viz/linear-regression")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			snap := decode[sim.Snapshot](resp)
			Expect(snap.Epoch).To(Equal(400))
			Expect(snap.Metrics).To(HaveKeyWithValue(metrics.NameDiverged, 1.0))
			Expect(snap.Metrics).NotTo(HaveKey(metrics.NameMSE))
			Expect(snap.Scene.Markers).To(HaveLen(20))

			svg := get("/api/v1/viz/linear-regression/scene.svg")
			body, _ := io.ReadAll(svg.Body)
			svg.Body.Close()
			Expect(svg.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).NotTo(ContainSubstring("NaN"))
		})

		It("renders the scene as SVG", func() {
			resp := get("/api/v1/viz/k-means/scene.svg")
			defer resp.Body.Close()
			Expect(resp.Header.Get("Content-Type")).To(Equal("image/svg+xml"))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring("<circle"))
		})

		It("answers 404 for unknown visualizations and actions", func() {
			resp := get("/api/v1/viz/svm")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			resp.Body.Close()

			resp = post("/api/v1/viz/pca/explode", "")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			resp.Body.Close()
		})
	})

	Describe("tutor", func() {
		It("streams the reply and records the conversation", func() {
			resp := post("/api/v1/topics/linear-regression/ask", `{"question": "what is a line?"}`)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(Equal("A line fits."))

			Expect(session.Topic().ID).To(Equal("linear-regression"))
			Expect(session.Loading()).To(BeFalse())
			msgs := session.Messages()
			Expect(msgs).To(HaveLen(3))
			Expect(msgs[2].Text).To(Equal("A line fits."))
		})

		It("refuses a question on another topic while a reply streams", func() {
			stream, err := session.Begin(context.Background(), "Why intro?")
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()
			before := session.Messages()

			resp := post("/api/v1/topics/pca/ask", `{"question": "what is a component?"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			resp.Body.Close()

			Expect(session.Topic().ID).To(Equal("intro"))
			Expect(session.Messages()).To(Equal(before))
			session.Finish()
		})

		It("rejects blank questions", func() {
			resp := post("/api/v1/topics/pca/ask", `{"question": "  "}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			resp.Body.Close()
		})

		It("exposes the chat history", func() {
			chat := decode[map[string]any](get("/api/v1/chat"))
			Expect(chat["topic"]).To(Equal("intro"))
			Expect(chat["messages"]).To(HaveLen(1))
		})
	})
})
