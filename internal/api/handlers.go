package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/san-kum/mllab/internal/catalog"
	"github.com/san-kum/mllab/internal/export"
	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/tutor"
)

type topicSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Viz         sim.Kind `json:"viz"`
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	out := make([]topicSummary, len(all))
	for i, t := range all {
		out[i] = topicSummary{ID: t.ID, Title: t.Title, Type: string(t.Type), Description: t.Description, Viz: t.Viz}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	t, err := catalog.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Not Found target topic.")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type askRequest struct {
	Question string `json:"question"`
}

// handleAsk streams the tutor reply as chunked plain text. The session
// switches to the requested topic first, which resets the conversation
// when the topic changes.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		writeError(w, http.StatusServiceUnavailable, "Tutor is not configured.")
		return
	}
	t, err := catalog.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Not Found target topic.")
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	stream, err := s.session.BeginOn(r.Context(), t, req.Question)
	switch {
	case errors.Is(err, tutor.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, tutor.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer s.session.Finish()
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for {
		frag, ok := stream.Next()
		if !ok {
			break
		}
		s.session.Append(frag)
		fmt.Fprint(w, frag)
		if flusher != nil {
			flusher.Flush()
		}
	}
	if err := stream.Err(); err != nil {
		s.logger.Warn("tutor reply failed", "topic", t.ID, "err", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		writeError(w, http.StatusServiceUnavailable, "Tutor is not configured.")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Topic    string          `json:"topic"`
		Loading  bool            `json:"loading"`
		Messages []tutor.Message `json:"messages"`
	}{s.session.Topic().ID, s.session.Loading(), s.session.Messages()})
}

func (s *Server) handleVizList(w http.ResponseWriter, r *http.Request) {
	out := make([]sim.Snapshot, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.instances[name].Snapshot())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) instance(w http.ResponseWriter, r *http.Request) (*sim.Instance, bool) {
	name := mux.Vars(r)["type"]
	in, ok := s.instances[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown visualization: %s", name))
	}
	return in, ok
}

func (s *Server) handleViz(w http.ResponseWriter, r *http.Request) {
	in, ok := s.instance(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, in.Snapshot())
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	in, ok := s.instance(w, r)
	if !ok {
		return
	}
	snap := in.Snapshot()
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	export.WriteScene(w, snap.Scene, 600, 400, nil)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	in, ok := s.instance(w, r)
	if !ok {
		return
	}

	var err error
	switch mux.Vars(r)["action"] {
	case "train":
		err = in.Train(s.ctx)
	case "stop":
		in.Stop()
	case "step":
		in.Step()
	case "reset":
		in.Reset()
	case "project":
		err = in.Project()
	case "vectors":
		err = in.Vectors()
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, in.Snapshot())
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	in, ok := s.instance(w, r)
	if !ok {
		return
	}
	var params map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := in.SetParams(params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, in.Snapshot())
}
