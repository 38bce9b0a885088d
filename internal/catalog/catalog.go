// Package catalog holds the fixed, ordered set of ML topics.
package catalog

import (
	"errors"
	"fmt"

	"github.com/san-kum/mllab/internal/sim"
)

var ErrUnknownTopic = errors.New("catalog: unknown topic")

type LearningType string

const (
	Supervised   LearningType = "Supervised Learning"
	Unsupervised LearningType = "Unsupervised Learning"
	General      LearningType = "General Concepts"
)

// MathSection is one formula block. Formula is LaTeX source and may be empty.
type MathSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Formula string `json:"formula,omitempty"`
}

type Topic struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Type        LearningType  `json:"type"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	Math        []MathSection `json:"math"`
	UseCases    []string      `json:"use_cases"`
	Viz         sim.Kind      `json:"viz"`
}

// Group is the topics sharing one learning type, in catalog order.
type Group struct {
	Type   LearningType
	Topics []Topic
}

// All returns the topics in display order.
func All() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

func Get(id string) (Topic, error) {
	for _, t := range topics {
		if t.ID == id {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("%w: %s", ErrUnknownTopic, id)
}

// First is the topic shown on startup.
func First() Topic { return topics[0] }

// Grouped returns the topics grouped by learning type. Groups appear in the
// order their first topic appears in the catalog.
func Grouped() []Group {
	var groups []Group
	index := make(map[LearningType]int)
	for _, t := range topics {
		i, ok := index[t.Type]
		if !ok {
			i = len(groups)
			index[t.Type] = i
			groups = append(groups, Group{Type: t.Type})
		}
		groups[i].Topics = append(groups[i].Topics, t)
	}
	return groups
}
