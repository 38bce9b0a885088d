package catalog

import (
	"errors"
	"testing"

	"github.com/san-kum/mllab/internal/sim"
)

func TestAllOrder(t *testing.T) {
	want := []string{"intro", "linear-regression", "neural-networks", "k-means", "pca"}
	got := All()
	if len(got) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("topic %d: got %s, want %s", i, got[i].ID, id)
		}
	}
	if First().ID != "intro" {
		t.Errorf("expected intro first, got %s", First().ID)
	}
}

func TestAllIsACopy(t *testing.T) {
	a := All()
	a[0].Title = "changed"
	if All()[0].Title == "changed" {
		t.Error("All must not expose the catalog backing array")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id   string
		viz  sim.Kind
		math int
	}{
		{"intro", sim.KindNone, 0},
		{"linear-regression", sim.KindLinear, 3},
		{"neural-networks", sim.KindNeural, 1},
		{"k-means", sim.KindKMeans, 1},
		{"pca", sim.KindPCA, 2},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			topic, err := Get(tt.id)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if topic.Viz != tt.viz {
				t.Errorf("viz %s, want %s", topic.Viz, tt.viz)
			}
			if len(topic.Math) != tt.math {
				t.Errorf("%d math sections, want %d", len(topic.Math), tt.math)
			}
			if len(topic.UseCases) != 3 {
				t.Errorf("expected 3 use cases, got %d", len(topic.UseCases))
			}
		})
	}

	if _, err := Get("svm"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("expected ErrUnknownTopic, got %v", err)
	}
}

func TestGrouped(t *testing.T) {
	groups := Grouped()
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Type != General || groups[1].Type != Supervised || groups[2].Type != Unsupervised {
		t.Errorf("unexpected group order: %s, %s, %s", groups[0].Type, groups[1].Type, groups[2].Type)
	}
	if len(groups[1].Topics) != 2 || len(groups[2].Topics) != 2 {
		t.Errorf("unexpected group sizes")
	}
}
