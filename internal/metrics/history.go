package metrics

// History keeps the most recent values of one metric for charting.
type History struct {
	capacity int
	values   []float64
}

func NewHistory(capacity int) *History {
	return &History{capacity: capacity, values: make([]float64, 0, capacity)}
}

func (h *History) Add(v float64) {
	h.values = append(h.values, v)
	if len(h.values) > h.capacity {
		h.values = h.values[1:]
	}
}

// Values returns the buffered values, oldest first.
func (h *History) Values() []float64 { return h.values }

func (h *History) Last() (float64, bool) {
	if len(h.values) == 0 {
		return 0, false
	}
	return h.values[len(h.values)-1], true
}

func (h *History) Len() int { return len(h.values) }

func (h *History) Reset() { h.values = h.values[:0] }
