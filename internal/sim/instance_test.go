package sim_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mllab/internal/sim"
)

var _ = Describe("Driver", func() {
	var d *sim.Driver

	BeforeEach(func() {
		d = &sim.Driver{}
	})

	AfterEach(func() {
		d.Stop()
	})

	It("calls the function until stopped", func() {
		var n atomic.Int64
		d.Start(context.Background(), time.Millisecond, func() { n.Add(1) })
		Eventually(n.Load).Should(BeNumerically(">=", 5))
		Expect(d.Running()).To(BeTrue())

		d.Stop()
		frozen := n.Load()
		Consistently(n.Load, 50*time.Millisecond, 5*time.Millisecond).Should(Equal(frozen))
		Expect(d.Running()).To(BeFalse())
	})

	It("keeps a single loop across restarts", func() {
		var active, peak atomic.Int64
		fn := func() {
			cur := active.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(100 * time.Microsecond)
			active.Add(-1)
		}
		for i := 0; i < 20; i++ {
			d.Start(context.Background(), time.Millisecond, fn)
			time.Sleep(2 * time.Millisecond)
		}
		d.Stop()
		Expect(peak.Load()).To(BeNumerically("<=", 1))
	})

	It("stops when the parent context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		d.Start(ctx, time.Millisecond, func() {})
		cancel()
		Eventually(d.Running).Should(BeFalse())
	})

	It("tolerates Stop without Start", func() {
		Expect(d.Stop).NotTo(Panic())
		Expect(d.Running()).To(BeFalse())
	})
})

var _ = Describe("Instance", func() {
	var in *sim.Instance

	BeforeEach(func() {
		in = sim.NewInstance(sim.NewLinearRegression(), 42, time.Millisecond)
	})

	AfterEach(func() {
		in.Stop()
	})

	It("trains until stopped and then holds its state", func() {
		Expect(in.Train(context.Background())).To(Succeed())
		Eventually(func() int { return in.Snapshot().Epoch }).Should(BeNumerically(">", 3))

		in.Stop()
		snap := in.Snapshot()
		Expect(snap.Training).To(BeFalse())
		Consistently(func() int { return in.Snapshot().Epoch }, 50*time.Millisecond, 5*time.Millisecond).
			Should(Equal(snap.Epoch))
	})

	It("toggles between training and idle", func() {
		Expect(in.Toggle(context.Background())).To(Succeed())
		Expect(in.Training()).To(BeTrue())
		Expect(in.Toggle(context.Background())).To(Succeed())
		Expect(in.Training()).To(BeFalse())
	})

	It("forces idle and zeroes the epoch on reset", func() {
		Expect(in.Train(context.Background())).To(Succeed())
		Eventually(func() int { return in.Snapshot().Epoch }).Should(BeNumerically(">", 0))

		in.Reset()
		Expect(in.Training()).To(BeFalse())
		Expect(in.Snapshot().Epoch).To(Equal(0))
	})

	It("notifies observers on every step", func() {
		var seen []int
		in.AddObserver(sim.ObserverFunc(func(s sim.Snapshot) { seen = append(seen, s.Epoch) }))
		in.Step()
		in.Step()
		Expect(seen).To(Equal([]int{1, 2}))
	})

	It("rejects training for manual visualizations", func() {
		pca := sim.NewInstance(sim.NewPCA(), 1, 0)
		Expect(pca.Train(context.Background())).To(MatchError(sim.ErrNotTrainable))
		Expect(pca.Project()).To(Succeed())
		Expect(pca.Snapshot().Scene.Status).To(ContainSubstring("projected"))
	})

	It("rejects projection on non-projectors", func() {
		Expect(in.Project()).To(MatchError(sim.ErrUnsupported))
		Expect(in.Vectors()).To(MatchError(sim.ErrUnsupported))
	})

	It("forwards parameters", func() {
		Expect(in.SetParam("learning_rate", 1e-5)).To(Succeed())
		Expect(in.Snapshot().Params).To(HaveKeyWithValue("learning_rate", 1e-5))
		Expect(in.SetParam("bogus", 1)).To(MatchError(sim.ErrUnknownParam))
	})

	It("applies a parameter batch atomically", func() {
		Expect(in.SetParam("learning_rate", 1e-5)).To(Succeed())
		err := in.SetParams(map[string]float64{"learning_rate": 2e-4, "momentum": 0.9})
		Expect(err).To(MatchError(sim.ErrUnknownParam))
		Expect(in.Snapshot().Params).To(Equal(map[string]float64{"learning_rate": 1e-5}))

		Expect(in.SetParams(map[string]float64{"learning_rate": 2e-4})).To(Succeed())
		Expect(in.Snapshot().Params).To(HaveKeyWithValue("learning_rate", 2e-4))
	})
})
