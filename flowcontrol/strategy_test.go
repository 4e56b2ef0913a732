// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/udx-io/udx/cmn/mono"
	"github.com/udx-io/udx/stats"
)

const (
	shift16  = uint8(16) // term length 64KiB
	mcastURI = "udx:udp?endpoint=224.10.9.8:40456"
	minURI   = mcastURI + "|fc=min"
	minTURI  = mcastURI + "|fc=min,t:1s"
	prefURI  = mcastURI + "|fc=min,g:42"
	prefTURI = mcastURI + "|fc=min,g:42,t:500ms"
	maxFCURI = mcastURI + "|fc=max"
)

func mustSelect(uri string) Strategy {
	strategy, err := SelectDefaultMulticast(testArgs(uri), MaxMulticastSupplier)
	Expect(err).NotTo(HaveOccurred())
	return strategy
}

var _ = Describe("max strategy", func() {
	It("should advance the limit to position plus window", func() {
		strategy := mustSelect(maxFCURI)
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 4096, 65536, 1), recvAddr, 0, 0, shift16, 0)
		Expect(limit).To(Equal(int64(69632)))
	})

	It("should never regress below the current limit", func() {
		strategy := mustSelect(maxFCURI)
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 0, 1024, 1), recvAddr, 500000, 0, shift16, 0)
		Expect(limit).To(Equal(int64(500000)))
	})

	It("should track the fastest receiver", func() {
		strategy := mustSelect(maxFCURI)
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 4096, 65536, 1), recvAddr, 0, 0, shift16, 0)
		limit = strategy.OnStatusMessage(smBytes(0, 1024, 1024, 2), recvAddr, limit, 0, shift16, 0)
		Expect(limit).To(Equal(int64(69632)))
	})

	It("should leave the limit unchanged on idle", func() {
		strategy := mustSelect(maxFCURI)
		defer strategy.Fini()
		Expect(strategy.OnIdle(time.Second.Nanoseconds(), 12345, 0, false)).To(Equal(int64(12345)))
	})

	It("should compute positions across term rotation", func() {
		strategy := mustSelect(maxFCURI)
		defer strategy.Fini()
		// term 3 at offset 4096: position = 3*64KiB + 4096
		limit := strategy.OnStatusMessage(smBytes(3, 4096, 0, 1), recvAddr, 0, 0, shift16, 0)
		Expect(limit).To(Equal(int64(3*64*1024 + 4096)))
	})

	It("should clamp a negative receiver window", func() {
		strategy := mustSelect(maxFCURI)
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 4096, -1, 1), recvAddr, 0, 0, shift16, 0)
		Expect(limit).To(Equal(int64(4096)))
	})
})

var _ = Describe("min strategy", func() {
	It("should hold the limit at the slowest receiver", func() {
		strategy := mustSelect(minURI)
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 34464, 65536, 1), recvAddr, 0, 0, shift16, 0) // edge 100000
		strategy.OnStatusMessage(smBytes(0, 14464, 65536, 2), recvAddr, 0, 0, shift16, 0) // edge 80000
		Expect(strategy.OnIdle(0, 0, 0, false)).To(Equal(int64(80000)))
	})

	It("should return max(sndLmt, min edge) on every status message", func() {
		strategy := mustSelect(minURI)
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 0, 1000, 1), recvAddr, 0, 0, shift16, 0)
		Expect(limit).To(Equal(int64(1000)))
		limit = strategy.OnStatusMessage(smBytes(0, 0, 4000, 2), recvAddr, limit, 0, shift16, 0)
		Expect(limit).To(Equal(int64(1000)))
		limit = strategy.OnStatusMessage(smBytes(0, 2000, 1000, 1), recvAddr, limit, 0, shift16, 0)
		Expect(limit).To(Equal(int64(3000)))
	})

	It("should keep last_position monotonic for a receiver", func() {
		strategy := mustSelect(minURI).(*minStrategy)
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 5000, 100, 7), recvAddr, 0, 0, shift16, 0)
		strategy.OnStatusMessage(smBytes(0, 3000, 100, 7), recvAddr, 0, 0, shift16, 0) // out of order
		Expect(strategy.receivers.len()).To(Equal(1))
		Expect(strategy.receivers.recvs[0].lastPosition).To(Equal(int64(5000)))
		// the window edge, in contrast, follows the latest SM
		Expect(strategy.receivers.recvs[0].lastPositionPlusWindow).To(Equal(int64(3100)))
	})

	It("should treat one receiver id from two addresses as one receiver", func() {
		strategy := mustSelect(minURI).(*minStrategy)
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 0, 100, 7), recvAddr, 0, 0, shift16, 0)
		strategy.OnStatusMessage(smBytes(0, 64, 100, 7), otherAddr, 0, 0, shift16, 0)
		Expect(strategy.receivers.len()).To(Equal(1))
		Expect(strategy.receivers.recvs[0].lastPosition).To(Equal(int64(64)))
	})

	It("should evict a receiver that went quiet and recompute the min", func() {
		strategy := mustSelect(minTURI) // t:1s
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 34464, 65536, 1), recvAddr, 0, 0, shift16, 0)
		strategy.OnStatusMessage(smBytes(0, 14464, 65536, 2), recvAddr, 0, 0, shift16, time.Second.Nanoseconds()+1)
		// receiver 1 (t=0) is now stale, receiver 2 survives
		limit := strategy.OnIdle(time.Second.Nanoseconds()+2, 0, 0, false)
		Expect(limit).To(Equal(int64(80000)))
	})

	It("should return sndLmt once every receiver is evicted", func() {
		strategy := mustSelect(minTURI)
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 0, 65536, 1), recvAddr, 0, 0, shift16, 0)
		limit := strategy.OnIdle(2*time.Second.Nanoseconds(), 77777, 0, false)
		Expect(limit).To(Equal(int64(77777)))
	})

	It("should not evict at exactly the timeout boundary", func() {
		strategy := mustSelect(minTURI).(*minStrategy)
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 0, 65536, 1), recvAddr, 0, 0, shift16, 0)
		strategy.OnIdle(time.Second.Nanoseconds(), 0, 0, false)
		Expect(strategy.receivers.len()).To(Equal(1))
		strategy.OnIdle(time.Second.Nanoseconds()+1, 0, 0, false)
		Expect(strategy.receivers.len()).To(Equal(0))
	})

	It("should let the limit retreat when a window shrinks", func() {
		strategy := mustSelect(minURI)
		defer strategy.Fini()
		strategy.OnStatusMessage(smBytes(0, 0, 64000, 1), recvAddr, 0, 0, shift16, 0)
		strategy.OnStatusMessage(smBytes(0, 0, 1000, 1), recvAddr, 0, 0, shift16, 0)
		Expect(strategy.OnIdle(0, 0, 0, false)).To(Equal(int64(1000)))
	})

	It("should keep fresh receivers under a live clock", func() {
		strategy := mustSelect(minURI)
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 0, 1000, 1), recvAddr, 0, 0, shift16, mono.NanoTime())
		Expect(strategy.OnIdle(mono.NanoTime(), limit, 0, false)).To(Equal(int64(1000)))
	})

	It("should evict many receivers in one idle pass", func() {
		strategy := mustSelect(minTURI).(*minStrategy)
		defer strategy.Fini()
		for id := int64(1); id <= 8; id++ {
			nowNanos := int64(0)
			if id%2 == 0 {
				nowNanos = time.Second.Nanoseconds() // these survive
			}
			strategy.OnStatusMessage(smBytes(0, int32(id*100), 100, id), recvAddr, 0, 0, shift16, nowNanos)
		}
		strategy.OnIdle(2*time.Second.Nanoseconds(), 0, 0, false)
		Expect(strategy.receivers.len()).To(Equal(4))
		for i := range strategy.receivers.recvs {
			Expect(strategy.receivers.recvs[i].receiverID % 2).To(Equal(int64(0)))
		}
	})
})

var _ = Describe("receiver table", func() {
	It("should grow by doubling from capacity 2", func() {
		var rt receiverTable
		for id := int64(1); id <= 5; id++ {
			Expect(rt.add(receiver{receiverID: id})).To(BeTrue())
		}
		Expect(rt.len()).To(Equal(5))
		Expect(cap(rt.recvs)).To(Equal(8))
	})

	It("should refuse inserts at the configured cap and keep functioning", func() {
		rt := receiverTable{limit: 2}
		Expect(rt.add(receiver{receiverID: 1})).To(BeTrue())
		Expect(rt.add(receiver{receiverID: 2})).To(BeTrue())
		Expect(rt.add(receiver{receiverID: 3})).To(BeFalse())
		Expect(rt.len()).To(Equal(2))
	})

	It("should remove by swapping with the last element", func() {
		var rt receiverTable
		for id := int64(1); id <= 3; id++ {
			rt.add(receiver{receiverID: id})
		}
		rt.swapRemove(0)
		Expect(rt.len()).To(Equal(2))
		Expect(rt.recvs[0].receiverID).To(Equal(int64(3)))
	})
})

var _ = Describe("flow control metrics", func() {
	It("should account SMs, tracked receivers, and evictions", func() {
		var (
			reg  = prometheus.NewRegistry()
			args = testArgs(minTURI)
		)
		args.Metrics = stats.NewFlowControl(reg, args.Channel.String(), args.StreamID)
		strategy, err := SelectDefaultMulticast(args, MaxMulticastSupplier)
		Expect(err).NotTo(HaveOccurred())
		defer strategy.Fini()

		strategy.OnStatusMessage(smBytes(0, 0, 100, 1), recvAddr, 0, 0, shift16, 0)
		strategy.OnStatusMessage(smBytes(0, 0, 100, 2), recvAddr, 0, 0, shift16, 0)
		strategy.OnIdle(2*time.Second.Nanoseconds(), 0, 0, false)

		mfs, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		values := make(map[string]float64, len(mfs))
		for _, mf := range mfs {
			for _, m := range mf.GetMetric() {
				if m.GetCounter() != nil {
					values[mf.GetName()] = m.GetCounter().GetValue()
				} else if m.GetGauge() != nil {
					values[mf.GetName()] = m.GetGauge().GetValue()
				}
			}
		}
		Expect(values["udx_flow_control_status_messages_total"]).To(Equal(float64(2)))
		Expect(values["udx_flow_control_receiver_evictions_total"]).To(Equal(float64(2)))
		Expect(values["udx_flow_control_tracked_receivers"]).To(Equal(float64(0)))
	})
})

var _ = Describe("capped min strategy", func() {
	It("should drop the insert but still compute the limit from tracked receivers", func() {
		strategy := mustSelect(minURI).(*minStrategy)
		strategy.receivers.limit = 1
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 0, 1000, 1), recvAddr, 0, 0, shift16, 0)
		Expect(limit).To(Equal(int64(1000)))
		// table full: receiver 2 is not inserted, limit still reflects receiver 1
		limit = strategy.OnStatusMessage(smBytes(0, 0, 500, 2), recvAddr, 0, 0, shift16, 0)
		Expect(limit).To(Equal(int64(1000)))
		Expect(strategy.receivers.len()).To(Equal(1))
	})

	It("should hold sndLmt when the insert into an empty table is refused", func() {
		strategy := mustSelect(minURI).(*minStrategy)
		strategy.receivers.limit = -1 // refuse everything
		defer strategy.Fini()
		limit := strategy.OnStatusMessage(smBytes(0, 0, 1000, 1), recvAddr, 250, 0, shift16, 0)
		Expect(limit).To(Equal(int64(250)))
		Expect(strategy.receivers.len()).To(Equal(0))
	})
})
