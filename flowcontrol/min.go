// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"math"
	"net/netip"

	"github.com/udx-io/udx/cmn"
	"github.com/udx-io/udx/logbuffer"
	"github.com/udx-io/udx/protocol"
	"github.com/udx-io/udx/stats"
)

// The min strategy tracks every receiver of the publication and holds the send
// limit at the minimum of their (position + window) edges, so the slowest
// receiver sets the pace. Receivers that go quiet for longer than
// receiverTimeout are evicted on the idle path.
type minStrategy struct {
	metrics         *stats.FlowControl
	receivers       receiverTable
	receiverTimeout int64 // ns
}

// interface guard
var _ Strategy = (*minStrategy)(nil)

func newMin(args *SupplierArgs, opts *Options) *minStrategy {
	timeout := minReceiverTimeoutDflt()
	if opts != nil && opts.Timeout > 0 {
		timeout = int64(opts.Timeout)
	}
	return &minStrategy{
		metrics:         args.Metrics,
		receivers:       receiverTable{limit: cmn.Rom.FCMaxReceivers()},
		receiverTimeout: timeout,
	}
}

func MinMulticastSupplier(args *SupplierArgs) (Strategy, error) {
	return newMin(args, nil), nil
}

func (s *minStrategy) OnIdle(nowNanos, sndLmt, _ int64, _ bool) int64 {
	return s.idle(nowNanos, sndLmt)
}

// idle evicts stale receivers and recomputes the min edge over the survivors.
// With receivers present the result may be below sndLmt - the driver treats it
// as the authoritative limit.
func (s *minStrategy) idle(nowNanos, sndLmt int64) int64 {
	minLimit := int64(math.MaxInt64)
	for i := s.receivers.len() - 1; i >= 0; i-- {
		rcv := &s.receivers.recvs[i]
		if nowNanos-rcv.timeOfLastSM > s.receiverTimeout {
			s.receivers.swapRemove(i)
			s.metrics.Evicted()
		} else {
			minLimit = min(minLimit, rcv.lastPositionPlusWindow)
		}
	}
	if s.receivers.len() > 0 {
		return minLimit
	}
	return sndLmt
}

func (s *minStrategy) OnStatusMessage(b []byte, _ netip.AddrPort, sndLmt int64,
	initialTermID int32, positionBitsToShift uint8, nowNanos int64) int64 {
	var sm protocol.StatusMessage
	if err := sm.Unmarshal(b); err != nil {
		return sndLmt
	}
	s.metrics.StatusMessage()
	position := logbuffer.ComputePosition(
		sm.ConsumptionTermID, sm.ConsumptionTermOffset, positionBitsToShift, initialTermID)
	return s.applyPositionUpdate(
		position, int64(clampWindow(sm.ReceiverWindow)), sm.ReceiverID, sndLmt, nowNanos, true)
}

func (s *minStrategy) Fini() { s.receivers.recvs = nil }

// applyPositionUpdate is the shared min/preferred update: one linear scan
// handles lookup, update, and the min-reduction together. fromPreferred gates
// whether this SM's receiver is tracked (pure min tracks every receiver).
func (s *minStrategy) applyPositionUpdate(position, windowLength, receiverID, sndLmt, nowNanos int64,
	fromPreferred bool) int64 {
	var (
		isExisting  bool
		minPosition = int64(math.MaxInt64)
	)
	for i := range s.receivers.recvs {
		rcv := &s.receivers.recvs[i]
		if fromPreferred && receiverID == rcv.receiverID {
			rcv.lastPosition = max(rcv.lastPosition, position)
			rcv.lastPositionPlusWindow = position + windowLength
			rcv.timeOfLastSM = nowNanos
			isExisting = true
		}
		minPosition = min(minPosition, rcv.lastPositionPlusWindow)
	}

	if fromPreferred && !isExisting {
		if s.receivers.add(receiver{
			lastPosition:           position,
			lastPositionPlusWindow: position + windowLength,
			timeOfLastSM:           nowNanos,
			receiverID:             receiverID,
		}) {
			s.metrics.Tracked()
			minPosition = min(minPosition, position+windowLength)
		} else if s.receivers.len() == 0 {
			// insert refused on an empty table: nothing seen, hold the limit
			minPosition = sndLmt
		}
	}

	return max(sndLmt, minPosition)
}
