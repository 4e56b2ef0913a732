// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"net/netip"

	"github.com/udx-io/udx/cmn"
	"github.com/udx-io/udx/logbuffer"
	"github.com/udx-io/udx/protocol"
)

// The preferred (tagged) strategy is min over the subset of receivers whose
// status messages carry the configured receiver tag. Until the first preferred
// receiver registers, it behaves as max so that a publication does not stall
// at startup; eviction of the last preferred receiver returns it to that mode.
type preferredStrategy struct {
	min         minStrategy
	receiverTag int32
}

// interface guard
var _ Strategy = (*preferredStrategy)(nil)

func newPreferred(args *SupplierArgs, opts *Options) *preferredStrategy {
	timeout := preferredReceiverTimeoutDflt()
	if opts.Timeout > 0 {
		timeout = int64(opts.Timeout)
	}
	return &preferredStrategy{
		min: minStrategy{
			metrics:         args.Metrics,
			receivers:       receiverTable{limit: cmn.Rom.FCMaxReceivers()},
			receiverTimeout: timeout,
		},
		receiverTag: opts.ReceiverTag,
	}
}

func (s *preferredStrategy) OnIdle(nowNanos, sndLmt, _ int64, _ bool) int64 {
	return s.min.idle(nowNanos, sndLmt)
}

func (s *preferredStrategy) OnStatusMessage(b []byte, _ netip.AddrPort, sndLmt int64,
	initialTermID int32, positionBitsToShift uint8, nowNanos int64) int64 {
	var sm protocol.StatusMessage
	if err := sm.Unmarshal(b); err != nil {
		return sndLmt
	}
	s.min.metrics.StatusMessage()
	var (
		position = logbuffer.ComputePosition(
			sm.ConsumptionTermID, sm.ConsumptionTermOffset, positionBitsToShift, initialTermID)
		windowLength  = int64(clampWindow(sm.ReceiverWindow))
		fromPreferred = sm.HasReceiverTag && sm.ReceiverTag == s.receiverTag
	)

	if !fromPreferred && s.min.receivers.len() == 0 {
		// no preferred receiver registered yet: behave as max for this SM
		return max(sndLmt, position+windowLength)
	}

	return s.min.applyPositionUpdate(position, windowLength, sm.ReceiverID, sndLmt, nowNanos, fromPreferred)
}

func (s *preferredStrategy) Fini() { s.min.Fini() }
