// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"net/netip"

	"github.com/udx-io/udx/logbuffer"
	"github.com/udx-io/udx/protocol"
	"github.com/udx-io/udx/stats"
)

// The max strategy lets the fastest receiver set the pace: no state, no
// per-receiver bookkeeping. Used for unicast and as the "max" multicast default.
type maxStrategy struct {
	metrics *stats.FlowControl
}

// interface guard
var _ Strategy = (*maxStrategy)(nil)

func (*maxStrategy) OnIdle(_, sndLmt, _ int64, _ bool) int64 { return sndLmt }

func (s *maxStrategy) OnStatusMessage(b []byte, _ netip.AddrPort, sndLmt int64,
	initialTermID int32, positionBitsToShift uint8, _ int64) int64 {
	var sm protocol.StatusMessage
	if err := sm.Unmarshal(b); err != nil {
		return sndLmt
	}
	s.metrics.StatusMessage()
	position := logbuffer.ComputePosition(
		sm.ConsumptionTermID, sm.ConsumptionTermOffset, positionBitsToShift, initialTermID)
	windowEdge := position + int64(clampWindow(sm.ReceiverWindow))
	return max(sndLmt, windowEdge)
}

func (*maxStrategy) Fini() {}

// receiver window is untrusted wire input
func clampWindow(window int32) int32 { return max(window, 0) }

func MaxMulticastSupplier(args *SupplierArgs) (Strategy, error) {
	return &maxStrategy{metrics: args.Metrics}, nil
}

func UnicastMaxSupplier(args *SupplierArgs) (Strategy, error) {
	return MaxMulticastSupplier(args)
}
