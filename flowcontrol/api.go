// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"net/netip"

	"github.com/udx-io/udx/stats"
	"github.com/udx-io/udx/udp"
)

type (
	// Strategy is owned exclusively by its publication; the driver serializes all
	// calls on one thread. Operations never fail - they always return a valid
	// send limit. The returned value is authoritative: sndLmt is an input advisory
	// and the driver applies the result without further clamping.
	Strategy interface {
		// OnIdle is called on every driver duty-cycle tick.
		OnIdle(nowNanos, sndLmt, sndPos int64, isEndOfStream bool) int64
		// OnStatusMessage consumes one status-message frame.
		OnStatusMessage(sm []byte, recvAddr netip.AddrPort, sndLmt int64,
			initialTermID int32, positionBitsToShift uint8, nowNanos int64) int64
		// Fini releases the strategy's state; called exactly once at publication teardown.
		Fini()
	}

	// SupplierArgs describes the publication a strategy is constructed for.
	SupplierArgs struct {
		Channel        *udp.Channel
		Metrics        *stats.FlowControl // optional
		RegistrationID int64
		StreamID       int32
		InitialTermID  int32
		TermLength     int32
	}

	// Supplier constructs a Strategy once per publication.
	Supplier func(args *SupplierArgs) (Strategy, error)
)
