// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import "github.com/udx-io/udx/cmn/debug"

// One record per distinct receiver of the publication. lastPosition never moves
// backward; lastPositionPlusWindow may (the advertised window can shrink).
type receiver struct {
	lastPosition           int64
	lastPositionPlusWindow int64
	timeOfLastSM           int64
	receiverID             int64
}

// receiverTable is an unordered array keyed by receiverID via linear scan:
// table sizes are small (typically <= tens of receivers), which makes a scan
// cheaper than a hash map. Grows by doubling from capacity 2; removal swaps
// with the last element.
type receiverTable struct {
	recvs []receiver
	limit int // 0 - unbounded; > 0 - hard cap on tracked receivers; < 0 - refuse all
}

func (rt *receiverTable) len() int { return len(rt.recvs) }

func (rt *receiverTable) add(rcv receiver) bool {
	if rt.limit < 0 || (rt.limit > 0 && len(rt.recvs) >= rt.limit) {
		return false
	}
	if len(rt.recvs) == cap(rt.recvs) {
		rt.grow()
	}
	rt.recvs = append(rt.recvs, rcv)
	return true
}

func (rt *receiverTable) grow() {
	capacity := cap(rt.recvs) * 2
	if capacity == 0 {
		capacity = 2
	}
	recvs := make([]receiver, len(rt.recvs), capacity)
	copy(recvs, rt.recvs)
	rt.recvs = recvs
}

// swapRemove must be driven by a backwards index-based walk (or any iteration
// that tolerates unordered removal).
func (rt *receiverTable) swapRemove(i int) {
	debug.Assert(i >= 0 && i < len(rt.recvs), i)
	last := len(rt.recvs) - 1
	rt.recvs[i] = rt.recvs[last]
	rt.recvs = rt.recvs[:last]
}
