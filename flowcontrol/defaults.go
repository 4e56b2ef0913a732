// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"os"
	"sync"

	"github.com/udx-io/udx/api/env"
	"github.com/udx-io/udx/cmn"
	"github.com/udx-io/udx/cmn/cos"
	"github.com/udx-io/udx/cmn/nlog"
)

// Process-wide default receiver timeouts for the min and preferred strategies.
// Each is resolved from its environment variable at most once per process and
// is read-only thereafter; the `t:` URI field overrides per publication.

var (
	minTimeout struct {
		once sync.Once
		ns   int64
	}
	preferredTimeout struct {
		once sync.Once
		ns   int64
	}
)

func minReceiverTimeoutDflt() int64 {
	minTimeout.once.Do(func() {
		minTimeout.ns = timeoutFromEnv(env.UDX.MinFCReceiverTimeout)
	})
	return minTimeout.ns
}

func preferredReceiverTimeoutDflt() int64 {
	preferredTimeout.once.Do(func() {
		preferredTimeout.ns = timeoutFromEnv(env.UDX.PreferredFCReceiverTimeout)
	})
	return preferredTimeout.ns
}

func timeoutFromEnv(name string) int64 {
	dflt := int64(cmn.Rom.FCReceiverTimeout())
	s := os.Getenv(name)
	if s == "" {
		return dflt
	}
	d, err := cos.ParseDuration(s)
	if err != nil || d <= 0 {
		nlog.Warningf("%s: invalid duration %q, using default %dns", name, s, dflt)
		return dflt
	}
	return int64(d)
}
