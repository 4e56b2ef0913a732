// Package cmn provides common constants, types, and utilities for the udx driver
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package cmn

import "time"

// read-mostly defaults: assigned at startup, then read from hot paths without locking

type readMostly struct {
	fcReceiverTimeout time.Duration
	fcMaxReceivers    int
}

var Rom readMostly

func init() { Rom.fcReceiverTimeout = 5 * time.Second }

func (rom *readMostly) Set(cfg *Config) {
	if d := cfg.FlowControl.ReceiverTimeoutD(); d > 0 {
		rom.fcReceiverTimeout = d
	}
	rom.fcMaxReceivers = cfg.FlowControl.MaxReceivers
}

func (rom *readMostly) FCReceiverTimeout() time.Duration { return rom.fcReceiverTimeout }
func (rom *readMostly) FCMaxReceivers() int              { return rom.fcMaxReceivers }
