// Package cos provides common low-level types and utilities for the udx driver
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package cos

import (
	"strconv"
	"time"
)

// ParseDuration is a superset of time.ParseDuration: a bare unsigned decimal
// is interpreted as nanoseconds.
func ParseDuration(s string) (time.Duration, error) {
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		if ns, err := strconv.ParseUint(s, 10, 63); err == nil {
			return time.Duration(ns), nil
		}
	}
	return time.ParseDuration(s)
}
