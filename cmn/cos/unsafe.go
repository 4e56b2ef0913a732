// Package cos provides common low-level types and utilities for the udx driver
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package cos

import "unsafe"

// cast (reinterpret) without copying; the result must not be mutated

func UnsafeB(s string) []byte { return unsafe.Slice(unsafe.StringData(s), len(s)) }
