// Package cos provides common low-level types and utilities for the udx driver
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package cos

import (
	"fmt"
)

type (
	ErrNotFound struct {
		what string
	}
)

// ErrNotFound

func NewErrNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.what + " does not exist" }

func IsErrNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}
