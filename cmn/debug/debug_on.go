//go:build debug

// Package debug provides debug utilities
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package debug

import (
	"fmt"

	"github.com/udx-io/udx/cmn/nlog"
)

func ON() bool { return true }

func Infof(f string, a ...any) { nlog.InfoDepth(1, fmt.Sprintf(f, a...)) }

func Func(f func()) { f() }

func Assert(cond bool, a ...any) {
	if !cond {
		msg := "assertion failed"
		if len(a) > 0 {
			msg += ": " + fmt.Sprint(a...)
		}
		nlog.Flush(true)
		panic(msg)
	}
}

func AssertFunc(f func() bool, a ...any) { Assert(f(), a...) }

func AssertNoErr(err error) {
	if err != nil {
		nlog.Flush(true)
		panic(err)
	}
}

func Assertf(cond bool, f string, a ...any) {
	if !cond {
		Assert(cond, fmt.Sprintf(f, a...))
	}
}
