// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/udx-io/udx/cmn/cos"
)

// `fc` channel-URI parameter grammar (comma-separated, no whitespace):
//
//	fc = strategy_name ( "," field )*
//	field = "t:" duration | "g:" int32
//
// e.g. fc=min,g:12345,t:5s

const fcNumberBufferLen = 64

type (
	// Options is the parsed `fc` value. StrategyName borrows from the input
	// string and must not outlive it.
	Options struct {
		StrategyName   string
		Timeout        time.Duration // 0 - unset
		ReceiverTag    int32
		HasReceiverTag bool
	}

	ErrInvalidFC struct {
		Reason  string
		Field   string
		Options string
	}
)

func (e *ErrInvalidFC) Error() string {
	return fmt.Sprintf("flow control options - %s, field: %q, options: %q", e.Reason, e.Field, e.Options)
}

func IsErrInvalidFC(err error) bool {
	_, ok := err.(*ErrInvalidFC)
	return ok
}

// ParseOptions parses an `fc` value. Repeated t:/g: fields are last-wins.
func ParseOptions(options string) (opts Options, _ error) {
	opts.ReceiverTag = -1
	rest := options
	for first := true; ; first = false {
		tok := rest
		if i := strings.IndexByte(rest, ','); i >= 0 {
			tok, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}
		switch {
		case first:
			opts.StrategyName = tok
		case len(tok) > 2 && (tok[0] == 'g' || tok[0] == 't') && tok[1] == ':':
			value := tok[2:]
			if len(value) >= fcNumberBufferLen {
				return opts, &ErrInvalidFC{
					Reason:  fmt.Sprintf("number field too long (found %d, max %d)", len(value), fcNumberBufferLen-1),
					Field:   value,
					Options: options,
				}
			}
			if tok[0] == 'g' {
				tag, err := strconv.ParseInt(value, 10, 32)
				if err != nil {
					return opts, &ErrInvalidFC{Reason: "invalid group", Field: tok, Options: options}
				}
				opts.ReceiverTag, opts.HasReceiverTag = int32(tag), true
			} else {
				d, err := cos.ParseDuration(value)
				if err != nil || d < 0 {
					return opts, &ErrInvalidFC{Reason: "invalid timeout", Field: tok, Options: options}
				}
				opts.Timeout = d
			}
		default:
			return opts, &ErrInvalidFC{Reason: "unrecognised option", Field: tok, Options: options}
		}
		if rest == "" {
			break
		}
	}
	return opts, nil
}
