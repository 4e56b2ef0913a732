// Package logbuffer provides term-buffer descriptors and stream position arithmetic
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package logbuffer

import (
	"fmt"
	"math/bits"
)

const (
	TermMinLength = 64 * 1024
	TermMaxLength = 1024 * 1024 * 1024
)

// A stream position is ((active_term_id - initial_term_id) * term_length) + term_offset,
// with the multiply expressed as a shift: term lengths are powers of two.

func PositionBitsToShift(termLength int32) uint8 {
	return uint8(bits.TrailingZeros32(uint32(termLength)))
}

func ComputePosition(activeTermID, termOffset int32, positionBitsToShift uint8, initialTermID int32) int64 {
	termCount := int64(activeTermID - initialTermID) // int32 subtraction: copes with term-id wrap
	return (termCount << positionBitsToShift) + int64(termOffset)
}

func ComputeTermIDFromPosition(position int64, positionBitsToShift uint8, initialTermID int32) int32 {
	return int32(position>>positionBitsToShift) + initialTermID
}

func ComputeTermOffsetFromPosition(position int64, positionBitsToShift uint8) int32 {
	mask := (int64(1) << positionBitsToShift) - 1
	return int32(position & mask)
}

func CheckTermLength(termLength int32) error {
	if termLength < TermMinLength || termLength > TermMaxLength {
		return fmt.Errorf("term length %d not in [%d, %d]", termLength, TermMinLength, TermMaxLength)
	}
	if termLength&(termLength-1) != 0 {
		return fmt.Errorf("term length %d not a power of 2", termLength)
	}
	return nil
}
