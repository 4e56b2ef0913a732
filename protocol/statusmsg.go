// Package protocol defines the udx UDP wire formats for control frames
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package protocol

import (
	"encoding/binary"
	"fmt"
)

// Status Message: receiver => sender control frame reporting consumed position,
// receiver window, receiver identity, and an optional trailing receiver tag.
//
// Layout, little-endian:
//
//	 0: frame_length            int32
//	 4: version                 uint8
//	 5: flags                   uint8
//	 6: type                    uint16
//	 8: session_id              int32
//	12: stream_id               int32
//	16: consumption_term_id     int32
//	20: consumption_term_offset int32
//	24: receiver_window         int32
//	28: receiver_id             int64
//	36: receiver_tag            int32 (optional)

const (
	CurrentVersion = uint8(0x0)

	TypePad   = uint16(0x00)
	TypeData  = uint16(0x01)
	TypeNak   = uint16(0x02)
	TypeSM    = uint16(0x03)
	TypeErr   = uint16(0x04)
	TypeSetup = uint16(0x05)

	// SM flag: sender to initiate a setup frame
	SMSetupFlag = uint8(0x80)

	SMHdrLen    = 36
	SMTaggedLen = SMHdrLen + 4
)

type StatusMessage struct {
	SessionID             int32
	StreamID              int32
	ConsumptionTermID     int32
	ConsumptionTermOffset int32
	ReceiverWindow        int32
	ReceiverID            int64
	ReceiverTag           int32
	HasReceiverTag        bool
	Flags                 uint8
}

// Unmarshal decodes an SM frame. The receiver tag is a best-effort trailing
// field: a frame too short to carry it is still a valid SM.
func (sm *StatusMessage) Unmarshal(b []byte) error {
	if len(b) < SMHdrLen {
		return fmt.Errorf("sm: short frame (%d < %d)", len(b), SMHdrLen)
	}
	frameLength := int32(binary.LittleEndian.Uint32(b[0:]))
	if int(frameLength) > len(b) {
		return fmt.Errorf("sm: frame length %d exceeds datagram %d", frameLength, len(b))
	}
	if ftype := binary.LittleEndian.Uint16(b[6:]); ftype != TypeSM {
		return fmt.Errorf("sm: unexpected frame type 0x%x", ftype)
	}
	sm.Flags = b[5]
	sm.SessionID = int32(binary.LittleEndian.Uint32(b[8:]))
	sm.StreamID = int32(binary.LittleEndian.Uint32(b[12:]))
	sm.ConsumptionTermID = int32(binary.LittleEndian.Uint32(b[16:]))
	sm.ConsumptionTermOffset = int32(binary.LittleEndian.Uint32(b[20:]))
	sm.ReceiverWindow = int32(binary.LittleEndian.Uint32(b[24:]))
	sm.ReceiverID = int64(binary.LittleEndian.Uint64(b[28:]))
	sm.HasReceiverTag = frameLength >= SMTaggedLen
	if sm.HasReceiverTag {
		sm.ReceiverTag = int32(binary.LittleEndian.Uint32(b[SMHdrLen:]))
	} else {
		sm.ReceiverTag = 0
	}
	return nil
}

// Marshal appends the encoded frame to b.
func (sm *StatusMessage) Marshal(b []byte) []byte {
	flen := int32(SMHdrLen)
	if sm.HasReceiverTag {
		flen = SMTaggedLen
	}
	var hdr [SMTaggedLen]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(flen))
	hdr[4] = CurrentVersion
	hdr[5] = sm.Flags
	binary.LittleEndian.PutUint16(hdr[6:], TypeSM)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(sm.SessionID))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(sm.StreamID))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(sm.ConsumptionTermID))
	binary.LittleEndian.PutUint32(hdr[20:], uint32(sm.ConsumptionTermOffset))
	binary.LittleEndian.PutUint32(hdr[24:], uint32(sm.ReceiverWindow))
	binary.LittleEndian.PutUint64(hdr[28:], uint64(sm.ReceiverID))
	if sm.HasReceiverTag {
		binary.LittleEndian.PutUint32(hdr[SMHdrLen:], uint32(sm.ReceiverTag))
	}
	return append(b, hdr[:flen]...)
}
