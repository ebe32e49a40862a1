// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dicom

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

// Transfer syntax UIDs from
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_A
const (
	// ImplicitVRLittleEndianUID is the default DICOM transfer syntax
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	// ExplicitVRLittleEndianUID is the Explicit VR Little Endian UID
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	// ExplicitVRBigEndianUID is the retired Explicit VR Big Endian UID
	ExplicitVRBigEndianUID = "1.2.840.10008.1.2.2"
	// DeflatedExplicitVRLittleEndianUID is the Deflated Explicit VR Little Endian UID
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
	// JPEGBaselineUID is the JPEG Baseline (Process 1) transfer syntax UID
	JPEGBaselineUID = "1.2.840.10008.1.2.4.50"
	// JPEGLosslessSV1UID is the JPEG Lossless First-Order Prediction UID
	JPEGLosslessSV1UID = "1.2.840.10008.1.2.4.70"
	// JPEG2000LosslessUID is the JPEG 2000 (Lossless Only) transfer syntax UID
	JPEG2000LosslessUID = "1.2.840.10008.1.2.4.90"
	// JPEG2000UID is the JPEG 2000 transfer syntax UID
	JPEG2000UID = "1.2.840.10008.1.2.4.91"
	// RLELosslessUID is the RLE Lossless transfer syntax UID
	RLELosslessUID = "1.2.840.10008.1.2.5"
)

// TransferSyntax describes how a data set is encoded on the wire: whether VR
// codes are written explicitly, the byte order of binary values, whether the
// main data set is deflate-compressed, and whether pixel data is stored in
// the encapsulated fragment format. A TransferSyntax is immutable once
// resolved for a stream and is shared by value between decoder and encoder.
type TransferSyntax struct {
	UID      string
	Implicit bool

	ByteOrder binary.ByteOrder

	// Deflated marks syntaxes whose main data set bytes (everything after
	// the file meta group) pass through RFC 1951 deflate.
	Deflated bool

	// Encapsulated marks compressed syntaxes: pixel data carries the
	// undefined-length sentinel and is stored as length-prefixed fragments.
	Encapsulated bool
}

var (
	implicitVRLittleEndian         = TransferSyntax{UID: ImplicitVRLittleEndianUID, Implicit: true, ByteOrder: binary.LittleEndian}
	explicitVRLittleEndian         = TransferSyntax{UID: ExplicitVRLittleEndianUID, ByteOrder: binary.LittleEndian}
	explicitVRBigEndian            = TransferSyntax{UID: ExplicitVRBigEndianUID, ByteOrder: binary.BigEndian}
	deflatedExplicitVRLittleEndian = TransferSyntax{UID: DeflatedExplicitVRLittleEndianUID, ByteOrder: binary.LittleEndian, Deflated: true}
)

var (
	syntaxMu       sync.RWMutex
	syntaxRegistry = map[string]TransferSyntax{}
)

func init() {
	for _, ts := range []TransferSyntax{
		implicitVRLittleEndian,
		explicitVRLittleEndian,
		explicitVRBigEndian,
		deflatedExplicitVRLittleEndian,
	} {
		syntaxRegistry[ts.UID] = ts
	}

	// Encapsulated syntaxes are Explicit VR Little Endian structurally
	// (PS3.5 A.4); the engine moves their pixel fragments without decoding
	// them.
	for _, uid := range []string{
		JPEGBaselineUID,
		"1.2.840.10008.1.2.4.51",
		"1.2.840.10008.1.2.4.57",
		JPEGLosslessSV1UID,
		"1.2.840.10008.1.2.4.80",
		"1.2.840.10008.1.2.4.81",
		JPEG2000LosslessUID,
		JPEG2000UID,
		RLELosslessUID,
	} {
		syntaxRegistry[uid] = TransferSyntax{UID: uid, ByteOrder: binary.LittleEndian, Encapsulated: true}
	}
}

// RegisterTransferSyntax adds a transfer syntax to the process-wide registry.
// Registration must happen before decoding begins; the registry is read-only
// once streams are in flight.
func RegisterTransferSyntax(ts TransferSyntax) error {
	if ts.UID == "" {
		return fmt.Errorf("registering transfer syntax: empty UID")
	}
	if ts.ByteOrder == nil {
		return fmt.Errorf("registering transfer syntax %v: nil byte order", ts.UID)
	}
	syntaxMu.Lock()
	defer syntaxMu.Unlock()
	syntaxRegistry[ts.UID] = ts
	return nil
}

// LookupTransferSyntax resolves a transfer syntax UID to its descriptor. An
// unregistered UID returns *UnsupportedTransferSyntaxError, which is
// recoverable at the file meta stage: the caller may still access the file
// meta elements but not the main data set.
func LookupTransferSyntax(uid string) (TransferSyntax, error) {
	syntaxMu.RLock()
	defer syntaxMu.RUnlock()
	ts, ok := syntaxRegistry[uid]
	if !ok {
		return TransferSyntax{}, &UnsupportedTransferSyntaxError{UID: uid}
	}
	return ts, nil
}

const (
	vrSize  = 2
	tagSize = 4
)

// elementSize returns the number of bytes the element occupies on the wire
// under this syntax, including its header.
func (s TransferSyntax) elementSize(vr *VR, valueFieldLength uint32) uint32 {
	if valueFieldLength == UndefinedLength {
		return UndefinedLength
	}
	if s.Implicit {
		return tagSize + 4 /*length*/ + valueFieldLength
	}
	if vr.largeLength {
		return tagSize + vrSize + 2 /*reserved*/ + 4 /*32-bit length*/ + valueFieldLength
	}
	return tagSize + vrSize + 2 /*16-bit length*/ + valueFieldLength
}

// readValueLength consumes the length field that follows the VR (explicit) or
// the tag (implicit), per the VR's 16/32-bit rule.
func (s TransferSyntax) readValueLength(dr *dcmReader, vr *VR) (uint32, error) {
	if s.Implicit {
		return dr.UInt32(s.ByteOrder)
	}

	if vr.largeLength {
		if _, err := dr.UInt16(s.ByteOrder); err != nil {
			return 0, fmt.Errorf("reading reserved field: %v", err)
		}
		length, err := dr.UInt32(s.ByteOrder)
		if err != nil {
			return 0, fmt.Errorf("reading 32 bit length: %v", err)
		}
		return length, nil
	}

	length, err := dr.UInt16(s.ByteOrder)
	if err != nil {
		return 0, fmt.Errorf("reading 16 bit length: %v", err)
	}
	return uint32(length), nil
}

func (s TransferSyntax) writeVR(dw *dcmWriter, vr *VR) error {
	if s.Implicit {
		// the implicit syntax does not write VR codes into the file
		return nil
	}
	return dw.String(vr.Name)
}

func (s TransferSyntax) writeValueLength(dw *dcmWriter, vr *VR, valueFieldLength uint32) error {
	if s.Implicit {
		return dw.UInt32(s.ByteOrder, valueFieldLength)
	}

	if vr.largeLength {
		if err := dw.UInt16(s.ByteOrder, 0); err != nil {
			return fmt.Errorf("writing reserved field: %v", err)
		}
		if err := dw.UInt32(s.ByteOrder, valueFieldLength); err != nil {
			return fmt.Errorf("writing 32 bit length: %v", err)
		}
		return nil
	}

	if valueFieldLength > math.MaxUint16 {
		return fmt.Errorf("data element value length exceeds unsigned 16-bit length")
	}
	if err := dw.UInt16(s.ByteOrder, uint16(valueFieldLength)); err != nil {
		return fmt.Errorf("writing 16 bit length: %v", err)
	}
	return nil
}
