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
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupTransferSyntax(t *testing.T) {
	tests := []struct {
		uid          string
		implicit     bool
		order        binary.ByteOrder
		deflated     bool
		encapsulated bool
	}{
		{ImplicitVRLittleEndianUID, true, binary.LittleEndian, false, false},
		{ExplicitVRLittleEndianUID, false, binary.LittleEndian, false, false},
		{ExplicitVRBigEndianUID, false, binary.BigEndian, false, false},
		{DeflatedExplicitVRLittleEndianUID, false, binary.LittleEndian, true, false},
		{JPEGBaselineUID, false, binary.LittleEndian, false, true},
		{RLELosslessUID, false, binary.LittleEndian, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.uid, func(t *testing.T) {
			ts, err := LookupTransferSyntax(tc.uid)
			if err != nil {
				t.Fatalf("LookupTransferSyntax(%q) => unexpected error %v", tc.uid, err)
			}
			assert.Equal(t, tc.uid, ts.UID)
			assert.Equal(t, tc.implicit, ts.Implicit)
			assert.Equal(t, tc.order, ts.ByteOrder)
			assert.Equal(t, tc.deflated, ts.Deflated)
			assert.Equal(t, tc.encapsulated, ts.Encapsulated)
		})
	}
}

func TestLookupTransferSyntax_unknown(t *testing.T) {
	_, err := LookupTransferSyntax("1.2.999.1.2.3")
	var unsupported *UnsupportedTransferSyntaxError
	if !errors.As(err, &unsupported) {
		t.Fatalf("LookupTransferSyntax(_) => %v, want *UnsupportedTransferSyntaxError", err)
	}
	assert.Equal(t, "1.2.999.1.2.3", unsupported.UID)
}

func TestRegisterTransferSyntax(t *testing.T) {
	const uid = "1.2.999.7.7.7"
	err := RegisterTransferSyntax(TransferSyntax{
		UID:          uid,
		ByteOrder:    binary.LittleEndian,
		Encapsulated: true,
	})
	if err != nil {
		t.Fatalf("RegisterTransferSyntax(_) => unexpected error %v", err)
	}
	defer func() {
		syntaxMu.Lock()
		delete(syntaxRegistry, uid)
		syntaxMu.Unlock()
	}()

	ts, err := LookupTransferSyntax(uid)
	if err != nil {
		t.Fatalf("LookupTransferSyntax(%q) => unexpected error %v", uid, err)
	}
	assert.True(t, ts.Encapsulated)
}

func TestRegisterTransferSyntax_invalid(t *testing.T) {
	if err := RegisterTransferSyntax(TransferSyntax{ByteOrder: binary.LittleEndian}); err == nil {
		t.Error("RegisterTransferSyntax(_) => nil error for empty UID")
	}
	if err := RegisterTransferSyntax(TransferSyntax{UID: "1.2.999.8"}); err == nil {
		t.Error("RegisterTransferSyntax(_) => nil error for nil byte order")
	}
}

func TestTransferSyntax_elementSize(t *testing.T) {
	tests := []struct {
		name   string
		syntax TransferSyntax
		vr     *VR
		length uint32
		want   uint32
	}{
		{"explicit short header", explicitVRLittleEndian, CSVR, 10, 8 + 10},
		{"explicit long header", explicitVRLittleEndian, OBVR, 10, 12 + 10},
		{"implicit header", implicitVRLittleEndian, CSVR, 10, 8 + 10},
		{"undefined length", explicitVRLittleEndian, SQVR, UndefinedLength, UndefinedLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.syntax.elementSize(tc.vr, tc.length))
		})
	}
}

func TestTransferSyntax_readValueLength(t *testing.T) {
	tests := []struct {
		name   string
		syntax TransferSyntax
		vr     *VR
		in     []byte
		want   uint32
	}{
		{"explicit 16-bit", explicitVRLittleEndian, CSVR, le16(6), 6},
		{"explicit reserved plus 32-bit", explicitVRLittleEndian, OBVR, append(le16(0), le32(0x12345)...), 0x12345},
		{"implicit 32-bit", implicitVRLittleEndian, CSVR, le32(6), 6},
		{"big endian 16-bit", explicitVRBigEndian, CSVR, []byte{0x00, 0x06}, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.syntax.readValueLength(dcmReaderFromBytes(tc.in), tc.vr)
			if err != nil {
				t.Fatalf("readValueLength(_) => unexpected error %v", err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransferSyntax_writeVR(t *testing.T) {
	var buf bytes.Buffer
	if err := explicitVRLittleEndian.writeVR(&dcmWriter{&buf}, CSVR); err != nil {
		t.Fatalf("writeVR(_) => unexpected error %v", err)
	}
	assert.Equal(t, []byte("CS"), buf.Bytes())

	buf.Reset()
	if err := implicitVRLittleEndian.writeVR(&dcmWriter{&buf}, CSVR); err != nil {
		t.Fatalf("writeVR(_) => unexpected error %v", err)
	}
	assert.Empty(t, buf.Bytes())
}

func TestTransferSyntax_writeValueLengthOverflow(t *testing.T) {
	var buf bytes.Buffer
	err := explicitVRLittleEndian.writeValueLength(&dcmWriter{&buf}, CSVR, 0x10000)
	if err == nil {
		t.Fatal("writeValueLength(_) => nil error, want 16-bit overflow error")
	}
}
