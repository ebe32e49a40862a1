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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medimage/go-dicom-engine/dictionary"
)

func TestParseDataElement_explicit(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		want  *DataElement
		order *DataElement
	}{
		{
			"code string",
			shortElem(ModalityTag, "CS", text("CT")),
			&DataElement{ModalityTag, CSVR, []string{"CT"}, 2},
			nil,
		},
		{
			"person name with trailing padding",
			shortElem(0x00100010, "PN", []byte("DOE^JOHN  ")),
			&DataElement{0x00100010, PNVR, []string{"DOE^JOHN"}, 10},
			nil,
		},
		{
			"multi valued string",
			shortElem(0x00080008, "CS", text("ORIGINAL\\PRIMARY")),
			&DataElement{0x00080008, CSVR, []string{"ORIGINAL", "PRIMARY"}, 16},
			nil,
		},
		{
			"unsigned short",
			shortElem(RowsTag, "US", le16(512)),
			&DataElement{RowsTag, USVR, []uint16{512}, 2},
			nil,
		},
		{
			"unique identifier null padded",
			shortElem(SOPClassUIDTag, "UI", uid("1.2.840.10008.5.1.4.1.1.7")),
			&DataElement{SOPClassUIDTag, UIVR, []string{"1.2.840.10008.5.1.4.1.1.7"}, 26},
			nil,
		},
		{
			"attribute tag",
			shortElem(0x00209165, "AT", append(le16(0x0020), le16(0x9056)...)),
			&DataElement{0x00209165, ATVR, []uint32{0x00209056}, 4},
			nil,
		},
		{
			"empty value",
			shortElem(ModalityTag, "CS", nil),
			&DataElement{ModalityTag, CSVR, []string{}, 0},
			nil,
		},
		{
			"floating point double",
			longElem(0x7FE00009, "OD", append(le32(0), le32(0x3FF00000)...)),
			&DataElement{0x7FE00009, ODVR, []float64{1.0}, 8},
			nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dr := dcmReaderFromBytes(tc.in)
			got, err := parseDataElement(dr, newMetaData(explicitVRLittleEndian))
			if err != nil {
				t.Fatalf("parseDataElement(_) => unexpected error %v", err)
			}
			compareDataElements(t, got, tc.want, explicitVRLittleEndian.ByteOrder)
		})
	}
}

func TestParseDataElement_implicit(t *testing.T) {
	dr := dcmReaderFromBytes(implicitElem(RowsTag, le16(512)))
	got, err := parseDataElement(dr, newMetaData(implicitVRLittleEndian))
	if err != nil {
		t.Fatalf("parseDataElement(_) => unexpected error %v", err)
	}
	compareDataElements(t, got, &DataElement{RowsTag, USVR, []uint16{512}, 2}, explicitVRLittleEndian.ByteOrder)
}

func TestParseDataElement_implicitUnknownTagReadAsUN(t *testing.T) {
	dr := dcmReaderFromBytes(implicitElem(0x0BB90001, []byte{1, 2, 3, 4}))
	got, err := parseDataElement(dr, newMetaData(implicitVRLittleEndian))
	if err != nil {
		t.Fatalf("parseDataElement(_) => unexpected error %v", err)
	}
	assert.Equal(t, UNVR, got.VR)
	buffer, err := got.ValueField.(BulkDataIterator).ToBuffer()
	if err != nil {
		t.Fatalf("buffering value: %v", err)
	}
	assert.Equal(t, [][]byte{{1, 2, 3, 4}}, buffer.Data())
}

func TestParseDataElement_unknownExplicitVRCode(t *testing.T) {
	// non-standard VR codes fall back to UN with a 32-bit length field
	in := tagBytes(0x00090001)
	in = append(in, "QQ"...)
	in = append(in, 0x00, 0x00)
	in = append(in, le32(4)...)
	in = append(in, 0xDE, 0xAD, 0xBE, 0xEF)

	dr := dcmReaderFromBytes(in)
	got, err := parseDataElement(dr, newMetaData(explicitVRLittleEndian))
	if err != nil {
		t.Fatalf("parseDataElement(_) => unexpected error %v", err)
	}
	assert.Equal(t, UNVR, got.VR)
	assert.Equal(t, uint32(4), got.ValueLength)
	buffer, err := got.ValueField.(BulkDataIterator).ToBuffer()
	if err != nil {
		t.Fatalf("buffering value: %v", err)
	}
	assert.Equal(t, [][]byte{{0xDE, 0xAD, 0xBE, 0xEF}}, buffer.Data())
}

func TestParseDataElement_oddLengthTolerated(t *testing.T) {
	in := shortElem(ModalityTag, "CS", []byte("A"))
	dr := dcmReaderFromBytes(in)
	got, err := parseDataElement(dr, newMetaData(explicitVRLittleEndian))
	if err != nil {
		t.Fatalf("parseDataElement(_) => unexpected error %v", err)
	}
	assert.Equal(t, []string{"A"}, got.ValueField)
}

func TestParseDataElement_lengthNotMultipleOfWordSize(t *testing.T) {
	tests := []struct {
		name      string
		in        []byte
		wantValue interface{}
	}{
		{
			"binary number with a trailing byte",
			shortElem(RowsTag, "US", append(le16(512), 0xAA)),
			[]uint16{512},
		},
		{
			"attribute tag with trailing bytes",
			shortElem(0x00209165, "AT", append(append(le16(0x0020), le16(0x9056)...), 0xAA, 0xBB)),
			[]uint32{0x00209056},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// the remainder bytes must be consumed so the next element still
			// parses from the right offset
			in := append(tc.in, shortElem(ColumnsTag, "US", le16(512))...)
			dr := dcmReaderFromBytes(in)
			md := newMetaData(explicitVRLittleEndian)

			got, err := parseDataElement(dr, md)
			if err != nil {
				t.Fatalf("parseDataElement(_) => unexpected error %v", err)
			}
			assert.Equal(t, tc.wantValue, got.ValueField)

			next, err := parseDataElement(dr, md)
			if err != nil {
				t.Fatalf("parseDataElement(_) => unexpected error %v", err)
			}
			assert.Equal(t, ColumnsTag, next.Tag)
			assert.Equal(t, []uint16{512}, next.ValueField)
		})
	}
}

func TestParseDataElement_undefinedLengthOnShortVR(t *testing.T) {
	in := tagBytes(0x00100010)
	in = append(in, "OB"...)
	in = append(in, 0x00, 0x00)
	in = append(in, le32(UndefinedLength)...)

	dr := dcmReaderFromBytes(in)
	_, err := parseDataElement(dr, newMetaData(explicitVRLittleEndian))
	var corrupt *CorruptDicomError
	if !errors.As(err, &corrupt) {
		t.Fatalf("parseDataElement(_) => %v, want *CorruptDicomError", err)
	}
}

func TestParseDataElement_truncatedValue(t *testing.T) {
	in := shortElem(ModalityTag, "CS", text("CT"))
	dr := dcmReaderFromBytes(in[:len(in)-1])
	_, err := parseDataElement(dr, newMetaData(explicitVRLittleEndian))
	var corrupt *CorruptDicomError
	if !errors.As(err, &corrupt) {
		t.Fatalf("parseDataElement(_) => %v, want *CorruptDicomError", err)
	}
}

func TestParseDataElement_itemDelimiterSignalsEOF(t *testing.T) {
	in := append(tagBytes(ItemDelimitationItemTag), le32(0)...)
	dr := dcmReaderFromBytes(in)
	_, err := parseDataElement(dr, newMetaData(explicitVRLittleEndian))
	if err != io.EOF {
		t.Fatalf("parseDataElement(_) => %v, want io.EOF", err)
	}
}

func TestParseDataElement_specificCharacterSet(t *testing.T) {
	in := shortElem(SpecificCharacterSetTag, "CS", []byte("ISO_IR 100"))
	in = append(in, shortElem(0x00100010, "PN", []byte{0xE9, ' '})...)

	dr := dcmReaderFromBytes(in)
	md := newMetaData(explicitVRLittleEndian)

	if _, err := parseDataElement(dr, md); err != nil {
		t.Fatalf("parsing character set element: %v", err)
	}
	got, err := parseDataElement(dr, md)
	if err != nil {
		t.Fatalf("parsing person name element: %v", err)
	}
	assert.Equal(t, []string{"é"}, got.ValueField)
}

func TestParseDataElement_privateCreatorScopesVR(t *testing.T) {
	dictionary.RegisterPrivate("TEST CREATOR", dictionary.Entry{
		Tag: dictionary.NewTag(0x0019, 0x0002), Name: "TestScale", VR: "DS", VM: "1",
	})

	in := implicitElem(0x00190010, []byte("TEST CREATOR"))
	in = append(in, implicitElem(0x00191002, text("1.5"))...)

	dr := dcmReaderFromBytes(in)
	md := newMetaData(implicitVRLittleEndian)

	creator, err := parseDataElement(dr, md)
	if err != nil {
		t.Fatalf("parsing creator element: %v", err)
	}
	assert.Equal(t, LOVR, creator.VR)
	assert.Equal(t, []string{"TEST CREATOR"}, creator.ValueField)

	private, err := parseDataElement(dr, md)
	if err != nil {
		t.Fatalf("parsing private element: %v", err)
	}
	assert.Equal(t, DSVR, private.VR)
	assert.Equal(t, []string{"1.5"}, private.ValueField)
}
