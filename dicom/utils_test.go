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
	"reflect"
	"testing"
)

// wire byte builders. Tests assemble inputs from these so the fixtures stay
// readable; all multi-byte fields are little endian unless a test says
// otherwise.

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func tagBytes(tag DataElementTag) []byte {
	return append(le16(tag.GroupNumber()), le16(tag.ElementNumber())...)
}

// shortElem builds an explicit VR element with a 16-bit length field.
func shortElem(tag DataElementTag, vr string, value []byte) []byte {
	b := tagBytes(tag)
	b = append(b, vr...)
	b = append(b, le16(uint16(len(value)))...)
	return append(b, value...)
}

// longElem builds an explicit VR element with a reserved field and a 32-bit
// length field.
func longElem(tag DataElementTag, vr string, value []byte) []byte {
	b := tagBytes(tag)
	b = append(b, vr...)
	b = append(b, 0x00, 0x00)
	b = append(b, le32(uint32(len(value)))...)
	return append(b, value...)
}

// longUndefElem builds an explicit VR element header carrying the undefined
// length sentinel. The value bytes (items, delimiters) follow separately.
func longUndefElem(tag DataElementTag, vr string) []byte {
	b := tagBytes(tag)
	b = append(b, vr...)
	b = append(b, 0x00, 0x00)
	return append(b, le32(UndefinedLength)...)
}

// implicitElem builds an implicit VR element.
func implicitElem(tag DataElementTag, value []byte) []byte {
	b := tagBytes(tag)
	b = append(b, le32(uint32(len(value)))...)
	return append(b, value...)
}

func item(content []byte) []byte {
	b := tagBytes(ItemTag)
	b = append(b, le32(uint32(len(content)))...)
	return append(b, content...)
}

func undefItem(content []byte) []byte {
	b := tagBytes(ItemTag)
	b = append(b, le32(UndefinedLength)...)
	b = append(b, content...)
	b = append(b, tagBytes(ItemDelimitationItemTag)...)
	return append(b, le32(0)...)
}

func seqDelimiter() []byte {
	return append(tagBytes(SequenceDelimitationItemTag), le32(0)...)
}

// uid pads s to even length with NUL, the UI padding byte.
func uid(s string) []byte {
	if len(s)%2 != 0 {
		s += "\x00"
	}
	return []byte(s)
}

// text pads s to even length with a space.
func text(s string) []byte {
	if len(s)%2 != 0 {
		s += " "
	}
	return []byte(s)
}

const (
	testSOPClassUID    = "1.2.840.10008.5.1.4.1.1.4"
	testSOPInstanceUID = "1.2.840.113619.2.176.3596.3364818.7271.1259708501.876"
)

// metaGroupBytes builds a complete file meta group announcing the given
// transfer syntax, group length first.
func metaGroupBytes(tsUID string) []byte {
	var group []byte
	group = append(group, shortElem(MediaStorageSOPClassUIDTag, "UI", uid(testSOPClassUID))...)
	group = append(group, shortElem(MediaStorageSOPInstanceUIDTag, "UI", uid(testSOPInstanceUID))...)
	group = append(group, shortElem(TransferSyntaxUIDTag, "UI", uid(tsUID))...)

	b := shortElem(FileMetaInformationGroupLengthTag, "UL", le32(uint32(len(group))))
	return append(b, group...)
}

// dicomFileBytes builds a whole file: preamble, signature, meta group and
// body elements.
func dicomFileBytes(meta []byte, body ...[]byte) []byte {
	b := make([]byte, 128)
	b = append(b, "DICM"...)
	b = append(b, meta...)
	for _, e := range body {
		b = append(b, e...)
	}
	return b
}

func dcmReaderFromBytes(data []byte) *dcmReader {
	return newDcmReader(bytes.NewBuffer(data))
}

func createSingletonSequence(elements ...*DataElement) Sequence {
	ds := DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for _, elem := range elements {
		ds.Elements[elem.Tag] = elem
	}
	return Sequence{Items: []*DataSet{&ds}}
}

func compareDataElements(t *testing.T, got, want *DataElement, order binary.ByteOrder) {
	t.Helper()
	if got == nil || want == nil {
		if got != want {
			t.Fatalf("expected both elements to be nil: got %v, want %v", got, want)
		}
		return
	}
	if got.Tag != want.Tag {
		t.Fatalf("expected tags to be equal: got %v, want %v", got.Tag, want.Tag)
	}
	if got.VR != want.VR {
		t.Fatalf("tag %s: expected VRs to be equal: got %v, want %v", got.Tag, got.VR, want.VR)
	}

	got, err := processElement(got, order)
	if err != nil {
		t.Fatalf("unexpected error unstreaming data element: %v", err)
	}
	want, err = processElement(want, order)
	if err != nil {
		t.Fatalf("unexpected error unstreaming data element: %v", err)
	}

	if got.VR == SQVR {
		compareSequences(t, got.ValueField.(*Sequence), want.ValueField.(*Sequence), order)
		return
	}
	if !reflect.DeepEqual(got.ValueField, want.ValueField) {
		t.Fatalf("tag %s: expected ValueFields to be equal: got %#v, want %#v",
			got.Tag, got.ValueField, want.ValueField)
	}
}

func compareSequences(t *testing.T, got, want *Sequence, order binary.ByteOrder) {
	t.Helper()
	if len(got.Items) != len(want.Items) {
		t.Fatalf("expected sequences to have same length: got %v, want %v",
			len(got.Items), len(want.Items))
	}
	for i := range got.Items {
		compareDataSets(t, got.Items[i], want.Items[i], order)
	}
}

func compareDataSets(t *testing.T, got, want *DataSet, order binary.ByteOrder) {
	t.Helper()
	k1, k2 := got.SortedTags(), want.SortedTags()
	if !reflect.DeepEqual(k1, k2) {
		t.Fatalf("expected datasets to have same keys: got %v, want %v", k1, k2)
	}
	for _, tag := range k1 {
		compareDataElements(t, got.Elements[tag], want.Elements[tag], order)
	}
}
