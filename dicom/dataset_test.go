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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataSet_put(t *testing.T) {
	ds := &DataSet{}

	if err := ds.Put(&DataElement{RowsTag, nil, []uint16{512}, 0}); err != nil {
		t.Fatalf("Put(_) => unexpected error %v", err)
	}
	elem, ok := ds.GetElement(RowsTag)
	if !ok {
		t.Fatal("GetElement(RowsTag) => not found after Put")
	}
	assert.Equal(t, USVR, elem.VR)

	// replacing an existing tag
	if err := ds.Put(&DataElement{RowsTag, USVR, []uint16{1024}, 0}); err != nil {
		t.Fatalf("Put(_) => unexpected error %v", err)
	}
	elem, _ = ds.GetElement(RowsTag)
	v, ok := elem.IntValue()
	if !ok {
		t.Fatalf("IntValue() => not a single integer: %v", elem.ValueField)
	}
	assert.Equal(t, int64(1024), v)
}

func TestDataSet_putRejectsMismatchedValue(t *testing.T) {
	ds := &DataSet{}
	err := ds.Put(&DataElement{RowsTag, nil, []string{"512"}, 0})
	var mismatch *VRMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Put(_) => %v, want *VRMismatchError", err)
	}
}

func TestDataSet_getElementByName(t *testing.T) {
	ds := &DataSet{}
	if err := ds.Put(&DataElement{ModalityTag, CSVR, []string{"MR"}, 0}); err != nil {
		t.Fatalf("Put(_) => unexpected error %v", err)
	}

	elem, err := ds.GetElementByName("Modality")
	if err != nil {
		t.Fatalf("GetElementByName(_) => unexpected error %v", err)
	}
	assert.Equal(t, ModalityTag, elem.Tag)

	if _, err := ds.GetElementByName("PatientName"); err == nil {
		t.Error("GetElementByName(PatientName) => nil error for absent element")
	}
	if _, err := ds.GetElementByName("NoSuchKeyword"); err == nil {
		t.Error("GetElementByName(NoSuchKeyword) => nil error for unknown keyword")
	}
}

func TestDataSet_remove(t *testing.T) {
	ds := &DataSet{}
	if err := ds.Put(&DataElement{ModalityTag, CSVR, []string{"MR"}, 0}); err != nil {
		t.Fatalf("Put(_) => unexpected error %v", err)
	}
	ds.Remove(ModalityTag)
	if _, ok := ds.GetElement(ModalityTag); ok {
		t.Error("GetElement(ModalityTag) => found after Remove")
	}
	ds.Remove(ModalityTag) // absent tag is a no-op
}

func TestDataSet_sortedTags(t *testing.T) {
	ds := NewDataSet(map[DataElementTag]*DataElement{
		PixelDataTag:         {PixelDataTag, OWVR, NewBulkDataBuffer([]byte{0, 0}), 0},
		TransferSyntaxUIDTag: {TransferSyntaxUIDTag, UIVR, []string{ExplicitVRLittleEndianUID}, 0},
		ModalityTag:          {ModalityTag, CSVR, []string{"MR"}, 0},
	})
	want := []DataElementTag{TransferSyntaxUIDTag, ModalityTag, PixelDataTag}
	assert.Equal(t, want, ds.SortedTags())

	elements := ds.SortedElements()
	if assert.Equal(t, 3, len(elements)) {
		assert.Equal(t, TransferSyntaxUIDTag, elements[0].Tag)
		assert.Equal(t, PixelDataTag, elements[2].Tag)
	}
}

func TestDataSet_metaElements(t *testing.T) {
	ds := NewDataSet(map[DataElementTag]*DataElement{
		TransferSyntaxUIDTag: {TransferSyntaxUIDTag, UIVR, []string{ExplicitVRLittleEndianUID}, 0},
		ModalityTag:          {ModalityTag, CSVR, []string{"MR"}, 0},
	})

	meta := ds.MetaElements()
	assert.Equal(t, []DataElementTag{TransferSyntaxUIDTag}, meta.SortedTags())
	if !meta.isMetaHeader() {
		t.Error("isMetaHeader() => false for group 0002 only data set")
	}
	if ds.isMetaHeader() {
		t.Error("isMetaHeader() => true for data set with main elements")
	}
}

func TestDataElement_stringValue(t *testing.T) {
	tests := []struct {
		name   string
		elem   *DataElement
		want   string
		wantOK bool
	}{
		{"single string", &DataElement{ModalityTag, CSVR, []string{"MR"}, 0}, "MR", true},
		{"multiple strings", &DataElement{ModalityTag, CSVR, []string{"A", "B"}, 0}, "", false},
		{"not a string", &DataElement{RowsTag, USVR, []uint16{1}, 0}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.elem.StringValue()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDataElement_intValue(t *testing.T) {
	tests := []struct {
		name   string
		elem   *DataElement
		want   int64
		wantOK bool
	}{
		{"uint16", &DataElement{RowsTag, USVR, []uint16{512}, 0}, 512, true},
		{"int16", &DataElement{0x00189219, SSVR, []int16{-3}, 0}, -3, true},
		{"uint32", &DataElement{FileMetaInformationGroupLengthTag, ULVR, []uint32{188}, 0}, 188, true},
		{"multiple values", &DataElement{RowsTag, USVR, []uint16{1, 2}, 0}, 0, false},
		{"not an integer", &DataElement{ModalityTag, CSVR, []string{"MR"}, 0}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.elem.IntValue()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDataSet_pixelDataNative(t *testing.T) {
	ds := NewDataSet(map[DataElementTag]*DataElement{
		TransferSyntaxUIDTag: {TransferSyntaxUIDTag, UIVR, []string{ExplicitVRLittleEndianUID}, 0},
		PixelDataTag:         {PixelDataTag, OWVR, NewBulkDataBuffer([]byte{1, 2}, []byte{3, 4}), 0},
	})

	got, err := ds.PixelData()
	if err != nil {
		t.Fatalf("PixelData() => unexpected error %v", err)
	}
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestDataSet_pixelDataNoCodec(t *testing.T) {
	ds := NewDataSet(map[DataElementTag]*DataElement{
		TransferSyntaxUIDTag: {TransferSyntaxUIDTag, UIVR, []string{JPEG2000UID}, 0},
		PixelDataTag:         {PixelDataTag, OBVR, NewBulkDataBuffer(nil, []byte{9, 9}), UndefinedLength},
	})

	_, err := ds.PixelData()
	var noCodec *NoCodecError
	if !errors.As(err, &noCodec) {
		t.Fatalf("PixelData() => %v, want *NoCodecError", err)
	}
	assert.Equal(t, JPEG2000UID, noCodec.UID)
}

func TestDataSet_pixelDataRegisteredCodec(t *testing.T) {
	RegisterCodec(RLELosslessUID, func(ds *DataSet, fragments [][]byte) ([]byte, error) {
		var out []byte
		for _, f := range fragments[1:] { // fragments[0] is the offset table
			out = append(out, f...)
		}
		return out, nil
	})
	defer func() {
		codecMu.Lock()
		delete(codecRegistry, RLELosslessUID)
		codecMu.Unlock()
	}()

	ds := NewDataSet(map[DataElementTag]*DataElement{
		TransferSyntaxUIDTag: {TransferSyntaxUIDTag, UIVR, []string{RLELosslessUID}, 0},
		PixelDataTag:         {PixelDataTag, OBVR, NewBulkDataBuffer(nil, []byte{7, 8}, []byte{9}), UndefinedLength},
	})

	got, err := ds.PixelData()
	if err != nil {
		t.Fatalf("PixelData() => unexpected error %v", err)
	}
	assert.Equal(t, []byte{7, 8, 9}, got)
}

func TestDataSet_pixelDataMissingElement(t *testing.T) {
	ds := NewDataSet(nil)
	if _, err := ds.PixelData(); err == nil {
		t.Fatal("PixelData() => nil error for data set without pixel data")
	}
}
