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
	"compress/flate"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectElements(t *testing.T, iter DataElementIterator) []*DataElement {
	t.Helper()
	var elements []*DataElement
	for elem, err := iter.NextElement(); err != io.EOF; elem, err = iter.NextElement() {
		if err != nil {
			t.Fatalf("NextElement() => unexpected error %v", err)
		}
		elem, err = processElement(elem, iter.syntax().ByteOrder)
		if err != nil {
			t.Fatalf("buffering element: %v", err)
		}
		elements = append(elements, elem)
	}
	return elements
}

func TestNewDataElementIterator(t *testing.T) {
	meta := metaGroupBytes(ExplicitVRLittleEndianUID)
	in := dicomFileBytes(meta,
		shortElem(ModalityTag, "CS", text("MR")),
		shortElem(0x00100010, "PN", []byte("DOE^JOHN  ")),
	)

	iter, err := NewDataElementIterator(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => unexpected error %v", err)
	}
	elements := collectElements(t, iter)

	wantTags := []DataElementTag{
		FileMetaInformationGroupLengthTag,
		MediaStorageSOPClassUIDTag,
		MediaStorageSOPInstanceUIDTag,
		TransferSyntaxUIDTag,
		ModalityTag,
		0x00100010,
	}
	if len(elements) != len(wantTags) {
		t.Fatalf("got %d elements, want %d", len(elements), len(wantTags))
	}
	for i, elem := range elements {
		assert.Equal(t, wantTags[i], elem.Tag, "element %d", i)
	}

	// the group length covers every meta element after itself
	assert.Equal(t, []uint32{uint32(len(meta) - 12)}, elements[0].ValueField)
	assert.Equal(t, []string{testSOPClassUID}, elements[1].ValueField)
	assert.Equal(t, []string{ExplicitVRLittleEndianUID}, elements[3].ValueField)
	assert.Equal(t, []string{"MR"}, elements[4].ValueField)
	assert.Equal(t, []string{"DOE^JOHN"}, elements[5].ValueField)
}

func TestNewDataElementIterator_implicitBody(t *testing.T) {
	in := dicomFileBytes(metaGroupBytes(ImplicitVRLittleEndianUID),
		implicitElem(RowsTag, le16(512)),
	)

	iter, err := NewDataElementIterator(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => unexpected error %v", err)
	}
	elements := collectElements(t, iter)

	last := elements[len(elements)-1]
	assert.Equal(t, RowsTag, last.Tag)
	assert.Equal(t, USVR, last.VR)
	assert.Equal(t, []uint16{512}, last.ValueField)
}

func TestNewDataElementIterator_deflated(t *testing.T) {
	body := append(shortElem(ModalityTag, "CS", text("CT")),
		shortElem(RowsTag, "US", le16(64))...)

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("creating deflate writer: %v", err)
	}
	if _, err := fw.Write(body); err != nil {
		t.Fatalf("compressing body: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("flushing deflate writer: %v", err)
	}

	in := dicomFileBytes(metaGroupBytes(DeflatedExplicitVRLittleEndianUID), compressed.Bytes())

	iter, err := NewDataElementIterator(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => unexpected error %v", err)
	}
	elements := collectElements(t, iter)

	last := elements[len(elements)-1]
	assert.Equal(t, RowsTag, last.Tag)
	assert.Equal(t, []uint16{64}, last.ValueField)
}

func TestNewDataElementIterator_wrongSignature(t *testing.T) {
	in := make([]byte, 128)
	in = append(in, "NOPE"...)
	if _, err := NewDataElementIterator(bytes.NewReader(in)); err == nil {
		t.Fatal("NewDataElementIterator(_) => nil error, want wrong signature error")
	}
}

func TestNewDataElementIterator_truncatedPreamble(t *testing.T) {
	if _, err := NewDataElementIterator(bytes.NewReader(make([]byte, 64))); err == nil {
		t.Fatal("NewDataElementIterator(_) => nil error, want truncation error")
	}
}

func TestNewDataElementIterator_unsupportedTransferSyntax(t *testing.T) {
	in := dicomFileBytes(metaGroupBytes("1.2.999.1.2.3"))

	iter, err := NewDataElementIterator(bytes.NewReader(in))
	var unsupported *UnsupportedTransferSyntaxError
	if !errors.As(err, &unsupported) {
		t.Fatalf("NewDataElementIterator(_) => %v, want *UnsupportedTransferSyntaxError", err)
	}
	assert.Equal(t, "1.2.999.1.2.3", unsupported.UID)

	// the meta elements already read stay accessible
	if iter == nil {
		t.Fatal("NewDataElementIterator(_) => nil iterator, want meta element iterator")
	}
	elements := collectElements(t, iter)
	if len(elements) != 4 {
		t.Fatalf("got %d meta elements, want 4", len(elements))
	}
	assert.Equal(t, []string{"1.2.999.1.2.3"}, elements[3].ValueField)
}

func TestNewDataElementIterator_missingRequiredMetaElement(t *testing.T) {
	// a meta group without MediaStorageSOPClassUID
	var group []byte
	group = append(group, shortElem(MediaStorageSOPInstanceUIDTag, "UI", uid(testSOPInstanceUID))...)
	group = append(group, shortElem(TransferSyntaxUIDTag, "UI", uid(ExplicitVRLittleEndianUID))...)
	meta := shortElem(FileMetaInformationGroupLengthTag, "UL", le32(uint32(len(group))))
	meta = append(meta, group...)

	_, err := NewDataElementIterator(bytes.NewReader(dicomFileBytes(meta)))
	var missing *MissingMetaElementError
	if !errors.As(err, &missing) {
		t.Fatalf("NewDataElementIterator(_) => %v, want *MissingMetaElementError", err)
	}
	assert.Equal(t, []string{"MediaStorageSOPClassUID"}, missing.Missing)
}

func TestNewDataElementIterator_missingGroupLength(t *testing.T) {
	// the meta group must begin with FileMetaInformationGroupLength
	meta := shortElem(MediaStorageSOPClassUIDTag, "UI", uid(testSOPClassUID))
	if _, err := NewDataElementIterator(bytes.NewReader(dicomFileBytes(meta))); err == nil {
		t.Fatal("NewDataElementIterator(_) => nil error, want meta header error")
	}
}

func TestDataElementIterator_close(t *testing.T) {
	in := dicomFileBytes(metaGroupBytes(ExplicitVRLittleEndianUID),
		shortElem(ModalityTag, "CS", text("CT")),
	)
	iter, err := NewDataElementIterator(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => unexpected error %v", err)
	}
	if err := iter.Close(); err != nil {
		t.Fatalf("Close() => unexpected error %v", err)
	}
	if _, err := iter.NextElement(); err != io.EOF {
		t.Errorf("NextElement() after Close => %v, want io.EOF", err)
	}
}
