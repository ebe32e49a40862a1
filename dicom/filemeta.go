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
	"fmt"
	"io"
)

// metaHeader holds the file meta information group. It is created unparsed,
// holding only the raw group bytes, and becomes resolved once the elements
// are parsed and the required unique identifiers validated.
type metaHeader struct {
	raw       []byte
	elements  []*DataElement
	syntaxUID string
}

// readMetaHeader buffers the file meta information group from dr and resolves
// it. The group is delimited by the File Meta Information Group Length element
// and always encoded in Explicit VR Little Endian.
func readMetaHeader(dr *dcmReader) (*metaHeader, error) {
	raw, err := bufferMetaGroup(dr)
	if err != nil {
		return nil, err
	}
	header := &metaHeader{raw: raw}
	if err := header.resolve(); err != nil {
		return nil, err
	}
	return header, nil
}

// bufferMetaGroup reads the bytes of the file meta group into memory: the
// group length element first, then exactly as many bytes as it declares.
func bufferMetaGroup(dr *dcmReader) ([]byte, error) {
	firstElemBytes, err := dr.Bytes(4 /*tag*/ + 2 /*vr*/ + 2 /*len*/ + 4 /*UL=4bytes*/)
	if err != nil {
		return nil, fmt.Errorf("buffering bytes of FileMetaInformationGroupLength: %v", err)
	}
	firstElem, err := parseDataElement(
		newDcmReader(bytes.NewBuffer(firstElemBytes)), newMetaData(explicitVRLittleEndian))
	if err != nil {
		return nil, fmt.Errorf("parsing FileMetaInformationGroupLength element: %v", err)
	}
	if firstElem.Tag != FileMetaInformationGroupLengthTag {
		return nil, corruptDicom(dr.Pos(), firstElem.Tag, "file meta group must begin with FileMetaInformationGroupLength")
	}

	groupLength, ok := firstElem.ValueField.([]uint32)
	if !ok {
		return nil, fmt.Errorf("wrong type for FileMetaInformationGroupLength. Got %T, want []uint32", firstElem.ValueField)
	}
	if len(groupLength) != 1 {
		return nil, fmt.Errorf("expected 1 value for meta group length, got %d", len(groupLength))
	}

	remainderBytes, err := dr.Bytes(int64(groupLength[0]))
	if err != nil {
		return nil, fmt.Errorf("buffering the file meta elements: %v", err)
	}

	return append(firstElemBytes, remainderBytes...), nil
}

// resolve parses the buffered group bytes and validates that the three
// required unique identifiers are present with single non-empty values.
func (h *metaHeader) resolve() error {
	metaDR := newDcmReader(bytes.NewBuffer(h.raw))
	md := newMetaData(explicitVRLittleEndian)

	uids := map[DataElementTag]string{}
	for {
		elem, err := parseDataElement(metaDR, md)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing meta element: %w", err)
		}
		if elem.Tag.GroupNumber() != 0x0002 {
			return corruptDicom(metaDR.Pos(), elem.Tag, "non-meta element inside file meta group")
		}
		elem, err = bufferedElement(elem)
		if err != nil {
			return fmt.Errorf("buffering meta element %s: %v", elem.Tag, err)
		}
		h.elements = append(h.elements, elem)

		switch elem.Tag {
		case TransferSyntaxUIDTag, MediaStorageSOPClassUIDTag, MediaStorageSOPInstanceUIDTag:
			if v, ok := elem.ValueField.([]string); ok && len(v) == 1 && v[0] != "" {
				uids[elem.Tag] = v[0]
			}
		}
	}

	var missing []string
	for _, tag := range []DataElementTag{MediaStorageSOPClassUIDTag, MediaStorageSOPInstanceUIDTag, TransferSyntaxUIDTag} {
		if _, ok := uids[tag]; !ok {
			missing = append(missing, tag.Keyword())
		}
	}
	if len(missing) > 0 {
		return &MissingMetaElementError{Missing: missing}
	}

	h.syntaxUID = uids[TransferSyntaxUIDTag]
	return nil
}

// bufferedElement materializes any streaming value in elem so the meta
// elements can be replayed after the header is resolved.
func bufferedElement(elem *DataElement) (*DataElement, error) {
	iter, ok := elem.ValueField.(BulkDataIterator)
	if !ok {
		return elem, nil
	}
	buffer, err := iter.ToBuffer()
	if err != nil {
		return nil, err
	}
	return &DataElement{Tag: elem.Tag, VR: elem.VR, ValueField: buffer, ValueLength: elem.ValueLength}, nil
}
