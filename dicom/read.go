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
	"io"
	"strings"
	"unicode"

	"github.com/medimage/go-dicom-engine/dictionary"
)

// parseDataElement reads one data element from dr under the syntax and
// decode state in md. It returns io.EOF at the natural end of a data set:
// the end of the input, or an item delimitation item when parsing a nested
// data set of undefined length.
func parseDataElement(dr *dcmReader, md *dicomMetaData) (*DataElement, error) {
	startPos := dr.Pos()

	tag, err := dr.Tag(md.syntax.ByteOrder)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, corruptDicom(startPos, 0, "reading tag: %v", err)
	}

	if tag == ItemDelimitationItemTag {
		// end of a nested data set within an undefined-length item. This
		// code never runs for the top level data set.
		length, err := dr.UInt32(md.syntax.ByteOrder)
		if err != nil {
			return nil, corruptDicom(dr.Pos(), tag, "reading length of item delimitation: %v", err)
		}
		if length != 0 {
			return nil, corruptDicom(dr.Pos(), tag, "item delimitation carries length %d, want 0", length)
		}
		return nil, io.EOF
	}

	vr, err := readVR(dr, md, tag)
	if err != nil {
		return nil, err
	}

	length, err := md.syntax.readValueLength(dr, vr)
	if err != nil {
		return nil, corruptDicom(dr.Pos(), tag, "reading value length: %v", err)
	}

	if length == UndefinedLength && !vr.AllowsUndefinedLength() {
		return nil, corruptDicom(dr.Pos(), tag, "undefined length is not permitted for VR %s", vr)
	}
	if length != UndefinedLength && length%2 != 0 {
		// tolerated: some vendors store odd lengths without the pad byte
		logger.Warnf("element %s has odd value length %d", tag, length)
	}

	value, err := readValue(dr, md, tag, vr, length)
	if err != nil {
		return nil, err
	}

	element := &DataElement{tag, vr, value, length}
	observeElement(md, element)
	return element, nil
}

// readVR consumes the VR code under explicit syntaxes, and resolves it
// through the data dictionary (with the private-creator context accumulated
// so far) under implicit syntaxes.
func readVR(dr *dcmReader, md *dicomMetaData, tag DataElementTag) (*VR, error) {
	if md.syntax.Implicit {
		entry, ok := md.private.Lookup(dictionary.Tag(tag))
		if !ok || entry.VR == "" {
			return UNVR, nil
		}
		vr, err := lookupVRByName(entry.VR)
		if err != nil {
			return UNVR, nil
		}
		return vr, nil
	}

	code, err := dr.String(vrSize)
	if err != nil {
		return nil, corruptDicom(dr.Pos(), tag, "reading VR code: %v", err)
	}
	vr, err := lookupVRByName(code)
	if err != nil {
		// vendors occasionally emit non-standard codes; substitute UN
		// (raw bytes, 32-bit length field) and continue
		logger.Warnf("element %s carries unrecognized VR code %q, substituting UN", tag, code)
		return UNVR, nil
	}
	return vr, nil
}

func readValue(dr *dcmReader, md *dicomMetaData, tag DataElementTag, vr *VR, length uint32) (interface{}, error) {
	switch vr.kind {
	case textVR:
		return readText(dr, md, vr, length, unicode.IsSpace)
	case numberBinaryVR:
		return readNumberBinary(dr, tag, vr, length, md.syntax.ByteOrder)
	case bulkDataVR:
		return readBulkData(dr, md, tag, length)
	case uniqueIdentifierVR:
		return readText(dr, md, vr, length, func(r rune) bool {
			return r == 0x00 || r == ' '
		})
	case sequenceVR:
		return newSequenceIterator(dr, md, length)
	case tagVR:
		return readTagValue(dr, tag, length, md.syntax.ByteOrder)
	default:
		return nil, corruptDicom(dr.Pos(), tag, "unknown vr type: %v", vr.kind)
	}
}

func readTagValue(dr *dcmReader, tag DataElementTag, length uint32, order binary.ByteOrder) ([]uint32, error) {
	ret := make([]uint32, length/4) // 4 bytes per tag

	for i := range ret {
		t, err := dr.Tag(order)
		if err != nil {
			return nil, corruptDicom(dr.Pos(), tag, "reading tag value: %v", err)
		}
		ret[i] = uint32(t)
	}
	if err := discardTrailingBytes(dr, tag, length, 4); err != nil {
		return nil, err
	}
	return ret, nil
}

func readText(dr *dcmReader, md *dicomMetaData, vr *VR, length uint32, isPadding func(rune) bool) ([]string, error) {
	if length == 0 {
		return []string{}, nil
	}

	raw, err := dr.Bytes(int64(length))
	if err != nil {
		return nil, corruptDicom(dr.Pos(), 0, "reading text value: %v", err)
	}

	valueField := string(raw)
	if characterSetSensitive(vr) {
		valueField = decodeString(raw, md.encoding)
	}

	// deal with value multiplicity
	strs := strings.Split(valueField, "\\")
	for i, s := range strs {
		if vr == UTVR || vr == STVR || vr == LTVR {
			// leading spaces are significant in unlimited/short/long text
			strs[i] = strings.TrimRightFunc(s, isPadding)
		} else {
			strs[i] = strings.TrimFunc(s, isPadding)
		}
	}
	return strs, nil
}

func readNumberBinary(dr *dcmReader, tag DataElementTag, vr *VR, length uint32, order binary.ByteOrder) (interface{}, error) {
	var data interface{}

	switch vr {
	case SSVR:
		data = make([]int16, length/2)
	case USVR:
		data = make([]uint16, length/2)
	case SLVR:
		data = make([]int32, length/4)
	case ULVR:
		data = make([]uint32, length/4)
	case FLVR:
		data = make([]float32, length/4)
	case FDVR:
		data = make([]float64, length/8)
	default:
		return nil, corruptDicom(dr.Pos(), tag, "unknown binary number vr: %v", vr)
	}

	if err := binary.Read(dr.cr, order, data); err != nil {
		return nil, corruptDicom(dr.Pos(), tag, "reading binary values: %v", err)
	}
	if err := discardTrailingBytes(dr, tag, length, uint32(vr.wordSize)); err != nil {
		return nil, err
	}
	return data, nil
}

// discardTrailingBytes consumes the remainder of a declared length that is
// not a multiple of the VR's word size, so the cursor lands on the next
// element header.
func discardTrailingBytes(dr *dcmReader, tag DataElementTag, length, wordSize uint32) error {
	rem := int64(length % wordSize)
	if rem == 0 {
		return nil
	}
	logger.Warnf("element %s value length %d is not a multiple of %d, discarding %d trailing bytes",
		tag, length, wordSize, rem)
	if err := dr.Skip(rem); err != nil {
		return corruptDicom(dr.Pos(), tag, "discarding trailing value bytes: %v", err)
	}
	return nil
}

func readBulkData(dr *dcmReader, md *dicomMetaData, tag DataElementTag, length uint32) (BulkDataIterator, error) {
	if length == UndefinedLength {
		if tag == PixelDataTag {
			// (7FE0,0010) with undefined length is pixel data in the
			// encapsulated (compressed) format, PS3.5 A.4
			return newEncapsulatedFormatIterator(dr, md.syntax.ByteOrder), nil
		}
		return nil, corruptDicom(dr.Pos(), tag, "undefined length outside pixel data is not supported")
	}

	// native (uncompressed) format: a single contiguous byte stream
	return newOneShotIterator(limitCountReader(dr.cr, int64(length))), nil
}

// observeElement updates the decode state for elements that change how later
// elements are interpreted: the Specific Character Set and private-creator
// declarations.
func observeElement(md *dicomMetaData, element *DataElement) {
	switch {
	case element.Tag == SpecificCharacterSetTag:
		terms, ok := element.ValueField.([]string)
		if !ok || len(terms) == 0 || terms[0] == "" {
			return
		}
		coding, err := lookupEncoding(terms[0])
		if err != nil {
			logger.Warnf("unsupported specific character set: %v", err)
			return
		}
		md.encoding = coding
	case element.Tag.IsPrivateCreator():
		creator, ok := element.ValueField.([]string)
		if !ok || len(creator) == 0 {
			return
		}
		md.private.RecordCreator(dictionary.Tag(element.Tag), creator[0])
	}
}
