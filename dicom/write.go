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
	"fmt"
	"io"
	"math"
	"strings"
)

func writeDataElement(dw *dcmWriter, syntax TransferSyntax, element *DataElement) error {
	element, err := processedElement(element, syntax)
	if err != nil {
		return fmt.Errorf("processing element: %v", err)
	}
	if err := checkValueKind(element.Tag, element.VR, element.ValueField); err != nil {
		return err
	}

	if err := dw.Tag(syntax.ByteOrder, element.Tag); err != nil {
		return fmt.Errorf("writing tag: %v", err)
	}
	if err := syntax.writeVR(dw, element.VR); err != nil {
		return fmt.Errorf("writing VR: %v", err)
	}
	if err := syntax.writeValueLength(dw, element.VR, element.ValueLength); err != nil {
		return fmt.Errorf("writing length: %v", err)
	}
	if err := writeValue(dw, syntax, element.VR, element.ValueLength, element.ValueField); err != nil {
		return fmt.Errorf("writing value: %v", err)
	}

	return nil
}

// processedElement returns a copy of element with a nil VR filled in from the
// data dictionary and its ValueLength re-calculated from the ValueField.
func processedElement(element *DataElement, syntax TransferSyntax) (*DataElement, error) {
	vr := element.VR
	if vr == nil {
		vr = element.Tag.DictionaryVR()
	}

	length, err := calculateElementLength(element, syntax)
	if err != nil {
		return nil, fmt.Errorf("calculating value length: %v", err)
	}

	return &DataElement{element.Tag, vr, element.ValueField, length}, nil
}

// checkValueKind verifies that the dynamic type of valueField is one the VR
// can represent on the wire.
func checkValueKind(tag DataElementTag, vr *VR, valueField interface{}) error {
	ok := false
	switch vr.kind {
	case textVR, uniqueIdentifierVR:
		_, ok = valueField.([]string)
	case numberBinaryVR:
		switch vr {
		case SSVR:
			_, ok = valueField.([]int16)
		case USVR:
			_, ok = valueField.([]uint16)
		case SLVR:
			_, ok = valueField.([]int32)
		case ULVR:
			_, ok = valueField.([]uint32)
		case FLVR:
			_, ok = valueField.([]float32)
		case FDVR:
			_, ok = valueField.([]float64)
		}
	case bulkDataVR:
		switch valueField.(type) {
		case [][]byte, BulkDataBuffer, BulkDataIterator,
			[]string, []uint32, []float32, []float64:
			ok = true
		}
	case sequenceVR:
		switch valueField.(type) {
		case *Sequence, SequenceIterator:
			ok = true
		}
	case tagVR:
		_, ok = valueField.([]uint32)
	}
	if !ok {
		return &VRMismatchError{Tag: tag, VR: vr, Got: fmt.Sprintf("%T", valueField)}
	}
	return nil
}

func calculateElementLength(element *DataElement, syntax TransferSyntax) (uint32, error) {
	if element.ValueLength == UndefinedLength {
		return UndefinedLength, nil
	}

	numBytes := int64(0)

	switch v := element.ValueField.(type) {
	case []string:
		for _, s := range v {
			numBytes += int64(len(s))
		}
		if len(v) > 0 { // requires "\" delimiter
			numBytes += int64(len(v)) - 1
		}
	case [][]byte:
		for _, fragment := range v {
			numBytes += int64(len(fragment))
		}
	case []int16:
		numBytes = int64(len(v)) * 2
	case []uint16:
		numBytes = int64(len(v)) * 2
	case []int32:
		numBytes = int64(len(v)) * 4
	case []uint32:
		numBytes = int64(len(v)) * 4
	case []float32:
		numBytes = int64(len(v)) * 4
	case []float64:
		numBytes = int64(len(v)) * 8
	case *Sequence:
		seqLen, err := calculateSequenceLength(v, syntax)
		if err != nil {
			return 0, fmt.Errorf("calculating sequence length: %v", err)
		}
		return seqLen, nil
	case SequenceIterator:
		return UndefinedLength, nil
	case BulkDataBuffer:
		numBytes = v.Length()
		if numBytes < 0 {
			return 0, fmt.Errorf("explicit length must be provided to write BulkDataBuffer")
		}
	case BulkDataIterator:
		// a streaming value keeps the length it was stored with
		numBytes = int64(element.ValueLength)
	default:
		return 0, fmt.Errorf("unexpected ValueField type %T", element.ValueField)
	}

	if numBytes >= math.MaxUint32 {
		return UndefinedLength, nil
	}

	if numBytes%2 != 0 {
		numBytes++
	}

	return uint32(numBytes), nil
}

func calculateSequenceLength(seq *Sequence, syntax TransferSyntax) (uint32, error) {
	size := int64(0)
	for _, item := range seq.Items {
		itemLen, err := calculateDataSetLength(item, syntax)
		if err != nil {
			return 0, fmt.Errorf("calculating sequence item length: %v", err)
		}
		if itemLen == UndefinedLength {
			// a delimited item forces the enclosing sequence to be delimited
			return UndefinedLength, nil
		}
		item.Length = itemLen
		size += tagSize + 4 /*32 bit length*/ + int64(itemLen)
	}

	if size > math.MaxUint32 {
		return UndefinedLength, nil
	}

	return uint32(size), nil
}

func calculateDataSetLength(item *DataSet, syntax TransferSyntax) (uint32, error) {
	if item.Length >= UndefinedLength {
		return UndefinedLength, nil
	}

	size := int64(0)
	for _, elem := range item.Elements {
		elem, err := processedElement(elem, syntax)
		if err != nil {
			return 0, fmt.Errorf("calculating data set element length: %v", err)
		}
		if elem.ValueLength == UndefinedLength {
			return UndefinedLength, nil
		}
		size += int64(syntax.elementSize(elem.VR, elem.ValueLength))
	}

	if size > math.MaxUint32 {
		return UndefinedLength, nil
	}

	return uint32(size), nil
}

func writeValue(dw *dcmWriter, syntax TransferSyntax, vr *VR, length uint32, valueField interface{}) error {
	switch vr.kind {
	case textVR, uniqueIdentifierVR:
		return writeText(dw, vr.padding, valueField)
	case numberBinaryVR:
		return writeNumberBinary(dw, syntax, valueField)
	case bulkDataVR:
		return writeBulkData(dw, syntax, vr, length, valueField)
	case sequenceVR:
		return writeSequence(dw, syntax, length, valueField)
	case tagVR:
		return writeTag(dw, syntax.ByteOrder, valueField)
	default:
		return fmt.Errorf("unknown vr kind found: %v", vr.kind)
	}
}

func writeText(dw *dcmWriter, paddingByte byte, v interface{}) error {
	strs, ok := v.([]string)
	if !ok {
		return fmt.Errorf("expected type []string got %T", v)
	}

	b := strings.Join(strs, "\\")
	if len(b)%2 != 0 {
		b += string(paddingByte)
	}

	return dw.String(b)
}

func writeNumberBinary(dw *dcmWriter, syntax TransferSyntax, v interface{}) error {
	switch field := v.(type) {
	case []int16, []uint16, []int32, []uint32, []float32, []float64:
		return binary.Write(dw, syntax.ByteOrder, v)
	default:
		return fmt.Errorf("unsupported binary number type: %T", field)
	}
}

func writeBulkData(dw *dcmWriter, syntax TransferSyntax, vr *VR, length uint32, v interface{}) error {
	switch field := v.(type) {
	case BulkDataIterator:
		return field.write(dw, syntax)
	case BulkDataBuffer:
		return writeFragments(dw, syntax, vr, length, field.Data())
	case [][]byte:
		return writeFragments(dw, syntax, vr, length, field)
	case []uint32, []float32, []float64:
		return binary.Write(dw, syntax.ByteOrder, field)
	case []string:
		return writeText(dw, vr.padding, v)
	default:
		return fmt.Errorf("unknown bulk data type: %T", v)
	}
}

func writeFragments(dw *dcmWriter, syntax TransferSyntax, vr *VR, length uint32, fragments [][]byte) error {
	idx := 0
	fragmentProvider := func() (io.Reader, error) {
		if idx >= len(fragments) {
			return nil, io.EOF
		}
		r := bytes.NewReader(fragments[idx])
		idx++
		return r, nil
	}
	if length == UndefinedLength {
		// UndefinedLength is always the encapsulated format.
		return writeEncapsulatedFormat(dw, syntax.ByteOrder, fragmentProvider)
	}
	if err := writeByteFragments(dw, fragmentProvider); err != nil {
		return err
	}

	// the declared length is rounded up to even, so an odd byte count needs
	// the VR's pad byte to keep the stream framed
	total := int64(0)
	for _, fragment := range fragments {
		total += int64(len(fragment))
	}
	if total%2 != 0 {
		return dw.Bytes([]byte{vr.padding})
	}
	return nil
}

func writeSequence(dw *dcmWriter, syntax TransferSyntax, length uint32, v interface{}) error {
	seq, ok := v.(*Sequence)
	if !ok {
		return fmt.Errorf("unknown sequence type found: %T (expected *Sequence)", v)
	}

	for _, item := range seq.Items {
		itemLen, err := calculateDataSetLength(item, syntax)
		if err != nil {
			return fmt.Errorf("calculating item length: %v", err)
		}
		if err := dw.Tag(syntax.ByteOrder, ItemTag); err != nil {
			return fmt.Errorf("writing item tag: %v", err)
		}
		if err := dw.UInt32(syntax.ByteOrder, itemLen); err != nil {
			return fmt.Errorf("writing item length: %v", err)
		}

		if err := writeDataSet(dw, syntax, item); err != nil {
			return fmt.Errorf("writing sequence item: %v", err)
		}

		if itemLen == UndefinedLength {
			if err := dw.Delimiter(syntax.ByteOrder, ItemDelimitationItemTag); err != nil {
				return fmt.Errorf("writing item delimitation item: %v", err)
			}
		}
	}

	if length == UndefinedLength {
		if err := dw.Delimiter(syntax.ByteOrder, SequenceDelimitationItemTag); err != nil {
			return fmt.Errorf("writing sequence delimitation item: %v", err)
		}
	}
	return nil
}

func writeTag(dw *dcmWriter, order binary.ByteOrder, valueField interface{}) error {
	tags, ok := valueField.([]uint32)
	if !ok {
		return fmt.Errorf("unexpected type for tag VR: %T (expected []uint32)", valueField)
	}
	for _, tag := range tags {
		if err := dw.Tag(order, DataElementTag(tag)); err != nil {
			return fmt.Errorf("writing tag value: %v", err)
		}
	}
	return nil
}

func writeDataSet(dw *dcmWriter, syntax TransferSyntax, ds *DataSet) error {
	for _, tag := range ds.SortedTags() {
		element := ds.Elements[tag]
		if err := writeDataElement(dw, syntax, element); err != nil {
			return fmt.Errorf("writing data element: %v", err)
		}
	}
	return nil
}
