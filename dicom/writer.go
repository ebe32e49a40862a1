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
	"compress/flate"
	"fmt"
	"io"
)

// DataElementWriter writes DataElements one at a time.
type DataElementWriter interface {
	// WriteElement writes a single element of the main data set.
	WriteElement(element *DataElement) error

	// Close flushes any output the underlying transfer syntax buffers. It
	// must be called once all elements are written; for deflated transfer
	// syntaxes the output is incomplete without it.
	Close() error
}

var errExpectedMetaHeader = fmt.Errorf("expected header to only contain file meta elements, " +
	"use DataSet.MetaElements to filter DataSet")

// NewDataElementWriter writes the DICOM preamble, signature, and meta header
// to w and returns a DataElementWriter that writes DataElements in the
// transfer syntax specified by the header. The options are applied in the
// order given to all DataElements including file meta elements before being
// written to w.
func NewDataElementWriter(w io.Writer, header *DataSet, opts ...ConstructOption) (DataElementWriter, error) {
	if !header.isMetaHeader() {
		return nil, errExpectedMetaHeader
	}

	syntax, err := header.transferSyntax()
	if err != nil {
		return nil, fmt.Errorf("getting transfer syntax from header: %v", err)
	}

	dw := &dcmWriter{w}
	if err := writeDicomSignature(dw); err != nil {
		return nil, err
	}

	// Process meta header elements before re-calculating the
	// FileMetaInformationGroupLength in case an option modifies the length of
	// a DataElement. The caller's header is left untouched.
	processed := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: header.Length}
	for tag, element := range header.Elements {
		element, err := processElementForConstruct(element, explicitVRLittleEndian, opts...)
		if err != nil {
			return nil, fmt.Errorf("processing element: %v", err)
		}
		processed.Elements[tag] = element
	}

	// The FileMetaInformationGroupLength element stores how long the meta
	// header is, so it must be re-calculated after the options ran.
	metaGroupLengthElement, err := createMetaGroupLengthElement(processed)
	if err != nil {
		return nil, fmt.Errorf("creating meta group length element: %v", err)
	}
	processed.Elements[FileMetaInformationGroupLengthTag] = metaGroupLengthElement

	// Meta elements are always written in the Explicit VR Little Endian
	// syntax in ascending order.
	for _, element := range processed.SortedElements() {
		if err := writeDataElement(dw, explicitVRLittleEndian, element); err != nil {
			return nil, fmt.Errorf("writing data element: %v", err)
		}
	}

	if syntax.Deflated {
		// everything after the meta group is a deflated byte stream
		fw, err := flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("creating deflate writer: %v", err)
		}
		return &dataElementWriter{&dcmWriter{fw}, syntax, opts, fw}, nil
	}

	return &dataElementWriter{dw, syntax, opts, nil}, nil
}

type dataElementWriter struct {
	dw      *dcmWriter
	syntax  TransferSyntax
	opts    []ConstructOption
	deflate *flate.Writer
}

func (dew *dataElementWriter) WriteElement(element *DataElement) error {
	element, err := processElementForConstruct(element, dew.syntax, dew.opts...)
	if err != nil {
		return err
	}
	return writeDataElement(dew.dw, dew.syntax, element)
}

func (dew *dataElementWriter) Close() error {
	if dew.deflate == nil {
		return nil
	}
	return dew.deflate.Close()
}

func writeDicomSignature(dw *dcmWriter) error {
	if err := dw.Bytes(make([]byte, 128)); err != nil {
		return fmt.Errorf("writing DICOM preamble: %v", err)
	}

	if err := dw.String("DICM"); err != nil {
		return fmt.Errorf("writing DICOM signature: %v", err)
	}

	return nil
}

func createMetaGroupLengthElement(header *DataSet) (*DataElement, error) {
	// Please refer to the DICOM Standard Part 10 for information on the File
	// Meta Information Group Length.
	// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1

	size := uint32(0)
	for _, element := range header.Elements {
		if element.Tag == FileMetaInformationGroupLengthTag {
			// The FileMetaGroupLength byte count excludes itself.
			continue
		}
		element, err := processedElement(element, explicitVRLittleEndian)
		if err != nil {
			return nil, fmt.Errorf("processing meta element: %v", err)
		}
		size += explicitVRLittleEndian.elementSize(element.VR, element.ValueLength)
	}

	return &DataElement{
		Tag:         FileMetaInformationGroupLengthTag,
		VR:          FileMetaInformationGroupLengthTag.DictionaryVR(),
		ValueField:  []uint32{size},
		ValueLength: 4, // 4bytes = sizeof uint32
	}, nil
}

func processElementForConstruct(element *DataElement, syntax TransferSyntax, opts ...ConstructOption) (*DataElement, error) {
	element, err := applyConstructOptions(element, syntax, opts...)
	if err != nil {
		return nil, fmt.Errorf("applying construct options: %v", err)
	}

	if seq, ok := element.ValueField.(*Sequence); ok {
		processedSeq, err := processSequenceForConstruct(seq, syntax, opts...)
		if err != nil {
			return nil, fmt.Errorf("processing sequence: %v", err)
		}
		element.ValueField = processedSeq
	}

	return element, nil
}

func applyConstructOptions(element *DataElement, syntax TransferSyntax, opts ...ConstructOption) (*DataElement, error) {
	var err error
	for i, opt := range opts {
		element, err = opt.transform(element)
		if err != nil {
			return nil, fmt.Errorf("applying option %v: %v", i, err)
		}
	}

	// As documented in ConstructOptionWithTransform, after the transforms are
	// applied the length is re-calculated and VRs added from the data
	// dictionary if nil.
	return processedElement(element, syntax)
}

func processSequenceForConstruct(sequence *Sequence, syntax TransferSyntax, opts ...ConstructOption) (*Sequence, error) {
	ret := &Sequence{Items: []*DataSet{}}
	for _, item := range sequence.Items {
		processedItem, err := processItemForConstruct(item, syntax, opts...)
		if err != nil {
			return nil, fmt.Errorf("processing sequence item: %v", err)
		}
		ret.append(processedItem)
	}
	return ret, nil
}

func processItemForConstruct(dataSet *DataSet, syntax TransferSyntax, opts ...ConstructOption) (*DataSet, error) {
	ret := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: dataSet.Length}
	for _, element := range dataSet.SortedElements() {
		processedElement, err := processElementForConstruct(element, syntax, opts...)
		if err != nil {
			return nil, fmt.Errorf("processing element %s: %v", element.Tag, err)
		}
		ret.Elements[processedElement.Tag] = processedElement
	}
	return ret, nil
}
