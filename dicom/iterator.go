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

// DataElementIterator is an iterator over a stream of data elements in the
// order in which they appear in the input.
type DataElementIterator interface {
	// NextElement returns the next DataElement in the stream. If there is no
	// next DataElement, the error io.EOF is returned. In addition, if any
	// previously returned DataElement contained iterable values such as a
	// SequenceIterator or BulkDataIterator, those iterators are emptied.
	NextElement() (*DataElement, error)

	// Close discards all remaining DataElements in the iterator.
	Close() error

	// Length returns the number of bytes in the data set being iterated, or
	// UndefinedLength when the data set is delimited rather than
	// length-prefixed.
	Length() uint32

	syntax() TransferSyntax
}

// NewDataElementIterator creates a DataElementIterator from a DICOM file. The
// implementation returned consumes input from the io.Reader as needed. The
// iterator first replays the file meta elements and then yields main data set
// elements under the transfer syntax the meta group announced.
//
// When the announced transfer syntax has no registered descriptor, the
// returned iterator is still non-nil and yields the meta elements already
// read, alongside a *UnsupportedTransferSyntaxError.
func NewDataElementIterator(r io.Reader) (DataElementIterator, error) {
	dr := newDcmReader(r)
	if err := readDicomSignature(dr); err != nil {
		return nil, err
	}

	header, err := readMetaHeader(dr)
	if err != nil {
		return nil, fmt.Errorf("reading meta header: %w", err)
	}

	syntax, err := LookupTransferSyntax(header.syntaxUID)
	if err != nil {
		return &metaElementIterator{elements: header.elements}, err
	}

	if syntax.Deflated {
		dr = newDcmReader(flate.NewReader(dr.cr))
	}

	return &dataElementIterator{
		dr:         dr,
		md:         newMetaData(syntax),
		length:     UndefinedLength,
		metaHeader: &metaElementIterator{elements: header.elements},
	}, nil
}

// newItemIterator creates a DataElementIterator over the elements of a single
// sequence item. For defined-length items dr must already be limited to the
// item's bytes; for undefined-length items the item delimitation tag ends the
// iteration inside parseDataElement.
func newItemIterator(dr *dcmReader, md *dicomMetaData, length uint32) DataElementIterator {
	return &dataElementIterator{dr: dr, md: md, length: length, metaHeader: emptyElementIterator{md.syntax}}
}

type dataElementIterator struct {
	dr             *dcmReader
	md             *dicomMetaData
	length         uint32
	currentElement *DataElement
	empty          bool
	metaHeader     DataElementIterator
}

func (it *dataElementIterator) NextElement() (*DataElement, error) {
	metaElem, err := it.metaHeader.NextElement()
	if err == io.EOF {
		return it.nextDataSetElement()
	}
	if err != nil {
		return nil, err
	}
	return metaElem, nil
}

func (it *dataElementIterator) Length() uint32 {
	return it.length
}

func (it *dataElementIterator) syntax() TransferSyntax {
	return it.md.syntax
}

func (it *dataElementIterator) nextDataSetElement() (*DataElement, error) {
	if it.empty {
		return nil, io.EOF
	}
	if err := it.closeCurrent(); err != nil {
		return nil, fmt.Errorf("closing: %v", err)
	}

	element, err := parseDataElement(it.dr, it.md)
	if err == io.EOF {
		it.empty = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("parsing element: %w", err)
	}

	it.currentElement = element

	return it.currentElement, nil
}

func (it *dataElementIterator) Close() error {
	// empty the iterator
	for _, err := it.NextElement(); err != io.EOF; _, err = it.NextElement() {
		if err != nil {
			return fmt.Errorf("unexpected error closing iterator: %v", err)
		}
	}
	return nil
}

// closeCurrent ensures the iterator is ready to read the next DataElement. If
// this iterator previously returned a stream of bytes such as a
// BulkDataIterator, that stream must be emptied to advance the input to the
// bytes of the next DataElement. This pattern is similar to the implementation
// of multipart.Reader in the go standard library.
// https://golang.org/src/mime/multipart/multipart.go?s=8400:8697#L303
func (it *dataElementIterator) closeCurrent() error {
	if it.currentElement == nil {
		return nil
	}

	if closer, ok := it.currentElement.ValueField.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func readDicomSignature(r *dcmReader) error {
	if err := r.Skip(128); err != nil {
		return fmt.Errorf("skipping preamble: %v", err)
	}

	magic, err := r.String(4)
	if err != nil {
		return fmt.Errorf("reading DICOM signature: %v", err)
	}

	if magic != "DICM" {
		return fmt.Errorf("wrong DICOM signature: %v", magic)
	}

	return nil
}

// metaElementIterator replays already parsed file meta elements. The meta
// group is always encoded in Explicit VR Little Endian regardless of the
// transfer syntax of the main data set.
type metaElementIterator struct {
	elements []*DataElement
	pos      int
}

func (it *metaElementIterator) NextElement() (*DataElement, error) {
	if it.pos >= len(it.elements) {
		return nil, io.EOF
	}
	elem := it.elements[it.pos]
	it.pos++
	return elem, nil
}

func (it *metaElementIterator) Length() uint32 {
	return UndefinedLength
}

func (it *metaElementIterator) syntax() TransferSyntax {
	return explicitVRLittleEndian
}

func (it *metaElementIterator) Close() error {
	it.pos = len(it.elements)
	return nil
}

type emptyElementIterator struct {
	elementSyntax TransferSyntax
}

func (it emptyElementIterator) NextElement() (*DataElement, error) {
	return nil, io.EOF
}

func (it emptyElementIterator) Length() uint32 {
	return UndefinedLength
}

func (it emptyElementIterator) syntax() TransferSyntax {
	return it.elementSyntax
}

func (it emptyElementIterator) Close() error {
	return nil
}
