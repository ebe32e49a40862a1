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
	"fmt"
	"io"
)

// BulkDataReference describes the location of a contiguous sequence of bytes
// in a file.
type BulkDataReference struct {
	Reference ByteRegion
}

// ByteRegion is a contiguous sequence of bytes described by an offset and a
// length.
type ByteRegion struct {
	Offset int64
	Length int64
}

// BulkDataReader represents a streamable contiguous sequence of bytes within
// a file.
type BulkDataReader struct {
	io.Reader

	// Offset is the number of bytes in the file preceding the bulk data
	// described by the BulkDataReader.
	Offset int64
}

// Close discards all bytes in the reader.
func (r *BulkDataReader) Close() error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// BulkDataBuffer is an in-memory sequence of byte fragments. Uncompressed
// bulk data has exactly one fragment. Encapsulated pixel data has one
// fragment per item as written, with the Basic Offset Table first.
type BulkDataBuffer interface {
	// Data returns the fragments. The returned slices are not copies.
	Data() [][]byte

	// Length returns the total number of bytes across fragments.
	Length() int64
}

// NewBulkDataBuffer returns a BulkDataBuffer holding the given fragments.
func NewBulkDataBuffer(fragments ...[]byte) BulkDataBuffer {
	return bytesValue(fragments)
}

type bytesValue [][]byte

func (b bytesValue) Data() [][]byte {
	return b
}

func (b bytesValue) Length() int64 {
	n := int64(0)
	for _, fragment := range b {
		n += int64(len(fragment))
	}
	return n
}

// BulkDataIterator represents a sequence of BulkDataReaders.
type BulkDataIterator interface {
	// Next returns the next BulkDataReader in the iterator and discards all
	// bytes from all previous BulkDataReaders returned from Next. If there
	// are no remaining BulkDataReaders, the error io.EOF is returned.
	Next() (*BulkDataReader, error)

	// Close discards all remaining BulkDataReaders in the iterator. Any
	// previously returned BulkDataReaders are also emptied.
	Close() error

	// ToBuffer collects all remaining fragments into memory.
	ToBuffer() (BulkDataBuffer, error)

	write(w io.Writer, syntax TransferSyntax) error
}

// oneShotIterator is a BulkDataIterator that contains exactly one
// BulkDataReader, used for bulk data in the native (uncompressed) format.
type oneShotIterator struct {
	cr    *countReader
	empty bool
}

func newOneShotIterator(cr *countReader) BulkDataIterator {
	return &oneShotIterator{cr: cr}
}

func (it *oneShotIterator) Next() (*BulkDataReader, error) {
	if it.empty {
		return nil, io.EOF
	}
	it.empty = true
	return &BulkDataReader{it.cr, it.cr.bytesRead}, nil
}

func (it *oneShotIterator) Close() error {
	if _, err := io.Copy(io.Discard, it.cr); err != nil {
		return fmt.Errorf("closing bulk data: %v", err)
	}
	it.empty = true
	return nil
}

func (it *oneShotIterator) ToBuffer() (BulkDataBuffer, error) {
	fragments, err := CollectFragments(it)
	if err != nil {
		return nil, err
	}
	return NewBulkDataBuffer(fragments...), nil
}

func (it *oneShotIterator) write(w io.Writer, syntax TransferSyntax) error {
	return writeByteFragments(w, func() (io.Reader, error) {
		return it.Next()
	})
}

// encapsulatedFormatIterator represents pixel data in the encapsulated
// format described in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4:
// a variable number of length-prefixed fragments, the first of which is the
// Basic Offset Table, terminated by a sequence delimitation item.
type encapsulatedFormatIterator struct {
	dr            *dcmReader
	order         binary.ByteOrder
	currentReader *BulkDataReader
	empty         bool
}

func newEncapsulatedFormatIterator(dr *dcmReader, order binary.ByteOrder) BulkDataIterator {
	return &encapsulatedFormatIterator{dr: dr, order: order}
}

// Next returns the next fragment of the pixel data. The first return from
// Next is the Basic Offset Table, or an empty BulkDataReader when absent. Any
// previously returned BulkDataReader is emptied. When there are no remaining
// fragments, the error io.EOF is returned.
func (it *encapsulatedFormatIterator) Next() (*BulkDataReader, error) {
	if it.empty {
		return nil, io.EOF
	}
	if it.currentReader != nil {
		if err := it.currentReader.Close(); err != nil {
			return nil, err
		}
	}

	tag, err := processItemTag(it.dr, it.order)
	if err != nil {
		return nil, corruptDicom(it.dr.Pos(), PixelDataTag, "reading encapsulated fragment tag: %v", err)
	}
	if tag == SequenceDelimitationItemTag {
		return nil, it.terminate()
	}

	length, err := it.dr.UInt32(it.order)
	if err != nil {
		return nil, corruptDicom(it.dr.Pos(), PixelDataTag, "reading fragment length: %v", err)
	}
	if length == UndefinedLength {
		return nil, corruptDicom(it.dr.Pos(), PixelDataTag, "fragment must have explicit length")
	}

	fragmentBytes := limitCountReader(it.dr.cr, int64(length))
	it.currentReader = &BulkDataReader{fragmentBytes, fragmentBytes.bytesRead}
	return it.currentReader, nil
}

func (it *encapsulatedFormatIterator) terminate() error {
	length, err := it.dr.UInt32(it.order)
	if err != nil {
		return corruptDicom(it.dr.Pos(), PixelDataTag, "reading length of sequence delimitation item: %v", err)
	}
	if length != 0 {
		logger.Warnf("sequence delimitation item of pixel data carries non-zero length %d", length)
	}
	it.empty = true
	return io.EOF
}

// Close discards all fragments in the iterator.
func (it *encapsulatedFormatIterator) Close() error {
	for r, err := it.Next(); err != io.EOF; r, err = it.Next() {
		if err != nil {
			return fmt.Errorf("reading next fragment: %v", err)
		}
		if err := r.Close(); err != nil {
			return fmt.Errorf("discarding fragment on Close: %v", err)
		}
	}
	return nil
}

func (it *encapsulatedFormatIterator) ToBuffer() (BulkDataBuffer, error) {
	fragments, err := CollectFragments(it)
	if err != nil {
		return nil, err
	}
	return NewBulkDataBuffer(fragments...), nil
}

func (it *encapsulatedFormatIterator) write(w io.Writer, syntax TransferSyntax) error {
	return writeEncapsulatedFormat(w, syntax.ByteOrder, func() (io.Reader, error) {
		return it.Next()
	})
}

// writeByteFragments writes the concatenated byte fragments to w.
func writeByteFragments(w io.Writer, fragmentProvider func() (io.Reader, error)) error {
	for fragment, err := fragmentProvider(); err != io.EOF; fragment, err = fragmentProvider() {
		if err != nil {
			return fmt.Errorf("retrieving next fragment: %v", err)
		}
		if _, err := io.Copy(w, fragment); err != nil {
			return fmt.Errorf("writing fragment: %v", err)
		}
	}
	return nil
}

// writeEncapsulatedFormat writes the byte fragments in the encapsulated
// format. The first fragment provided is taken to be the Basic Offset Table.
func writeEncapsulatedFormat(w io.Writer, order binary.ByteOrder, fragmentProvider func() (io.Reader, error)) error {
	dw := &dcmWriter{w}

	for fragment, err := fragmentProvider(); err != io.EOF; fragment, err = fragmentProvider() {
		if err != nil {
			return err
		}
		if err := dw.Tag(order, ItemTag); err != nil {
			return fmt.Errorf("writing fragment tag: %v", err)
		}

		// TODO stream fragments without buffering once fragment lengths are
		// carried alongside the readers
		buff, err := io.ReadAll(fragment)
		if err != nil {
			return fmt.Errorf("buffering fragment: %v", err)
		}
		if len(buff)%2 != 0 {
			// item lengths must be even (PS3.5 7.5)
			buff = append(buff, 0x00)
		}

		if err := dw.UInt32(order, uint32(len(buff))); err != nil {
			return fmt.Errorf("writing fragment length: %v", err)
		}
		if err := dw.Bytes(buff); err != nil {
			return fmt.Errorf("writing fragment: %v", err)
		}
	}

	if err := dw.Delimiter(order, SequenceDelimitationItemTag); err != nil {
		return fmt.Errorf("writing fragment delimitation: %v", err)
	}
	return nil
}
