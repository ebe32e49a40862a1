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
)

// Sequence models a DICOM Sequence of Items: an ordered list of nested data
// sets, each owned exclusively by this sequence.
type Sequence struct {
	Items []*DataSet
}

func (seq *Sequence) String() string {
	return seq.string(0)
}

func (seq *Sequence) string(indentLvl int) string {
	lines := make([]string, 0, len(seq.Items))
	for _, item := range seq.Items {
		lines = append(lines, item.string(indentLvl+1))
	}
	return "\n" + strings.Join(lines, "\n")
}

func (seq *Sequence) append(dataSet *DataSet) {
	seq.Items = append(seq.Items, dataSet)
}

// SequenceIterator is an iterator over a DICOM Sequence of Items in the order
// in which they appear in the stream.
type SequenceIterator interface {
	// Next returns the next item in the sequence. If there is no next item,
	// the error io.EOF is returned. Any previously returned iterators from
	// Next are emptied.
	Next() (DataElementIterator, error)

	// Close discards all remaining items in the iterator. Any previously
	// returned iterators from Next are emptied.
	Close() error
}

func newSequenceIterator(dr *dcmReader, md *dicomMetaData, length uint32) (SequenceIterator, error) {
	if length < UndefinedLength {
		return &explicitLengthSequenceIterator{dr.Limit(int64(length)), md, nil}, nil
	}
	return &undefinedLengthSequenceIterator{dr, md, nil, false}, nil
}

// explicitLengthSequenceIterator iterates a sequence whose total byte length
// was stated up front: items are consumed until the limited cursor is
// exhausted.
type explicitLengthSequenceIterator struct {
	dr             *dcmReader
	md             *dicomMetaData
	currentSeqItem DataElementIterator
}

func (it *explicitLengthSequenceIterator) Next() (DataElementIterator, error) {
	if it.currentSeqItem != nil {
		if err := it.currentSeqItem.Close(); err != nil {
			return nil, err
		}
	}

	tag, err := processItemTag(it.dr, it.md.syntax.ByteOrder)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	if tag == SequenceDelimitationItemTag {
		return nil, corruptDicom(it.dr.Pos(), tag, "sequence delimitation item inside explicit length sequence")
	}

	it.currentSeqItem, err = newSeqItem(it.dr, it.md)
	return it.currentSeqItem, err
}

func (it *explicitLengthSequenceIterator) Close() error {
	return closeSeq(it)
}

// undefinedLengthSequenceIterator iterates a sequence carrying the
// undefined-length sentinel: items are consumed until the sequence
// delimitation item is read. This is the delimiter-scanning mode of the
// two-mode state machine; explicitLengthSequenceIterator is the
// defined-length consumption mode.
type undefinedLengthSequenceIterator struct {
	dr             *dcmReader
	md             *dicomMetaData
	currentSeqItem DataElementIterator
	empty          bool
}

func (it *undefinedLengthSequenceIterator) Next() (DataElementIterator, error) {
	if it.empty {
		return nil, io.EOF
	}
	if it.currentSeqItem != nil {
		if err := it.currentSeqItem.Close(); err != nil {
			return nil, err
		}
	}

	tag, err := processItemTag(it.dr, it.md.syntax.ByteOrder)
	if err == io.EOF {
		return nil, corruptDicom(it.dr.Pos(), 0, "unexpected EOF in undefined length sequence")
	}
	if err != nil {
		return nil, err
	}
	if tag == SequenceDelimitationItemTag {
		return nil, it.terminate()
	}

	it.currentSeqItem, err = newSeqItem(it.dr, it.md)
	return it.currentSeqItem, err
}

func (it *undefinedLengthSequenceIterator) terminate() error {
	itemLength, err := it.dr.UInt32(it.md.syntax.ByteOrder)
	if err != nil {
		return corruptDicom(it.dr.Pos(), SequenceDelimitationItemTag, "reading length of sequence delimitation item: %v", err)
	}
	if itemLength != 0 {
		return corruptDicom(it.dr.Pos(), SequenceDelimitationItemTag, "sequence delimitation item carries length %d, want 0", itemLength)
	}
	// the empty flag prevents the iterator from advancing the input past the
	// end of the sequence on further Next calls. Explicit length sequences
	// do not need it because their cursor is wrapped in an io.LimitedReader.
	it.empty = true
	return io.EOF
}

func (it *undefinedLengthSequenceIterator) Close() error {
	return closeSeq(it)
}

func processItemTag(dr *dcmReader, order binary.ByteOrder) (DataElementTag, error) {
	tag, err := dr.Tag(order)
	if err == io.EOF {
		return tag, io.EOF
	}
	if err != nil {
		return tag, corruptDicom(dr.Pos(), 0, "reading item tag: %v", err)
	}
	if tag != ItemTag && tag != SequenceDelimitationItemTag {
		return tag, corruptDicom(dr.Pos(), tag, "invalid item tag, want %s or %s", ItemTag, SequenceDelimitationItemTag)
	}
	return tag, nil
}

func newSeqItem(dr *dcmReader, md *dicomMetaData) (DataElementIterator, error) {
	itemLength, err := dr.UInt32(md.syntax.ByteOrder)
	if err != nil {
		return nil, corruptDicom(dr.Pos(), ItemTag, "reading sequence item length: %v", err)
	}

	if itemLength == UndefinedLength {
		return newItemIterator(dr, md, itemLength), nil
	}
	return newItemIterator(dr.Limit(int64(itemLength)), md, itemLength), nil
}

func closeSeq(iter SequenceIterator) error {
	for _, err := iter.Next(); err != io.EOF; _, err = iter.Next() {
		if err != nil {
			return err
		}
	}
	return nil
}
