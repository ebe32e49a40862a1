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
	"fmt"
	"sort"
	"strings"

	"github.com/medimage/go-dicom-engine/dictionary"
)

// DataElement models a DICOM Data Element as defined in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataElement struct {
	Tag DataElementTag

	// Value Representation
	VR *VR

	// ValueField represents the field within a Data Element that contains its
	// value(s). Can be any of the following types:
	// []string,
	// []int16,
	// []uint16,
	// []int32,
	// []uint32,
	// []float32,
	// []float64,
	// []BulkDataReference,
	// BulkDataBuffer,
	// BulkDataIterator,
	// SequenceIterator,
	// *Sequence
	ValueField interface{}

	// ValueLength is equal to the length of the ValueField in bytes as stored
	// in the input. Can be equal to 0xFFFFFFFF to represent an undefined
	// length:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
	ValueLength uint32
}

// StringValue returns the single string value of the element. ok is false if
// the element does not hold exactly one string.
func (e *DataElement) StringValue() (v string, ok bool) {
	strs, ok := e.ValueField.([]string)
	if !ok || len(strs) != 1 {
		return "", false
	}
	return strs[0], true
}

// IntValue returns the single integer value of the element widened to int64.
// ok is false if the element does not hold exactly one integer.
func (e *DataElement) IntValue() (v int64, ok bool) {
	switch field := e.ValueField.(type) {
	case []int16:
		if len(field) == 1 {
			return int64(field[0]), true
		}
	case []uint16:
		if len(field) == 1 {
			return int64(field[0]), true
		}
	case []int32:
		if len(field) == 1 {
			return int64(field[0]), true
		}
	case []uint32:
		if len(field) == 1 {
			return int64(field[0]), true
		}
	}
	return 0, false
}

func (e *DataElement) String() string {
	return e.string(0)
}

func (e *DataElement) string(indentLvl int) string {
	indent := strings.Repeat("  ", indentLvl)
	if seq, ok := e.ValueField.(*Sequence); ok {
		return fmt.Sprintf("%s%s %s %s", indent, e.Tag, e.VR, seq.string(indentLvl))
	}
	return fmt.Sprintf("%s%s %s %v", indent, e.Tag, e.VR, e.ValueField)
}

// DataSet models a DICOM Data Set as defined in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataSet struct {
	// Elements is a map of DataElement tags to *DataElement
	Elements map[DataElementTag]*DataElement

	// Length is the number of bytes this DataSet occupied in its stored form.
	// Equal to UndefinedLength when the data set was delimited rather than
	// length-prefixed, as for items of an undefined length sequence.
	Length uint32
}

// NewDataSet returns a DataSet with the given elements, keyed by tag. Elements
// with duplicate tags overwrite in iteration order of the input, which for a
// map argument is unspecified; callers that care build the map themselves.
func NewDataSet(elements map[DataElementTag]*DataElement) *DataSet {
	ds := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for tag, elem := range elements {
		ds.Elements[tag] = elem
	}
	return ds
}

// SortedTags returns the tags in the DataSet in ascending order.
func (ds *DataSet) SortedTags() []DataElementTag {
	tags := make([]DataElementTag, 0, len(ds.Elements))
	for tag := range ds.Elements {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// SortedElements returns the DataElements in the DataSet in ascending tag
// order, which is the order DICOM requires on the wire.
func (ds *DataSet) SortedElements() []*DataElement {
	elements := make([]*DataElement, 0, len(ds.Elements))
	for _, tag := range ds.SortedTags() {
		elements = append(elements, ds.Elements[tag])
	}
	return elements
}

// GetElement returns the element with the given tag, or false if absent.
func (ds *DataSet) GetElement(tag DataElementTag) (*DataElement, bool) {
	elem, ok := ds.Elements[tag]
	return elem, ok
}

// GetElementByName returns the element whose tag has the given keyword in the
// data dictionary, such as "PatientName".
func (ds *DataSet) GetElementByName(name string) (*DataElement, error) {
	entry, ok := dictionary.LookupByName(name)
	if !ok {
		return nil, fmt.Errorf("no dictionary entry named %q", name)
	}
	elem, ok := ds.Elements[DataElementTag(entry.Tag)]
	if !ok {
		return nil, fmt.Errorf("data set has no %s element", name)
	}
	return elem, nil
}

// Put inserts the element into the DataSet, replacing any element with the
// same tag. A nil VR is filled in from the data dictionary. The value is
// checked against the VR's kind, as it would be on encode.
func (ds *DataSet) Put(element *DataElement) error {
	if element.VR == nil {
		element.VR = element.Tag.DictionaryVR()
	}
	if err := checkValueKind(element.Tag, element.VR, element.ValueField); err != nil {
		return err
	}
	if ds.Elements == nil {
		ds.Elements = map[DataElementTag]*DataElement{}
	}
	ds.Elements[element.Tag] = element
	return nil
}

// Remove deletes the element with the given tag. Removing an absent tag is a
// no-op.
func (ds *DataSet) Remove(tag DataElementTag) {
	delete(ds.Elements, tag)
}

func (ds *DataSet) String() string {
	return ds.string(0)
}

func (ds *DataSet) string(indentLvl int) string {
	lines := make([]string, 0, len(ds.Elements))
	for _, elem := range ds.SortedElements() {
		lines = append(lines, elem.string(indentLvl))
	}
	return strings.Join(lines, "\n")
}

// MetaElements returns a new DataSet holding only the file meta elements
// (group 0002) of this DataSet.
func (ds *DataSet) MetaElements() *DataSet {
	meta := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for tag, elem := range ds.Elements {
		if tag.IsMetaElement() {
			meta.Elements[tag] = elem
		}
	}
	return meta
}

// isMetaHeader reports whether every element in the DataSet belongs to the
// file meta group.
func (ds *DataSet) isMetaHeader() bool {
	for tag := range ds.Elements {
		if !tag.IsMetaElement() {
			return false
		}
	}
	return true
}

// transferSyntax resolves the transfer syntax announced by the data set's own
// TransferSyntaxUID element.
func (ds *DataSet) transferSyntax() (TransferSyntax, error) {
	elem, ok := ds.Elements[TransferSyntaxUIDTag]
	if !ok {
		return TransferSyntax{}, fmt.Errorf("data set has no TransferSyntaxUID element")
	}
	uid, ok := elem.StringValue()
	if !ok {
		return TransferSyntax{}, fmt.Errorf("expected single string value for TransferSyntaxUID, got %v", elem.ValueField)
	}
	syntax, err := LookupTransferSyntax(uid)
	if err != nil {
		return TransferSyntax{}, err
	}
	return syntax, nil
}
