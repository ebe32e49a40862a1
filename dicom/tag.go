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

	"github.com/medimage/go-dicom-engine/dictionary"
)

// DataElementTag is a unique identifier for a Data Element composed of an
// ordered pair of numbers called the group number and the element number as
// specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10.
//
// The least significant 16 bits is the element number. The most significant
// 16 bits is the group number.
type DataElementTag uint32

// Well-known tags used by the engine itself.
const (
	FileMetaInformationGroupLengthTag DataElementTag = 0x00020000
	FileMetaInformationVersionTag     DataElementTag = 0x00020001
	MediaStorageSOPClassUIDTag        DataElementTag = 0x00020002
	MediaStorageSOPInstanceUIDTag     DataElementTag = 0x00020003
	TransferSyntaxUIDTag              DataElementTag = 0x00020010
	ImplementationClassUIDTag         DataElementTag = 0x00020012
	ImplementationVersionNameTag      DataElementTag = 0x00020013

	SpecificCharacterSetTag DataElementTag = 0x00080005
	SOPClassUIDTag          DataElementTag = 0x00080016
	SOPInstanceUIDTag       DataElementTag = 0x00080018
	ModalityTag             DataElementTag = 0x00080060

	ReferencedStudySequenceTag  DataElementTag = 0x00081110
	ReferencedImageSequenceTag  DataElementTag = 0x00081140
	ReferencedSOPClassUIDTag    DataElementTag = 0x00081150
	ReferencedSOPInstanceUIDTag DataElementTag = 0x00081155

	RowsTag    DataElementTag = 0x00280010
	ColumnsTag DataElementTag = 0x00280011

	// Bulk data tags, stored with wildcard digits zeroed. See
	// DefaultBulkDataDefinition for how the wildcards are matched.
	PixelDataProviderURLTag DataElementTag = 0x00287FE0
	AudioSampleDataTag      DataElementTag = 0x5000200C
	CurveDataTag            DataElementTag = 0x50003000
	SpectroscopyDataTag     DataElementTag = 0x56000020
	WaveformDataTag         DataElementTag = 0x54001010
	OverlayDataTag          DataElementTag = 0x60003000
	EncapsulatedDocumentTag DataElementTag = 0x00420011
	FloatPixelDataTag       DataElementTag = 0x7FE00008
	DoubleFloatPixelDataTag DataElementTag = 0x7FE00009
	PixelDataTag            DataElementTag = 0x7FE00010

	// Item and delimitation tags (PS3.5 table 7.5-3)
	ItemTag                     DataElementTag = 0xFFFEE000
	ItemDelimitationItemTag     DataElementTag = 0xFFFEE00D
	SequenceDelimitationItemTag DataElementTag = 0xFFFEE0DD
)

// GroupNumber returns the group number component of the DataElementTag.
func (t DataElementTag) GroupNumber() uint16 {
	return uint16(t >> 16)
}

// ElementNumber returns the element number component of the DataElementTag.
func (t DataElementTag) ElementNumber() uint16 {
	return uint16(t & 0xFFFF)
}

// IsMetaElement is true if and only if the Data Element is a file meta
// element (group 0002).
func (t DataElementTag) IsMetaElement() bool {
	return t.GroupNumber() == 0x0002
}

// IsPrivate reports whether the tag belongs to a private group.
func (t DataElementTag) IsPrivate() bool {
	return t.dictionaryTag().IsPrivate()
}

// IsPrivateCreator reports whether the tag is a private-creator element, the
// element that names the private block namespace for its group.
func (t DataElementTag) IsPrivateCreator() bool {
	return t.dictionaryTag().IsPrivateCreator()
}

// DictionaryVR returns the VR that the data dictionary prescribes for this
// tag. Tags absent from the dictionary, and tags with no prescribed VR,
// return UNVR.
func (t DataElementTag) DictionaryVR() *VR {
	entry := dictionary.Get(t.dictionaryTag())
	vr, err := lookupVRByName(entry.VR)
	if err != nil {
		return UNVR
	}
	return vr
}

// Keyword returns the data dictionary keyword for this tag, or a synthetic
// "Unknown(gggg,eeee)" name for unregistered tags.
func (t DataElementTag) Keyword() string {
	return dictionary.Get(t.dictionaryTag()).Name
}

func (t DataElementTag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.GroupNumber(), t.ElementNumber())
}

func (t DataElementTag) dictionaryTag() dictionary.Tag {
	return dictionary.Tag(t)
}
