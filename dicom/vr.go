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

// vrType groups VRs that share a parsing rule.
type vrType int

const (
	// textVR is for value fields that are interpreted as backslash-delimited
	// text with space padding
	textVR vrType = iota

	// numberBinaryVR is for value fields that are parsed as binary numbers
	numberBinaryVR

	// bulkDataVR groups sequences of binary numbers and opaque byte streams
	bulkDataVR

	// uniqueIdentifierVR is for VR: UI. It has null padding
	uniqueIdentifierVR

	// sequenceVR is for VR: SQ
	sequenceVR

	// tagVR is for attribute tags. Distinct from numberBinaryVR because each
	// value is a (group,element) pair of 16-bit words
	tagVR
)

// UndefinedLength is the sentinel length value meaning "read until
// delimiter", as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength uint32 = 0xFFFFFFFF

const (
	spacePadding = byte(0x20)
	nullPadding  = byte(0x00)
)

// VR models a DICOM Value Representation as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
type VR struct {
	// Name is the 2-character VR code
	Name string

	kind vrType

	// largeLength is true for VRs whose explicit-VR header carries a 2-byte
	// reserved field followed by a 32-bit length instead of a 16-bit length
	// (PS3.5 section 7.1.2)
	largeLength bool

	// wordSize is the byte-swap unit for byte-order conversion: the width in
	// bytes of one binary value, or 1 for text and opaque byte VRs
	wordSize int

	// padding is the byte appended to odd-length values
	padding byte
}

// AllowsUndefinedLength reports whether the VR may legally carry the
// undefined-length sentinel. Only sequences qualify at the VR level; pixel
// data additionally qualifies under an encapsulated transfer syntax, which
// the decoder checks against the tag.
func (vr *VR) AllowsUndefinedLength() bool {
	return vr.kind == sequenceVR || vr == OBVR || vr == OWVR || vr == UNVR
}

// WordSize returns the byte-swap granularity of the VR.
func (vr *VR) WordSize() int {
	return vr.wordSize
}

func (vr *VR) String() string {
	return vr.Name
}

var vrLookupMap = map[string]*VR{}

func newVR(name string, kind vrType, largeLength bool, wordSize int, padding byte) *VR {
	vr := &VR{name, kind, largeLength, wordSize, padding}
	vrLookupMap[vr.Name] = vr
	return vr
}

func lookupVRByName(name string) (*VR, error) {
	r, ok := vrLookupMap[name]
	if !ok {
		return nil, &CorruptDicomError{Message: "unknown vr name: " + name}
	}
	return r, nil
}

// VR list obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	// textual VRs
	CSVR = newVR("CS", textVR, false, 1, spacePadding)
	SHVR = newVR("SH", textVR, false, 1, spacePadding)
	LOVR = newVR("LO", textVR, false, 1, spacePadding)
	STVR = newVR("ST", textVR, false, 1, spacePadding)
	LTVR = newVR("LT", textVR, false, 1, spacePadding)
	ASVR = newVR("AS", textVR, false, 1, spacePadding)

	// person name
	PNVR = newVR("PN", textVR, false, 1, spacePadding)

	// application entity
	AEVR = newVR("AE", textVR, false, 1, spacePadding)

	// dates/time
	DAVR = newVR("DA", textVR, false, 1, spacePadding)
	TMVR = newVR("TM", textVR, false, 1, spacePadding)
	DTVR = newVR("DT", textVR, false, 1, spacePadding)

	// textual numbers
	ISVR = newVR("IS", textVR, false, 1, spacePadding)
	DSVR = newVR("DS", textVR, false, 1, spacePadding)

	// binary numbers
	SSVR = newVR("SS", numberBinaryVR, false, 2, nullPadding)
	USVR = newVR("US", numberBinaryVR, false, 2, nullPadding)
	SLVR = newVR("SL", numberBinaryVR, false, 4, nullPadding)
	ULVR = newVR("UL", numberBinaryVR, false, 4, nullPadding)
	FLVR = newVR("FL", numberBinaryVR, false, 4, nullPadding)
	FDVR = newVR("FD", numberBinaryVR, false, 8, nullPadding)

	// large binary sequences
	OBVR = newVR("OB", bulkDataVR, true, 1, nullPadding)
	ODVR = newVR("OD", bulkDataVR, true, 8, nullPadding)
	OLVR = newVR("OL", bulkDataVR, true, 4, nullPadding)
	OWVR = newVR("OW", bulkDataVR, true, 2, nullPadding)
	OFVR = newVR("OF", bulkDataVR, true, 4, nullPadding)

	// unlimited char
	UCVR = newVR("UC", bulkDataVR, true, 1, spacePadding)

	// unknown
	UNVR = newVR("UN", bulkDataVR, true, 1, nullPadding)

	// URL
	URVR = newVR("UR", bulkDataVR, true, 1, spacePadding)

	// unlimited text
	UTVR = newVR("UT", bulkDataVR, true, 1, spacePadding)

	// attribute tag
	ATVR = newVR("AT", tagVR, false, 2, nullPadding)

	// unique identifier
	UIVR = newVR("UI", uniqueIdentifierVR, false, 1, nullPadding)

	// sequence
	SQVR = newVR("SQ", sequenceVR, true, 1, nullPadding)
)
