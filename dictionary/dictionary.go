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

// Package dictionary implements the DICOM data dictionary: the mapping from a
// numeric (group,element) tag to its keyword, expected Value Representation and
// value multiplicity, as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html.
//
// Public tags resolve against the standard table. Private tags resolve only
// through a PrivateContext, which records the private-creator strings found in
// a single data set; the same block number can belong to different creators in
// different data sets, so this state is never global.
package dictionary

import (
	"fmt"
	"sync"
)

// Tag is a (group,element) pair packed into a uint32 with the group in the
// most significant 16 bits.
type Tag uint32

// NewTag packs a group and element number into a Tag.
func NewTag(group, element uint16) Tag {
	return Tag(uint32(group)<<16 | uint32(element))
}

// Group returns the group number component of the Tag.
func (t Tag) Group() uint16 {
	return uint16(t >> 16)
}

// Element returns the element number component of the Tag.
func (t Tag) Element() uint16 {
	return uint16(t & 0xFFFF)
}

func (t Tag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group(), t.Element())
}

// IsPrivate reports whether the tag belongs to a private (odd, non-reserved)
// group.
func (t Tag) IsPrivate() bool {
	g := t.Group()
	return g%2 == 1 && g > 0x0008
}

// IsPrivateCreator reports whether the tag is a private-creator element, i.e.
// an element in the range (gggg,0010)-(gggg,00FF) of a private group. These
// elements carry the string that names the block (gggg,xx00)-(gggg,xxFF)
// where xx is the creator element number.
func (t Tag) IsPrivateCreator() bool {
	e := t.Element()
	return t.IsPrivate() && e >= 0x0010 && e <= 0x00FF
}

// Entry describes one data dictionary record.
type Entry struct {
	Tag Tag

	// Name is the DICOM keyword, e.g. "PatientName".
	Name string

	// VR is the two-letter Value Representation code the tag normally
	// carries. Empty when the standard does not prescribe one.
	VR string

	// VM is the value multiplicity, e.g. "1", "1-n", "2-2n".
	VM string

	Retired bool
}

// tagMasks covers the repeating-group wildcards in the standard dictionary
// (e.g. the Curve Data tag (50xx,3000) is stored with the x digits zeroed).
// 0xFFFFFFFF is first so exact matches win.
var tagMasks = []uint32{0xFFFFFFFF, 0xFFFFFF00, 0xFF00FFFF, 0xFFFF000F}

var byName map[string]*Entry

func init() {
	byName = make(map[string]*Entry, len(standardDictionary))
	for _, e := range standardDictionary {
		byName[e.Name] = e
	}
}

// Lookup resolves a public tag against the standard dictionary. Group-length
// elements (gggg,0000) resolve to a synthetic GroupLength entry. The second
// return is false on a miss; a miss is not an error, callers fall back to
// VR UN.
func Lookup(t Tag) (*Entry, bool) {
	if t.Element() == 0x0000 {
		return &Entry{Tag: t, Name: "GroupLength", VR: "UL", VM: "1"}, true
	}
	if t.IsPrivateCreator() {
		return &Entry{Tag: t, Name: "PrivateCreator", VR: "LO", VM: "1"}, true
	}
	for _, m := range tagMasks {
		if e, ok := standardDictionary[Tag(uint32(t)&m)]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupByName resolves a dictionary keyword (e.g. "Modality") to its entry.
func LookupByName(name string) (*Entry, bool) {
	e, ok := byName[name]
	return e, ok
}

// Get resolves a public tag, synthesizing an unknown entry on a miss so that
// callers always have a printable name and a usable VR.
func Get(t Tag) *Entry {
	if e, ok := Lookup(t); ok {
		return e
	}
	return &Entry{Tag: t, Name: "Unknown" + t.String(), VR: "UN", VM: "1"}
}

/*
===============================================================================
    Private dictionary
===============================================================================
*/

// privateKey identifies a private element independent of the block it was
// assigned to: group in the high 16 bits, low byte of the element number in
// the low 8 bits.
type privateKey struct {
	group   uint16
	element uint8
}

var (
	privateMu         sync.RWMutex
	privateDictionary = map[string]map[privateKey]*Entry{}
)

// RegisterPrivate adds a dictionary entry for a private tag scoped by its
// creator string. Only the low byte of the entry's element number is
// significant; the block assignment varies per data set. Registration is
// expected to happen before decoding begins.
func RegisterPrivate(creator string, e Entry) {
	privateMu.Lock()
	defer privateMu.Unlock()
	m, ok := privateDictionary[creator]
	if !ok {
		m = map[privateKey]*Entry{}
		privateDictionary[creator] = m
	}
	entry := e
	m[privateKey{e.Tag.Group(), uint8(e.Tag.Element())}] = &entry
}

// LookupPrivate resolves a private tag under the given creator string.
func LookupPrivate(creator string, t Tag) (*Entry, bool) {
	privateMu.RLock()
	defer privateMu.RUnlock()
	m, ok := privateDictionary[creator]
	if !ok {
		return nil, false
	}
	e, ok := m[privateKey{t.Group(), uint8(t.Element())}]
	return e, ok
}

/*
===============================================================================
    Per-data-set private creator context
===============================================================================
*/

// PrivateContext tracks which creator string owns each private block of a
// single data set. It is scoped to one decode in progress and must not be
// shared across data sets.
type PrivateContext struct {
	// keyed by group<<16 | block, where block is the creator element number
	// (0x10..0xFF)
	creators map[uint32]string
}

// NewPrivateContext returns an empty creator context.
func NewPrivateContext() *PrivateContext {
	return &PrivateContext{creators: map[uint32]string{}}
}

// RecordCreator notes that the private-creator element t carries the given
// creator string. Non-creator tags are ignored.
func (c *PrivateContext) RecordCreator(t Tag, creator string) {
	if c == nil || !t.IsPrivateCreator() {
		return
	}
	c.creators[uint32(t.Group())<<16|uint32(t.Element())] = creator
}

// CreatorFor returns the creator string governing the block that t belongs
// to, if one has been recorded.
func (c *PrivateContext) CreatorFor(t Tag) (string, bool) {
	if c == nil {
		return "", false
	}
	block := uint32(t.Element() >> 8)
	creator, ok := c.creators[uint32(t.Group())<<16|block]
	return creator, ok
}

// Lookup resolves t using the context: private tags go through the recorded
// creator and the private dictionary, anything else through the standard
// table. The second return is false when no entry is known; callers fall back
// to VR UN.
func (c *PrivateContext) Lookup(t Tag) (*Entry, bool) {
	if t.IsPrivate() && !t.IsPrivateCreator() {
		creator, ok := c.CreatorFor(t)
		if !ok {
			return nil, false
		}
		return LookupPrivate(creator, t)
	}
	return Lookup(t)
}
