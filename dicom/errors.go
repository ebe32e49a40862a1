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
	"strings"
)

// CorruptDicomError indicates a malformed byte stream: truncated data, an
// invalid length for a VR category, a missing delimiter. It is fatal to the
// decode and carries the byte offset at which the problem was detected when
// known.
type CorruptDicomError struct {
	// Offset is the byte offset into the stream where the failure was
	// detected, or -1 when unknown.
	Offset int64

	// Tag is the data element being decoded when the failure occurred, or 0
	// when no tag had been read yet.
	Tag DataElementTag

	Message string
}

func (e *CorruptDicomError) Error() string {
	var b strings.Builder
	b.WriteString("dicom: ")
	b.WriteString(e.Message)
	if e.Tag != 0 {
		fmt.Fprintf(&b, " (tag %s)", e.Tag)
	}
	if e.Offset > 0 {
		fmt.Fprintf(&b, " (offset 0x%X)", e.Offset)
	}
	return b.String()
}

func corruptDicom(offset int64, tag DataElementTag, format string, a ...interface{}) *CorruptDicomError {
	return &CorruptDicomError{Offset: offset, Tag: tag, Message: fmt.Sprintf(format, a...)}
}

// UnsupportedTransferSyntaxError indicates that a data set announces a
// transfer syntax the registry does not know. The file meta elements already
// read remain accessible; the main data set cannot be decoded.
type UnsupportedTransferSyntaxError struct {
	UID string
}

func (e *UnsupportedTransferSyntaxError) Error() string {
	return fmt.Sprintf("dicom: unsupported transfer syntax %q", e.UID)
}

// VRMismatchError indicates that a DataElement's ValueField holds a value
// kind that its VR does not permit. It is raised on encode and is
// caller-correctable.
type VRMismatchError struct {
	Tag DataElementTag
	VR  *VR

	// Got is the Go type of the offending ValueField.
	Got string
}

func (e *VRMismatchError) Error() string {
	return fmt.Sprintf("dicom: value of type %s is not valid for VR %s (tag %s)", e.Got, e.VR, e.Tag)
}

// MissingMetaElementError indicates that the file meta group lacks one of the
// elements required before the main data set can be trusted.
type MissingMetaElementError struct {
	Missing []string
}

func (e *MissingMetaElementError) Error() string {
	return "dicom: file meta group is missing required elements: " + strings.Join(e.Missing, ", ")
}

// NoCodecError indicates that pixel data is stored in an encapsulated
// (compressed) format and no codec has been registered for its transfer
// syntax.
type NoCodecError struct {
	UID string
}

func (e *NoCodecError) Error() string {
	return fmt.Sprintf("dicom: no pixel codec registered for transfer syntax %q", e.UID)
}
