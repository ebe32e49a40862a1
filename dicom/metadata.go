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
	"golang.org/x/text/encoding"

	"github.com/medimage/go-dicom-engine/dictionary"
)

// dicomMetaData carries the per-decode state threaded through the element
// reader: the resolved transfer syntax, the character repertoire announced by
// Specific Character Set (0008,0005), and the private-creator namespace
// recorded so far. One instance is shared by the iterator and all nested
// sequence items of a single decode; it is never shared between objects.
type dicomMetaData struct {
	syntax   TransferSyntax
	encoding encoding.Encoding
	private  *dictionary.PrivateContext
}

func newMetaData(syntax TransferSyntax) *dicomMetaData {
	return &dicomMetaData{
		syntax:   syntax,
		encoding: defaultCharacterRepertoire,
		private:  dictionary.NewPrivateContext(),
	}
}
