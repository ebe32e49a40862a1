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
	"bytes"
	"fmt"
	"sync"
)

// Codec decodes encapsulated pixel data into its native form. fragments holds
// the encapsulated items in stored order, including any basic offset table
// that was not dropped at parse time. ds is the enclosing data set, for
// codecs that need Rows, Columns or photometric attributes.
type Codec func(ds *DataSet, fragments [][]byte) ([]byte, error)

var (
	codecMu       sync.RWMutex
	codecRegistry = map[string]Codec{}
)

// RegisterCodec associates a pixel data codec with a transfer syntax UID.
// Registering under an already registered UID replaces the previous codec.
func RegisterCodec(uid string, codec Codec) {
	codecMu.Lock()
	defer codecMu.Unlock()
	codecRegistry[uid] = codec
}

func lookupCodec(uid string) (Codec, bool) {
	codecMu.RLock()
	defer codecMu.RUnlock()
	codec, ok := codecRegistry[uid]
	return codec, ok
}

// PixelData returns the native pixel data of the data set. For uncompressed
// transfer syntaxes the stored bytes are returned directly. For encapsulated
// syntaxes the fragments are handed to the codec registered for the data
// set's transfer syntax UID; if none is registered a *NoCodecError is
// returned.
func (ds *DataSet) PixelData() ([]byte, error) {
	elem, ok := ds.Elements[PixelDataTag]
	if !ok {
		return nil, fmt.Errorf("data set has no PixelData element")
	}

	buffer, ok := elem.ValueField.(BulkDataBuffer)
	if !ok {
		return nil, fmt.Errorf("pixel data is not buffered, got %T", elem.ValueField)
	}

	syntax, err := ds.transferSyntax()
	if err != nil {
		return nil, fmt.Errorf("resolving transfer syntax of data set: %v", err)
	}

	if !syntax.Encapsulated {
		return bytes.Join(buffer.Data(), nil), nil
	}

	codec, ok := lookupCodec(syntax.UID)
	if !ok {
		return nil, &NoCodecError{UID: syntax.UID}
	}
	return codec(ds, buffer.Data())
}
