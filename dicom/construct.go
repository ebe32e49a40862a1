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

// Construct writes the given *DataSet as a DICOM file to the given io.Writer.
// The desired output transfer syntax is specified as a required
// TransferSyntaxUID DataElement (0002,0010). By default, there is no
// validation against the DICOM standard of any form.
//
// If a *DataElement in the *DataSet is missing its VR it will be filled in
// from the data dictionary. The ValueLength of DataElements is ignored and
// re-calculated, except for the UndefinedLength sentinel which is preserved
// and selects delimited encoding for sequences and encapsulated pixel data.
// The options are applied to each element in the order given.
func Construct(w io.Writer, dataSet *DataSet, opts ...ConstructOption) error {
	dw := &dcmWriter{w}

	if err := writeDicomSignature(dw); err != nil {
		return err
	}

	syntax, err := dataSet.transferSyntax()
	if err != nil {
		return fmt.Errorf("getting transfer syntax from data set: %v", err)
	}

	processed, err := processItemForConstruct(dataSet, syntax, opts...)
	if err != nil {
		return fmt.Errorf("processing data set: %v", err)
	}

	// The FileMetaInformationGroupLength element stores how long the meta
	// header is, so it is re-calculated from the processed elements.
	metaGroupLengthElement, err := createMetaGroupLengthElement(processed.MetaElements())
	if err != nil {
		return fmt.Errorf("creating meta group length element: %v", err)
	}
	processed.Elements[FileMetaInformationGroupLengthTag] = metaGroupLengthElement

	// File meta elements are always in explicit VR little endian as specified
	// in http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
	for _, tag := range processed.SortedTags() {
		if !tag.IsMetaElement() {
			break
		}
		if err := writeDataElement(dw, explicitVRLittleEndian, processed.Elements[tag]); err != nil {
			return fmt.Errorf("writing meta element: %v", err)
		}
	}

	bodyWriter := dw
	var deflateWriter *flate.Writer
	if syntax.Deflated {
		deflateWriter, err = flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return fmt.Errorf("creating deflate writer: %v", err)
		}
		bodyWriter = &dcmWriter{deflateWriter}
	}

	for _, tag := range processed.SortedTags() {
		if tag.IsMetaElement() {
			continue
		}
		if err := writeDataElement(bodyWriter, syntax, processed.Elements[tag]); err != nil {
			return fmt.Errorf("writing data element: %v", err)
		}
	}

	if deflateWriter != nil {
		if err := deflateWriter.Close(); err != nil {
			return fmt.Errorf("flushing deflate writer: %v", err)
		}
	}

	return nil
}
