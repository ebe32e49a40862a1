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

package dictionary

// UIDEntry describes a registered DICOM unique identifier (PS3.6 annex A).
type UIDEntry struct {
	UID  string
	Name string

	// Type is the UID registry category, e.g. "Transfer Syntax",
	// "SOP Class".
	Type string
}

var uidDictionary = map[string]*UIDEntry{
	"1.2.840.10008.1.2":        {"1.2.840.10008.1.2", "Implicit VR Little Endian", "Transfer Syntax"},
	"1.2.840.10008.1.2.1":      {"1.2.840.10008.1.2.1", "Explicit VR Little Endian", "Transfer Syntax"},
	"1.2.840.10008.1.2.1.99":   {"1.2.840.10008.1.2.1.99", "Deflated Explicit VR Little Endian", "Transfer Syntax"},
	"1.2.840.10008.1.2.2":      {"1.2.840.10008.1.2.2", "Explicit VR Big Endian (Retired)", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.50":   {"1.2.840.10008.1.2.4.50", "JPEG Baseline (Process 1)", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.51":   {"1.2.840.10008.1.2.4.51", "JPEG Extended (Process 2 & 4)", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.57":   {"1.2.840.10008.1.2.4.57", "JPEG Lossless, Non-Hierarchical (Process 14)", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.70":   {"1.2.840.10008.1.2.4.70", "JPEG Lossless, Non-Hierarchical, First-Order Prediction", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.80":   {"1.2.840.10008.1.2.4.80", "JPEG-LS Lossless", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.81":   {"1.2.840.10008.1.2.4.81", "JPEG-LS Lossy (Near-Lossless)", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.90":   {"1.2.840.10008.1.2.4.90", "JPEG 2000 Image Compression (Lossless Only)", "Transfer Syntax"},
	"1.2.840.10008.1.2.4.91":   {"1.2.840.10008.1.2.4.91", "JPEG 2000 Image Compression", "Transfer Syntax"},
	"1.2.840.10008.1.2.5":      {"1.2.840.10008.1.2.5", "RLE Lossless", "Transfer Syntax"},
	"1.2.840.10008.5.1.4.1.1.1":   {"1.2.840.10008.5.1.4.1.1.1", "Computed Radiography Image Storage", "SOP Class"},
	"1.2.840.10008.5.1.4.1.1.2":   {"1.2.840.10008.5.1.4.1.1.2", "CT Image Storage", "SOP Class"},
	"1.2.840.10008.5.1.4.1.1.4":   {"1.2.840.10008.5.1.4.1.1.4", "MR Image Storage", "SOP Class"},
	"1.2.840.10008.5.1.4.1.1.6.1": {"1.2.840.10008.5.1.4.1.1.6.1", "Ultrasound Image Storage", "SOP Class"},
	"1.2.840.10008.5.1.4.1.1.7":   {"1.2.840.10008.5.1.4.1.1.7", "Secondary Capture Image Storage", "SOP Class"},
	"1.2.840.10008.5.1.4.1.1.128": {"1.2.840.10008.5.1.4.1.1.128", "Positron Emission Tomography Image Storage", "SOP Class"},
}

// LookupUID resolves a UID string against the registry subset known to the
// engine. The second return is false on a miss.
func LookupUID(uid string) (*UIDEntry, bool) {
	e, ok := uidDictionary[uid]
	return e, ok
}

// UIDName returns a human-readable name for the UID, or the empty string when
// unregistered.
func UIDName(uid string) string {
	if e, ok := uidDictionary[uid]; ok {
		return e.Name
	}
	return ""
}
