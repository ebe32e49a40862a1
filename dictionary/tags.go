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

// standardDictionary is the subset of the DICOM data dictionary (PS3.6
// chapter 6 plus the group 0002 file meta registry from PS3.10) that the
// engine resolves without a registered private creator. Repeating-group tags
// are stored with their wildcard digits zeroed, see tagMasks.
var standardDictionary = map[Tag]*Entry{
	// File meta group (PS3.10 table 7.1-1)
	0x00020000: {0x00020000, "FileMetaInformationGroupLength", "UL", "1", false},
	0x00020001: {0x00020001, "FileMetaInformationVersion", "OB", "1", false},
	0x00020002: {0x00020002, "MediaStorageSOPClassUID", "UI", "1", false},
	0x00020003: {0x00020003, "MediaStorageSOPInstanceUID", "UI", "1", false},
	0x00020010: {0x00020010, "TransferSyntaxUID", "UI", "1", false},
	0x00020012: {0x00020012, "ImplementationClassUID", "UI", "1", false},
	0x00020013: {0x00020013, "ImplementationVersionName", "SH", "1", false},
	0x00020016: {0x00020016, "SourceApplicationEntityTitle", "AE", "1", false},
	0x00020100: {0x00020100, "PrivateInformationCreatorUID", "UI", "1", false},
	0x00020102: {0x00020102, "PrivateInformation", "OB", "1", false},

	// Group 0008
	0x00080005: {0x00080005, "SpecificCharacterSet", "CS", "1-n", false},
	0x00080008: {0x00080008, "ImageType", "CS", "2-n", false},
	0x00080016: {0x00080016, "SOPClassUID", "UI", "1", false},
	0x00080018: {0x00080018, "SOPInstanceUID", "UI", "1", false},
	0x00080020: {0x00080020, "StudyDate", "DA", "1", false},
	0x00080021: {0x00080021, "SeriesDate", "DA", "1", false},
	0x00080022: {0x00080022, "AcquisitionDate", "DA", "1", false},
	0x00080023: {0x00080023, "ContentDate", "DA", "1", false},
	0x0008002A: {0x0008002A, "AcquisitionDateTime", "DT", "1", false},
	0x00080030: {0x00080030, "StudyTime", "TM", "1", false},
	0x00080031: {0x00080031, "SeriesTime", "TM", "1", false},
	0x00080032: {0x00080032, "AcquisitionTime", "TM", "1", false},
	0x00080033: {0x00080033, "ContentTime", "TM", "1", false},
	0x00080050: {0x00080050, "AccessionNumber", "SH", "1", false},
	0x00080060: {0x00080060, "Modality", "CS", "1", false},
	0x00080064: {0x00080064, "ConversionType", "CS", "1", false},
	0x00080070: {0x00080070, "Manufacturer", "LO", "1", false},
	0x00080080: {0x00080080, "InstitutionName", "LO", "1", false},
	0x00080090: {0x00080090, "ReferringPhysicianName", "PN", "1", false},
	0x00081010: {0x00081010, "StationName", "SH", "1", false},
	0x00081030: {0x00081030, "StudyDescription", "LO", "1", false},
	0x0008103E: {0x0008103E, "SeriesDescription", "LO", "1", false},
	0x00081070: {0x00081070, "OperatorsName", "PN", "1-n", false},
	0x00081090: {0x00081090, "ManufacturerModelName", "LO", "1", false},
	0x00081110: {0x00081110, "ReferencedStudySequence", "SQ", "1", false},
	0x00081140: {0x00081140, "ReferencedImageSequence", "SQ", "1", false},
	0x00081150: {0x00081150, "ReferencedSOPClassUID", "UI", "1", false},
	0x00081155: {0x00081155, "ReferencedSOPInstanceUID", "UI", "1", false},
	0x00081160: {0x00081160, "ReferencedFrameNumber", "IS", "1-n", false},
	0x00082218: {0x00082218, "AnatomicRegionSequence", "SQ", "1", false},
	0x00089121: {0x00089121, "ReferencedRawDataSequence", "SQ", "1", false},
	0x00089215: {0x00089215, "DerivationCodeSequence", "SQ", "1", false},

	// Group 0010
	0x00100010: {0x00100010, "PatientName", "PN", "1", false},
	0x00100020: {0x00100020, "PatientID", "LO", "1", false},
	0x00100030: {0x00100030, "PatientBirthDate", "DA", "1", false},
	0x00100040: {0x00100040, "PatientSex", "CS", "1", false},
	0x00101010: {0x00101010, "PatientAge", "AS", "1", false},
	0x00101020: {0x00101020, "PatientSize", "DS", "1", false},
	0x00101030: {0x00101030, "PatientWeight", "DS", "1", false},
	0x00104000: {0x00104000, "PatientComments", "LT", "1", false},

	// Group 0018
	0x00180015: {0x00180015, "BodyPartExamined", "CS", "1", false},
	0x00180020: {0x00180020, "ScanningSequence", "CS", "1-n", false},
	0x00180050: {0x00180050, "SliceThickness", "DS", "1", false},
	0x00180060: {0x00180060, "KVP", "DS", "1", false},
	0x00180088: {0x00180088, "SpacingBetweenSlices", "DS", "1", false},
	0x00181020: {0x00181020, "SoftwareVersions", "LO", "1-n", false},
	0x00181030: {0x00181030, "ProtocolName", "LO", "1", false},
	0x00181050: {0x00181050, "SpatialResolution", "DS", "1", false},
	0x00181151: {0x00181151, "XRayTubeCurrent", "IS", "1", false},
	0x00181152: {0x00181152, "Exposure", "IS", "1", false},
	0x00185100: {0x00185100, "PatientPosition", "CS", "1", false},

	// Group 0020
	0x0020000D: {0x0020000D, "StudyInstanceUID", "UI", "1", false},
	0x0020000E: {0x0020000E, "SeriesInstanceUID", "UI", "1", false},
	0x00200010: {0x00200010, "StudyID", "SH", "1", false},
	0x00200011: {0x00200011, "SeriesNumber", "IS", "1", false},
	0x00200012: {0x00200012, "AcquisitionNumber", "IS", "1", false},
	0x00200013: {0x00200013, "InstanceNumber", "IS", "1", false},
	0x00200032: {0x00200032, "ImagePositionPatient", "DS", "3", false},
	0x00200037: {0x00200037, "ImageOrientationPatient", "DS", "6", false},
	0x00200052: {0x00200052, "FrameOfReferenceUID", "UI", "1", false},
	0x00201041: {0x00201041, "SliceLocation", "DS", "1", false},
	0x00204000: {0x00204000, "ImageComments", "LT", "1", false},

	// Group 0028
	0x00280002: {0x00280002, "SamplesPerPixel", "US", "1", false},
	0x00280004: {0x00280004, "PhotometricInterpretation", "CS", "1", false},
	0x00280006: {0x00280006, "PlanarConfiguration", "US", "1", false},
	0x00280008: {0x00280008, "NumberOfFrames", "IS", "1", false},
	0x00280009: {0x00280009, "FrameIncrementPointer", "AT", "1-n", false},
	0x00280010: {0x00280010, "Rows", "US", "1", false},
	0x00280011: {0x00280011, "Columns", "US", "1", false},
	0x00280030: {0x00280030, "PixelSpacing", "DS", "2", false},
	0x00280100: {0x00280100, "BitsAllocated", "US", "1", false},
	0x00280101: {0x00280101, "BitsStored", "US", "1", false},
	0x00280102: {0x00280102, "HighBit", "US", "1", false},
	0x00280103: {0x00280103, "PixelRepresentation", "US", "1", false},
	0x00281050: {0x00281050, "WindowCenter", "DS", "1-n", false},
	0x00281051: {0x00281051, "WindowWidth", "DS", "1-n", false},
	0x00281052: {0x00281052, "RescaleIntercept", "DS", "1", false},
	0x00281053: {0x00281053, "RescaleSlope", "DS", "1", false},
	0x00282110: {0x00282110, "LossyImageCompression", "CS", "1", false},

	// Group 0032/0040
	0x0032000A: {0x0032000A, "StudyStatusID", "CS", "1", true},
	0x00400244: {0x00400244, "PerformedProcedureStepStartDate", "DA", "1", false},
	0x00400245: {0x00400245, "PerformedProcedureStepStartTime", "TM", "1", false},
	0x00400254: {0x00400254, "PerformedProcedureStepDescription", "LO", "1", false},
	0x00400275: {0x00400275, "RequestAttributesSequence", "SQ", "1", false},
	0x0040A040: {0x0040A040, "ValueType", "CS", "1", false},
	0x0040A730: {0x0040A730, "ContentSequence", "SQ", "1", false},

	// Functional group sequences
	0x52009229: {0x52009229, "SharedFunctionalGroupsSequence", "SQ", "1", false},
	0x52009230: {0x52009230, "PerFrameFunctionalGroupsSequence", "SQ", "1", false},

	// Repeating groups (wildcard digits zeroed; matched via tagMasks)
	0x50003000: {0x50003000, "CurveData", "OB", "1", true},
	0x54000100: {0x54000100, "WaveformSequence", "SQ", "1", false},
	0x54001010: {0x54001010, "WaveformData", "OW", "1", false},
	0x60003000: {0x60003000, "OverlayData", "OW", "1", false},
	0x60000010: {0x60000010, "OverlayRows", "US", "1", false},
	0x60000011: {0x60000011, "OverlayColumns", "US", "1", false},

	// Pixel data
	0x7FE00008: {0x7FE00008, "FloatPixelData", "OF", "1", false},
	0x7FE00009: {0x7FE00009, "DoubleFloatPixelData", "OD", "1", false},
	0x7FE00010: {0x7FE00010, "PixelData", "OW", "1", false},

	// Item and delimitation tags (PS3.5 table 7.5-3); no VR on the wire
	0xFFFEE000: {0xFFFEE000, "Item", "", "1", false},
	0xFFFEE00D: {0xFFFEE00D, "ItemDelimitationItem", "", "1", false},
	0xFFFEE0DD: {0xFFFEE0DD, "SequenceDelimitationItem", "", "1", false},
}
