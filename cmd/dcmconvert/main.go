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

// Command dcmconvert reads a DICOM file and re-emits it under a chosen
// transfer syntax. Only uncompressed target syntaxes are supported; the pixel
// data bytes are carried over unchanged.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/medimage/go-dicom-engine/dicom"
)

var (
	syntaxUID = flag.String("syntax", dicom.ExplicitVRLittleEndianUID, "transfer syntax UID of the output file")
	explicit  = flag.Bool("explicit-lengths", false, "write sequences with explicit lengths")
	verbose   = flag.Bool("v", false, "log benign decode recoveries")
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <in.dcm> <out.dcm>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := zapcore.WarnLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	dicom.SetLogger(dicom.NewConsoleLogger(level))

	if err := convert(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "dcmconvert: %v\n", err)
		os.Exit(1)
	}
}

func convert(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	ds, err := dicom.Parse(in)
	if err != nil {
		return fmt.Errorf("parsing %s: %v", inPath, err)
	}

	if err := retarget(ds, *syntaxUID); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	opts := []dicom.ConstructOption{}
	if *explicit {
		opts = append(opts, dicom.ExplicitLengths)
	}

	if err := dicom.Construct(out, ds, opts...); err != nil {
		return fmt.Errorf("writing %s: %v", outPath, err)
	}
	return out.Close()
}

// retarget points the data set's meta group at the requested transfer syntax.
// Re-encoding compressed pixel data would need a codec, so moving between an
// encapsulated source and a different target syntax is rejected.
func retarget(ds *dicom.DataSet, uid string) error {
	target, err := dicom.LookupTransferSyntax(uid)
	if err != nil {
		return err
	}

	current, ok := ds.GetElement(dicom.TransferSyntaxUIDTag)
	if ok {
		if currentUID, ok := current.StringValue(); ok && currentUID != uid {
			if src, err := dicom.LookupTransferSyntax(currentUID); err == nil && src.Encapsulated {
				return fmt.Errorf("source pixel data is encapsulated (%s); transcoding is not supported", currentUID)
			}
		}
	}
	if target.Encapsulated {
		return fmt.Errorf("target transfer syntax %s is encapsulated; transcoding is not supported", uid)
	}

	return ds.Put(&dicom.DataElement{
		Tag:        dicom.TransferSyntaxUIDTag,
		VR:         dicom.UIVR,
		ValueField: []string{uid},
	})
}
