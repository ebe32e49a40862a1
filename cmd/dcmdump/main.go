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

// Command dcmdump parses a DICOM file and prints its data elements, one per
// line, with nested sequence items indented.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/medimage/go-dicom-engine/dicom"
	"github.com/medimage/go-dicom-engine/dictionary"
)

var (
	verbose  = flag.Bool("v", false, "log benign decode recoveries")
	skipBulk = flag.Bool("skip-bulk", false, "print bulk data elements as references instead of values")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file.dcm>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := zapcore.WarnLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	dicom.SetLogger(dicom.NewConsoleLogger(level))

	if err := dump(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "dcmdump: %v\n", err)
		os.Exit(1)
	}
}

func dump(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := []dicom.ParseOption{}
	if *skipBulk {
		opts = append(opts, dicom.ReferenceBulkData(dicom.DefaultBulkDataDefinition))
	}

	ds, err := dicom.Parse(f, opts...)
	if err != nil {
		return fmt.Errorf("parsing %s: %v", path, err)
	}

	for _, elem := range ds.SortedElements() {
		name := elem.Tag.Keyword()
		if uid, ok := elem.StringValue(); ok && elem.VR == dicom.UIVR {
			if uidName := dictionary.UIDName(uid); uidName != "" {
				fmt.Printf("%s %s [%s] # %s\n", elem.Tag, elem.VR, uid, uidName)
				continue
			}
		}
		fmt.Printf("%s # %s\n", elem, name)
	}
	return nil
}
