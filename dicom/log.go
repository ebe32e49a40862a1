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
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger records benign decode recoveries (dictionary misses, unknown VR
// codes, tolerated odd lengths). Defaults to a console logger at warn level;
// replace with SetLogger.
var logger = newConsoleLogger(zapcore.WarnLevel)

// SetLogger replaces the package logger. Pass zap.NewNop().Sugar() to silence
// the engine entirely.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

// NewConsoleLogger creates a *zap.SugaredLogger configured for human-readable
// output to stderr at the given level.
func NewConsoleLogger(level zapcore.Level) *zap.SugaredLogger {
	return newConsoleLogger(level)
}

func newConsoleLogger(level zapcore.Level) *zap.SugaredLogger {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Sugar()
}
