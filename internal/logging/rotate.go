package logging

import (
	"io"

	"github.com/natefinch/lumberjack"
)

// Rotation limits for File.
const (
	rotateMaxSizeMB  = 10
	rotateMaxBackups = 5
	rotateMaxAgeDays = 90
)

func newRotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotateMaxSizeMB,
		MaxBackups: rotateMaxBackups,
		MaxAge:     rotateMaxAgeDays,
		Compress:   true,
	}
}
