// Package log wraps the standard logger used throughout Chronophoto.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var debugEnabled atomic.Bool

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// SetDebug toggles Debug and Debugf output.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// SetFile routes log output to a rotating file. An empty path restores stderr.
// The returned closer releases the file and should be called on shutdown.
func SetFile(path string) io.Closer {
	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(rotating)
	return rotating
}

// Print calls the standard log.Print()
func Print(v ...interface{}) {
	_ = log.Output(2, fmt.Sprint(v...))
}

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, v...))
}

// Println calls the standard log.Println()
func Println(v ...interface{}) {
	_ = log.Output(2, fmt.Sprintln(v...))
}

// Fatal calls the standard log.Fatal()
func Fatal(v ...interface{}) {
	_ = log.Output(2, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf calls the standard log.Fatalf()
func Fatalf(format string, v ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Debug prints with a [DEBUG] prefix when debug output is enabled.
func Debug(v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	_ = log.Output(2, "[DEBUG] "+fmt.Sprint(v...))
}

// Debugf prints with a [DEBUG] prefix when debug output is enabled.
func Debugf(format string, v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	_ = log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
}
