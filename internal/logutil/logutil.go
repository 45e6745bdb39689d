// Package logutil provides the process-wide debug log. Everything is
// discarded until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu  sync.Mutex
	out io.Writer = io.Discard
	// file is the log file opened by SetOutputFile, if any.
	file *os.File
)

type sinkWriter struct{}

func (sinkWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	return out.Write(p)
}

// Discard is a Logger that ignores all loggings.
var Discard = log.New(io.Discard, "", 0)

// GetLogger returns a logger writing to the shared sink with the given
// prefix.
func GetLogger(prefix string) *log.Logger {
	return log.New(sinkWriter{}, prefix, log.LstdFlags|log.Lmicroseconds)
}

// SetOutput redirects all loggers returned by GetLogger to w.
func SetOutput(w io.Writer) {
	setOutput(w, nil)
}

func setOutput(w io.Writer, f *os.File) {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	out, file = w, f
}

// SetOutputFile redirects all loggers to the named file, appending to it.
// An empty name restores discarding.
func SetOutputFile(fname string) error {
	if fname == "" {
		setOutput(io.Discard, nil)
		return nil
	}
	f, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	setOutput(f, f)
	return nil
}
