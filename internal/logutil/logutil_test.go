package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(io.Discard) })

	GetLogger("[test] ").Println("hello")
	if !strings.Contains(buf.String(), "[test] ") || !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestLoggerFollowsOutput(t *testing.T) {
	logger := GetLogger("[x] ")

	var first, second bytes.Buffer
	SetOutput(&first)
	logger.Println("one")
	SetOutput(&second)
	logger.Println("two")
	SetOutput(io.Discard)
	logger.Println("three")

	if !strings.Contains(first.String(), "one") || strings.Contains(first.String(), "two") {
		t.Errorf("first = %q", first.String())
	}
	if !strings.Contains(second.String(), "two") || strings.Contains(second.String(), "three") {
		t.Errorf("second = %q", second.String())
	}
}

func TestSetOutputFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clarke.log")
	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	GetLogger("[file] ").Println("written")
	if err := SetOutputFile(""); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file = %q", data)
	}
}
