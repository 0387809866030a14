package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, [][]string{{"PROCESSO", "SALDO"}, {"10880", "1.234,56"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header, separator and one row, got %q", buf.String())
	}
	if lines[0] != "    | PROCESSO | SALDO    |" {
		t.Errorf("Unexpected header line %q", lines[0])
	}
	if lines[2] != "    | 10880    | 1.234,56 |" {
		t.Errorf("Unexpected row line %q", lines[2])
	}
}

func TestWriteToFallback(t *testing.T) {
	var buf bytes.Buffer
	err := writeTo("-", &buf, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil || buf.String() != "hello" {
		t.Errorf("Expected fallback writer to be used, got %q (%v)", buf.String(), err)
	}
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := writeTo(path, nil, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	if err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "a,b\n" {
		t.Errorf("Unexpected file content %q (%v)", data, err)
	}
}
