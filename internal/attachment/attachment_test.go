package attachment

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		wantMIME string
	}{
		{"text", "notes.txt", []byte("hello"), "text/plain"},
		{"markdown", "brief.MD", []byte("# Brief"), "text/markdown"},
		{"pdf", "deck.pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"), "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, err := Read(writeFile(t, tt.file, tt.data))
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if att.Name != tt.file {
				t.Errorf("Name = %q, want %q", att.Name, tt.file)
			}
			if att.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", att.MIMEType, tt.wantMIME)
			}
			decoded, err := base64.StdEncoding.DecodeString(att.Data)
			if err != nil || string(decoded) != string(tt.data) {
				t.Errorf("Data does not round-trip: %v", err)
			}
		})
	}
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read(writeFile(t, "photo.png", []byte{0x89, 'P', 'N', 'G'}))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestRead_ContentMismatch(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"text renamed pdf", "deck.pdf", []byte("just some notes")},
		{"image renamed txt", "notes.txt", png},
		{"pdf renamed pptx", "slides.pptx", []byte("%PDF-1.4\n1 0 obj\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(writeFile(t, tt.file, tt.data))
			if !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("err = %v, want ErrUnsupportedType", err)
			}
		})
	}
}

func TestRead_PPTXZipContainer(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("ppt/presentation.xml")
	if err != nil {
		t.Fatalf("zip entry: %v", err)
	}
	f.Write([]byte("<p:presentation/>"))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	att, err := Read(writeFile(t, "slides.pptx", buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if att.MIMEType != allowed[".pptx"] {
		t.Errorf("MIMEType = %q", att.MIMEType)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "gone.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}
