// Package attachment reads supporting documents from disk for use as
// model context.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nhle/prospector/internal/model"
)

// ErrUnsupportedType is returned for files outside the allowed types.
var ErrUnsupportedType = errors.New("unsupported attachment type")

// MaxSize is the largest file accepted, matching the inline-data limit
// of the model API.
const MaxSize = 20 << 20

// allowed maps accepted extensions to the MIME type sent to the model.
var allowed = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".pdf":  "application/pdf",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// container is the sniffed type the content of each extension must be,
// or descend from.
var container = map[string]string{
	".txt":  "text/plain",
	".md":   "text/plain",
	".pdf":  "application/pdf",
	".pptx": "application/zip",
}

// Extensions returns the accepted file extensions, sorted.
func Extensions() []string {
	return []string{".md", ".pdf", ".pptx", ".txt"}
}

// Read loads the file at path as a base64-encoded attachment.
func Read(path string) (*model.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := allowed[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedType, ext, strings.Join(Extensions(), " "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("attachment %s is %d bytes, limit is %d", filepath.Base(path), info.Size(), MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}

	if mt := mimetype.Detect(data); !descendsFrom(mt, container[ext]) {
		return nil, fmt.Errorf("%w: %s has %s content, not %s", ErrUnsupportedType, filepath.Base(path), mt.String(), ext)
	}

	return &model.Attachment{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

func descendsFrom(mt *mimetype.MIME, want string) bool {
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is(want) {
			return true
		}
	}
	return false
}
