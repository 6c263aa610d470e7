// Package zip bundles downloaded headshots into a single archive.
package zip

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
)

// Entry is one file to include in the bundle.
type Entry struct {
	Name string
	MIME string
	Data []byte
}

// Bundle writes all entries into a zip archive. Entry names gain an extension
// matching their MIME type when they do not already carry one.
func Bundle(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, errors.New("zip: no entries")
	}
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(filename(entry))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func filename(entry Entry) string {
	name := entry.Name
	if name == "" {
		name = "file"
	}
	if strings.Contains(name, ".") {
		return name
	}
	switch strings.ToLower(strings.TrimSpace(strings.Split(entry.MIME, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return name + ".jpg"
	case "image/webp":
		return name + ".webp"
	case "image/gif":
		return name + ".gif"
	default:
		return name + ".png"
	}
}
