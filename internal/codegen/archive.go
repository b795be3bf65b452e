package codegen

import (
	"bytes"
	"time"

	"github.com/klauspost/compress/zip"
)

// archiveModTime is stamped on every entry so identical inputs produce
// identical archives.
var archiveModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Pack encodes files into a zip archive, one entry per file named by
// GeneratedFile.Name. Entries are written in input order and are not
// deduplicated. An empty input yields a valid archive with no entries.
func Pack(files []GeneratedFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		name := f.Name()
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: archiveModTime,
		})
		if err != nil {
			return nil, &ArchiveError{Entry: name, Cause: err}
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, &ArchiveError{Entry: name, Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &ArchiveError{Cause: err}
	}
	return buf.Bytes(), nil
}
