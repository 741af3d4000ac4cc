package ingest

import "context"

// File is one PDF picked up by a directory scan.
type File struct {
	Path    string
	HashHex string
	Size    int64
	// DuplicateOf is the path of an earlier file with identical content.
	DuplicateOf string
	Err         string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Duplicates uint32
	Failed     uint32
}

// Scanner is the behavior the batch command depends on.
type Scanner interface {
	// ScanDirectory lists the PDFs under root in lexical path order.
	ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]File, DirStats, error)
}
