package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joseph-ayodele/upd-parser/internal/common"
)

// FSScanner reads from the local filesystem.
type FSScanner struct {
	Logger *slog.Logger
}

func NewFSScanner(logger *slog.Logger) *FSScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSScanner{Logger: logger}
}

// HashFile returns the hex sha256 of the file at path and its size.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// ScanDirectory walks root, skips hidden entries if requested, and returns
// every PDF in lexical path order. Files whose content repeats an earlier
// file are returned with DuplicateOf set.
func (s *FSScanner) ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]File, DirStats, error) {
	var stats DirStats
	v := common.NewValidator().Field("root", root, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, stats, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %s", common.ErrNotFound, root)
	}
	if !info.IsDir() {
		return nil, stats, common.InvalidInputErrorf("%s is not a directory", root)
	}

	var paths []string
	var results []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, File{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return results, stats, common.WrapError(err, "walk")
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		sum, size, err := HashFile(p)
		if err != nil {
			s.Logger.Warn("ingest.hash.failed", "path", p, "error", err)
			results = append(results, File{Path: p, Err: err.Error()})
			stats.Failed++
			continue
		}
		f := File{Path: p, HashHex: sum, Size: size}
		if first, ok := seen[sum]; ok {
			f.DuplicateOf = first
			stats.Duplicates++
		} else {
			seen[sum] = p
		}
		results = append(results, f)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	s.Logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
