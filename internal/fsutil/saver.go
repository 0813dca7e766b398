// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/vidapi"
)

const maxNameAttempts = 1000

// DownloadSaver stores download payloads in Dir.
type DownloadSaver struct {
	Dir string
	// Overwrite replaces an existing file instead of picking "name (n).ext".
	Overwrite bool
}

// Save writes res atomically and returns the absolute path written.
func (s DownloadSaver) Save(ctx context.Context, res vidapi.DownloadResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	name := SanitizeFilename(res.Filename)
	path, err := s.reserve(dir, name)
	if err != nil {
		return "", err
	}

	logger := zerolog.Ctx(ctx)
	if err := writeAtomic(path, res.Data, logger); err != nil {
		if !s.Overwrite {
			// Drop the empty reservation so the name becomes free again.
			_ = os.Remove(path)
		}
		return "", err
	}

	logger.Info().
		Str(vlog.FieldEvent, "download.saved").
		Str(vlog.FieldFilename, path).
		Int(vlog.FieldBytes, len(res.Data)).
		Msg("download saved")
	return path, nil
}

func writeAtomic(path string, data []byte, logger *zerolog.Logger) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending download file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending download file")
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write download data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace download file: %w", err)
	}
	return nil
}

// reserve claims a confined path for name. Unless overwriting, the name is
// taken by creating an empty file exclusively, trying "name (n).ext" while
// the name exists, so concurrent saves never share a path.
func (s DownloadSaver) reserve(dir, name string) (string, error) {
	path, err := ConfineRelPath(dir, name)
	if err != nil || s.Overwrite {
		return path, err
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxNameAttempts; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, f.Close()
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("reserve download file: %w", err)
		}
		path, err = ConfineRelPath(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free file name for %q in %s", name, dir)
}

// SanitizeFilename strips characters file systems reject while keeping
// unicode and emoji. Path separators never survive, so the result is a single
// path segment.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), " .")
	if out == "" {
		return vidapi.DefaultFilename
	}
	return out
}
