// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns WebP files into opaque PNG files, one file or a
// whole directory at a time. Each file is decoded, flattened onto the
// configured background, written through a temporary file and optionally
// optimized and deleted. Batches run to completion past individual failures.
package convert

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/webp2png/internal/codec"
	"github.com/pdiddy/webp2png/internal/imaging"
	"github.com/pdiddy/webp2png/internal/optimize"
	"github.com/pdiddy/webp2png/pkg/types"
)

const outputExt = ".png"

// Request describes one invocation of the converter.
type Request struct {
	// Input is a WebP file or a directory.
	Input string
	// Output is an explicit PNG path. Only honoured for a single file.
	Output string
	// Delete removes each source after its PNG is written.
	Delete bool
	// Recursive descends into subdirectories in directory mode.
	Recursive bool
}

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Files     []types.FileResult
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(res types.FileResult) {
	switch res.Status {
	case types.ConversionDone:
		r.Converted++
	case types.ConversionSkipped:
		r.Skipped++
	case types.ConversionFailed:
		r.Failed++
	}
	r.Files = append(r.Files, res)
}

// Runner converts files according to a resolved ConversionConfig.
type Runner struct {
	background   color.RGBA
	compression  types.Compression
	extension    string
	skipExisting bool
	optimizer    optimize.Optimizer

	w   io.Writer
	log logrus.FieldLogger
}

// NewRunner validates cfg and returns a Runner that prints per-file status
// lines to w. opt may be nil to skip the optimizer pass.
func NewRunner(cfg types.ConversionConfig, opt optimize.Optimizer, w io.Writer, log logrus.FieldLogger) (*Runner, error) {
	bg := imaging.White
	if cfg.Background != "" {
		c, err := imaging.ParseHexColor(cfg.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		bg = c
	}

	level, err := codec.ParseCompression(string(cfg.Compression))
	if err != nil {
		return nil, err
	}

	ext := cfg.Extension
	if ext == "" {
		ext = types.DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if w == nil {
		w = io.Discard
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Runner{
		background:   bg,
		compression:  level,
		extension:    ext,
		skipExisting: cfg.SkipExisting,
		optimizer:    opt,
		w:            w,
		log:          log.WithField("package", "convert"),
	}, nil
}

// OutputPath returns the default PNG path for src: the same stem with a
// .png extension.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + outputExt
}

// Run converts req.Input. A file is converted on its own; a directory is
// searched for source files which are converted as a batch.
//
// A missing input returns ErrNotFound and a file with the wrong extension
// returns ErrWrongExtension; nothing is written in either case. Otherwise
// Run returns a non-nil error when at least one conversion failed. A
// directory without source files is a success.
func (r *Runner) Run(req Request) (BatchResult, error) {
	var result BatchResult

	info, err := os.Stat(req.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %s", ErrNotFound, req.Input)
		}
		return result, fmt.Errorf("%w: %w", ErrIO, err)
	}

	switch {
	case info.Mode().IsRegular():
		if !r.matches(req.Input) {
			return result, fmt.Errorf("%w: %s (want %s)", ErrWrongExtension, req.Input, r.extension)
		}
		res, err := r.ConvertFile(req.Input, req.Output, req.Delete)
		result.add(res)
		if err != nil {
			return result, fmt.Errorf("converting %s: %w", req.Input, err)
		}
		return result, nil

	case info.IsDir():
		if req.Output != "" {
			fmt.Fprintf(r.w, "warning: --output is ignored for directory %s\n", req.Input)
			r.log.WithField("output", req.Output).Warn("output path ignored in directory mode")
		}
		paths, err := Discover(req.Input, req.Recursive, r.extension)
		if err != nil {
			return result, err
		}
		if len(paths) == 0 {
			fmt.Fprintf(r.w, "no %s files found in %s\n", r.extension, req.Input)
			return result, nil
		}
		fmt.Fprintf(r.w, "found %d %s files in %s\n", len(paths), r.extension, req.Input)

		result = r.ConvertBatch(paths, req.Delete)
		if result.HasFailures() {
			return result, fmt.Errorf("%d of %d file(s) failed conversion", result.Failed, result.Total())
		}
		return result, nil

	default:
		return result, fmt.Errorf("%w: %s is neither a regular file nor a directory", ErrNotFound, req.Input)
	}
}

// ConvertBatch converts each path to a PNG next to it, printing per-file
// status and a summary to the writer. It never stops early.
func (r *Runner) ConvertBatch(paths []string, del bool) BatchResult {
	var result BatchResult
	for _, p := range paths {
		res, _ := r.ConvertFile(p, "", del)
		result.add(res)
	}
	fmt.Fprintf(r.w, "\nBatch summary: %d/%d converted, %d skipped, %d failed\n",
		result.Converted, result.Total(), result.Skipped, result.Failed)
	return result
}

// ConvertFile converts src to dst (OutputPath(src) when dst is empty) and,
// if del is set, removes src after the PNG is in place. The returned error
// wraps ErrDecode or ErrIO and is also recorded in the result. Failures to
// optimize or delete are warnings: the PNG is kept and the error is nil.
func (r *Runner) ConvertFile(src, dst string, del bool) (types.FileResult, error) {
	if dst == "" {
		dst = OutputPath(src)
	}
	res := types.FileResult{
		Source:      src,
		Destination: dst,
		ConvertedAt: time.Now().UTC(),
	}
	log := r.log.WithFields(logrus.Fields{"source": src, "destination": dst})

	if r.skipExisting {
		if _, err := os.Stat(dst); err == nil {
			res.Status = types.ConversionSkipped
			fmt.Fprintf(r.w, "skipped:   %s (already exists)\n", dst)
			return res, nil
		}
	}

	if err := r.convert(src, dst, &res); err != nil {
		res.Status = types.ConversionFailed
		res.Error = err.Error()
		fmt.Fprintf(r.w, "failed:    %s (%v)\n", src, err)
		log.WithError(err).Debug("conversion failed")
		return res, err
	}
	res.Status = types.ConversionDone

	if r.optimizer != nil {
		if err := r.optimizer.Optimize(dst); err != nil {
			r.warn(&res, log, fmt.Sprintf("optimizer %s failed: %v", r.optimizer.Name(), err))
		} else if fi, err := os.Stat(dst); err == nil {
			res.OutputBytes = fi.Size()
		}
	}

	fmt.Fprintf(r.w, "converted: %s -> %s (%s -> %s)\n", src, dst,
		humanize.Bytes(uint64(res.SourceBytes)), humanize.Bytes(uint64(res.OutputBytes)))
	log.WithFields(logrus.Fields{
		"width":     res.Width,
		"height":    res.Height,
		"had_alpha": res.HadAlpha,
	}).Debug("converted")

	if del {
		r.deleteSource(&res, log)
	}
	return res, nil
}

// convert decodes, flattens and writes one file, filling in res.
func (r *Runner) convert(src, dst string, res *types.FileResult) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		res.SourceBytes = fi.Size()
	}

	img, err := codec.DecodeWebP(f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	res.HadAlpha = imaging.HasAlpha(img)

	flat := imaging.Flatten(img, r.background)
	res.Width, res.Height = flat.Bounds().Dx(), flat.Bounds().Dy()

	n, err := r.writePNG(flat, dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	res.OutputBytes = n
	return nil
}

// writePNG encodes img into a temporary file beside dst and renames it into
// place, so a failed write never leaves a partial PNG. It returns the size
// of the written file.
func (r *Runner) writePNG(img *imaging.RGB, dst string) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".webp2png-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	encErr := codec.EncodePNG(tmp, img, r.compression)
	closeErr := tmp.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing %s: %w", dst, encErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("setting permissions on %s: %w", dst, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}

	fi, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// deleteSource removes the converted source. The PNG is kept whatever
// happens here.
func (r *Runner) deleteSource(res *types.FileResult, log logrus.FieldLogger) {
	if samePath(res.Source, res.Destination) {
		r.warn(res, log, "source and destination are the same file; not deleting")
		return
	}
	if err := os.Remove(res.Source); err != nil {
		r.warn(res, log, fmt.Sprintf("could not delete source: %v", fmt.Errorf("%w: %w", ErrIO, err)))
		return
	}
	res.Deleted = true
	fmt.Fprintf(r.w, "deleted:   %s\n", res.Source)
}

func (r *Runner) warn(res *types.FileResult, log logrus.FieldLogger, msg string) {
	res.Warnings = append(res.Warnings, msg)
	fmt.Fprintf(r.w, "  warning: %s\n", msg)
	log.Warn(msg)
}

func (r *Runner) matches(path string) bool {
	return strings.EqualFold(filepath.Ext(path), r.extension)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
