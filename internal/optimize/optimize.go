// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package optimize runs an external lossless PNG optimizer over written
// output. It detects oxipng or optipng on PATH and rewrites the file in
// place; pixel data is never changed.
package optimize

import (
	"fmt"
	"os/exec"

	"github.com/pdiddy/webp2png/pkg/types"
)

const (
	binOxipng  = "oxipng"
	binOptipng = "optipng"
)

// Optimizer rewrites a PNG file with a smaller lossless encoding.
type Optimizer interface {
	// Name returns the tool name ("oxipng" or "optipng").
	Name() string

	// Available reports whether the tool binary exists on PATH.
	Available() bool

	// Optimize rewrites the PNG at path in place.
	Optimize(path string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// tool implements Optimizer for a specific binary. The tools differ only in
// name and the arguments for a quiet in-place lossless pass.
type tool struct {
	bin  string
	args []string // flags placed before the file path
	exec executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	_, err := t.exec.LookPath(t.bin)
	return err == nil
}

func (t *tool) Optimize(path string) error {
	args := make([]string, 0, len(t.args)+1)
	args = append(args, t.args...)
	args = append(args, path)

	if out, err := t.exec.Run(t.bin, args...); err != nil {
		return fmt.Errorf("running %s on %s: %w (%s)", t.bin, path, err, trimOutput(out))
	}
	return nil
}

func newOxipng(exec executor) *tool {
	return &tool{bin: binOxipng, args: []string{"-o", "2", "--strip", "safe", "-q"}, exec: exec}
}

func newOptipng(exec executor) *tool {
	return &tool{bin: binOptipng, args: []string{"-o2", "-quiet"}, exec: exec}
}

var defaultExec = &osExecutor{}

// Detect returns the optimizer selected by pref. OptimizerNone (or an empty
// preference) returns nil with no error. OptimizerAuto tries oxipng first,
// falls back to optipng, and returns nil when neither is installed. An
// explicitly named tool that is missing is an error.
func Detect(pref types.Optimizer) (Optimizer, error) {
	return detect(pref, defaultExec)
}

func detect(pref types.Optimizer, exec executor) (Optimizer, error) {
	switch pref {
	case "", types.OptimizerNone:
		return nil, nil
	case types.OptimizerAuto:
		for _, t := range []*tool{newOxipng(exec), newOptipng(exec)} {
			if t.Available() {
				return t, nil
			}
		}
		return nil, nil
	case types.OptimizerOxipng, types.OptimizerOptipng:
		t := newOxipng(exec)
		if pref == types.OptimizerOptipng {
			t = newOptipng(exec)
		}
		if !t.Available() {
			return nil, fmt.Errorf("png optimizer %s not found on PATH", t.bin)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q: want none, auto, oxipng, or optipng", pref)
	}
}

// trimOutput keeps error output short enough for a status line.
func trimOutput(out []byte) string {
	const maxLen = 200
	if len(out) > maxLen {
		return string(out[:maxLen]) + "..."
	}
	return string(out)
}
