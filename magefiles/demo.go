//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const demoDir = "demo_images"

// Demo generates sample images and walks through the main conversion modes:
// a single file, a single file with --delete, and a whole directory.
func Demo() error {
	mg.Deps(Build)

	fmt.Println("[demo] Generating sample images")
	if err := sh.RunV(binary, "samples", demoDir); err != nil {
		return err
	}

	steps := []struct {
		name string
		args []string
	}{
		{"single file", []string{"convert", filepath.Join(demoDir, "gradient.webp")}},
		{"single file with delete", []string{"convert", "--delete", filepath.Join(demoDir, "shapes.webp")}},
		{"directory", []string{"convert", "--skip-existing", demoDir}},
	}
	for i, s := range steps {
		fmt.Printf("\n[demo] %d: %s\n", i+1, s.name)
		if err := sh.RunV(binary, s.args...); err != nil {
			fmt.Printf("[demo] %s failed: %v\n", s.name, err)
			continue
		}
		fmt.Printf("[demo] %s ok\n", s.name)
	}

	return showResults(demoDir)
}

// showResults lists the WebP and PNG files left in dir with their sizes.
func showResults(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	groups := map[string][]string{}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".webp" && ext != ".png" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		groups[ext] = append(groups[ext], fmt.Sprintf("%s (%s)", e.Name(), humanize.Bytes(uint64(info.Size()))))
	}

	fmt.Println("\n[demo] Results:")
	for _, ext := range []string{".webp", ".png"} {
		files := groups[ext]
		sort.Strings(files)
		fmt.Printf("%s files: %d\n", strings.TrimPrefix(ext, "."), len(files))
		for _, f := range files {
			fmt.Printf("   %s\n", f)
		}
	}
	fmt.Printf("\nDemo files kept in %s/ (mage clean removes them)\n", dir)
	return nil
}
