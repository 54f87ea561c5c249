//go:build unix

package render

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ttySearchDirs are scanned in order when resolving a device number.
// Pseudo-terminals first; they are by far the most common scope.
var ttySearchDirs = []string{"/dev/pts", "/dev"}

// DevName resolves a terminal device number to its /dev path by scanning
// the terminal directories for a character device with a matching rdev.
func DevName(dev uint64) (string, error) {
	for _, dir := range ttySearchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			var st unix.Stat_t
			if err := unix.Stat(path, &st); err != nil {
				continue
			}
			if st.Mode&unix.S_IFMT != unix.S_IFCHR {
				continue
			}
			if uint64(st.Rdev) == dev {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("no terminal device matching %d", dev)
}
