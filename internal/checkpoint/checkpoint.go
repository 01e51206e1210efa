// Package checkpoint persists a scanner's last completed block height as a
// plain UTF-8 decimal integer, one value per file.
package checkpoint

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// File is a scope-bound handle over a checkpoint file: Load reads the
// last recorded height (if any), Save overwrites it. Callers are expected
// to Save on every exit path, including error returns.
type File struct {
	path string
}

func Open(path string) *File {
	return &File{path: path}
}

// Load returns (height, true) if the file exists and parses cleanly, or
// (0, false) if it does not exist yet — a fresh scan, not an error.
func (f *File) Load() (int64, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("reading checkpoint %s: %w", f.path, err)
	}
	height, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parsing checkpoint %s: %w", f.path, err)
	}
	return height, true, nil
}

// Save overwrites the checkpoint file with height.
func (f *File) Save(height int64) error {
	if err := os.WriteFile(f.path, []byte(strconv.FormatInt(height, 10)), 0o644); err != nil {
		return fmt.Errorf("writing checkpoint %s: %w", f.path, err)
	}
	return nil
}

// ResumeHeight applies the crawler's resume rule: if the checkpointed
// height falls at or after startBlock, resume at checkpoint+1; otherwise
// start at startBlock. A checkpoint at or past endBlock resumes past the
// end of the range, which the caller's loop condition turns into a no-op
// rather than a full re-scan.
func ResumeHeight(checkpointed int64, haveCheckpoint bool, startBlock, endBlock int64) int64 {
	if haveCheckpoint && checkpointed >= startBlock {
		return checkpointed + 1
	}
	return startBlock
}
