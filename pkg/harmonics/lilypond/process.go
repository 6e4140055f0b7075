package lilypond

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Process runs the lilypond command on a .ly file and returns the path of
// the PDF it produces next to the source.
func Process(ctx context.Context, command, path string) (string, error) {
	if command == "" {
		command = "lilypond"
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
	}

	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	cmd := exec.CommandContext(ctx, command, "--pdf", "--output="+base, filepath.Base(path))
	cmd.Dir = dir

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s failed: %v (%s)", command, err, out)
	}

	return filepath.Join(dir, base+".pdf"), nil
}
