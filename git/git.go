package git

import (
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsTracked reports whether path, or anything below it, is tracked by the
// repository containing it. Paths outside any repository are untracked.
func IsTracked(path string) (bool, error) {
	cmd := exec.Command("git", "ls-files", "--error-unmatch", filepath.Base(path))
	cmd.Dir = filepath.Dir(path)
	err := cmd.Run()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return false, nil
		}
		return false, errors.Wrapf(err, "git ls-files %s", path)
	}
	return true, nil
}
