package file

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// ReadWritePermissions for the journal database and log files.
	ReadWritePermissions os.FileMode = 0600
	// ReadWriteExecutePermissions for the data directory.
	ReadWriteExecutePermissions os.FileMode = 0700
)

// ErrBadPermissions is returned when the data directory is accessible to other users.
var ErrBadPermissions = errors.New("data dir exists with permissions other than 0700")

// expand resolves a leading ~ and environment variables and returns an absolute path.
func expand(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		p = home + p[1:]
	}

	return filepath.Abs(os.ExpandEnv(p))
}

// MkdirAll creates the journal data directory. An existing directory is
// accepted only with ReadWriteExecutePermissions.
func MkdirAll(dir string) error {
	full, err := expand(dir)
	if err != nil {
		return err
	}

	info, err := os.Stat(full)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(full, ReadWriteExecutePermissions)
	case err != nil:
		return err
	case !info.IsDir():
		return errors.Errorf("%s is not a directory", full)
	case info.Mode().Perm() != ReadWriteExecutePermissions:
		return ErrBadPermissions
	}

	return nil
}

// HasDir reports whether dir exists and is a directory.
func HasDir(dir string) (bool, error) {
	full, err := expand(dir)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return info.IsDir(), nil
}

// FileExists reports whether name is an existing regular file, e.g. the .env file given to the node.
func FileExists(name string) bool {
	full, err := expand(name)
	if err != nil {
		return false
	}

	info, err := os.Stat(full)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("path", full).Debug("Stat failed")
		}
		return false
	}

	return info.Mode().IsRegular()
}

// DefaultDataDir returns the per-OS journal location, or "" if the home dir is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "DualMiner")
	case "windows":
		return filepath.Join(home, "AppData", "Local", "DualMiner")
	default:
		return filepath.Join(home, ".dualminer")
	}
}
