// Package params is a small on-disk key/value store. Each param is one file
// in ParamsPath; writes are atomic and serialised through a lock file in the
// parent directory so several processes can share the store.
package params

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const (
	PARAMS_PATH_ENV = "BARC_PARAMS_PATH"
	LOCK_FILE       = ".lock"
	LOCK_RETRIES    = 50
	// after this many failed attempts the lock file is assumed stale
	LOCK_STALE_RETRIES = 30
)

var ErrLockTimeout = errors.New("could not obtain params lock")

var (
	ParamsPath string = defaultParamsPath()
)

// Params
const (
	BARC_SETTINGS = "BarcSettings"
	LAST_EPISODE  = "LastEpisode"
)

func defaultParamsPath() string {
	if p := os.Getenv(PARAMS_PATH_ENV); p != "" {
		return p
	}
	return filepath.Join(".barc", "params", "d")
}

func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "could not check param file stats")
}

func EnsureParamDirectories() {
	err := os.MkdirAll(ParamsPath, 0o775)
	if err != nil {
		slog.Warn("could not make params directory", "error", err, "directory", ParamsPath)
	}
}

// IsString reports whether data is printable text.
func IsString(data []byte) bool {
	for _, b := range data {
		if (b < 32 || b > 126) && !(b == 9 || b == 13 || b == 10) {
			return false
		}
	}
	return true
}

func GetParams() ([]string, error) {
	files, err := os.ReadDir(ParamsPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not read params directory")
	}

	names := []string{}
	for _, file := range files {
		name := file.Name()
		if file.Type().IsRegular() && name[0] != '.' {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

func ParamPath(name string) string {
	return filepath.Join(ParamsPath, name)
}

func GetParam(name string) ([]byte, error) {
	data, err := os.ReadFile(ParamPath(name))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read param %s", name)
	}
	return data, nil
}

func PutParam(name string, data []byte) error {
	path := ParamPath(name)
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, ".tmp_value_"+name)
	if err != nil {
		return errors.Wrap(err, "could not create temp param file")
	}
	tmpName := file.Name()
	defer os.Remove(tmpName)

	_, err = file.Write(data)
	if err == nil {
		err = file.Sync()
	}
	closeErr := file.Close()
	if err != nil {
		return errors.Wrap(err, "could not write temp param file")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "could not close temp param file")
	}

	unlock, err := lock(dir)
	if err != nil {
		return err
	}
	defer unlock()

	err = os.Rename(tmpName, path)
	if err != nil {
		return errors.Wrap(err, "could not move temp param file to persistent location")
	}

	return syncDir(dir)
}

func RemoveParam(name string) error {
	path := ParamPath(name)
	dir := filepath.Dir(path)

	unlock, err := lock(dir)
	if err != nil {
		return err
	}
	defer unlock()

	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "could not remove param %s", name)
	}

	return syncDir(dir)
}

// lock takes the store lock that lives next to the params directory.
func lock(dir string) (func(), error) {
	lockPath := filepath.Join(filepath.Dir(dir), LOCK_FILE)
	fileLock := flock.New(lockPath)

	retries := 0
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return nil, errors.Wrap(err, "could not try locking params directory")
		}
		if locked {
			break
		}
		retries += 1
		if retries > LOCK_STALE_RETRIES {
			if err := os.Remove(lockPath); err != nil {
				slog.Debug("failed to force delete params lock", "error", err)
			}
		}
		if retries > LOCK_RETRIES {
			return nil, ErrLockTimeout
		}
		time.Sleep(1 * time.Millisecond)
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			slog.Error("could not unlock params directory", "error", err)
		}
		if err := os.Remove(lockPath); err != nil {
			slog.Error("could not remove params lock file", "error", err)
		}
	}, nil
}

func syncDir(dir string) error {
	directory, err := os.Open(dir)
	if err != nil {
		return errors.Wrap(err, "could not open params directory")
	}
	defer directory.Close()

	err = directory.Sync()
	if err != nil {
		return errors.Wrap(err, "could not fsync params directory")
	}
	return nil
}
