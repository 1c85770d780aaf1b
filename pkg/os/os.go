package os

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// CheckCreateDir makes the dir with all its parents if it doesn't exist.
func CheckCreateDir(path string) error {
	if Exists(path) {
		return nil
	}
	return os.MkdirAll(path, 0755)
}

// IsDir reports whether the path exists and is a directory.
func IsDir(path string) bool {
	inf, err := os.Stat(path)
	return err == nil && inf.IsDir()
}

// ExpectTermination returns a channel that is closed on
// the first interrupt or terminate signal.
func ExpectTermination() <-chan struct{} {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-signals
		signal.Stop(signals)
		close(done)
	}()
	return done
}
