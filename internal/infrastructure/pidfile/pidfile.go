package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned by Acquire while another live process holds the file
type ErrAlreadyRunning struct {
	PID  int
	Path string
}

func (e *ErrAlreadyRunning) Error() string {
	return fmt.Sprintf("starport daemon already running (PID %d, %s)", e.PID, e.Path)
}

// PIDFile keeps a single daemon per PID file path
type PIDFile struct {
	path string
}

// New creates a PIDFile for path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string { return p.path }

// Acquire writes the current PID. A file left behind by a dead process, or one that does not
// hold a number, is replaced.
func (p *PIDFile) Acquire() error {
	pid, err := p.Read()
	switch {
	case err == nil && pid != os.Getpid() && alive(pid):
		return &ErrAlreadyRunning{PID: pid, Path: p.path}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) {
			return err
		}
	}

	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read returns the PID stored in the file
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// Release removes the file. Releasing twice is not an error.
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// alive probes pid with signal 0; EPERM still means the process exists
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
