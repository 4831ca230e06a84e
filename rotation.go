package clog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// rollOver starts a fresh stream once the threshold has been crossed. The
// message that crossed it has already been written in full.
//
// Thread safety:
//
//	Caller must hold h.mu
func (h *Handler) rollOver() error {
	switch s := h.sink.(type) {
	case *fileSink:
		if err := h.rotateFile(s); err != nil {
			return err
		}
	case *bufferSink:
		s.buf.Reset()
		h.rollover++
		h.length = 0
	default:
		return nil
	}
	h.metrics.rolledOver(h.name)
	return nil
}

// rotateFile renames the active file to the first "{path}.{n}" that does
// not exist, with n starting at the handler's rollover counter, and reopens
// the original name.
//
// Thread safety:
//
//	Caller must hold h.mu
func (h *Handler) rotateFile(s *fileSink) error {
	n, candidate, err := nextRolloverName(h.path, h.rollover)
	if err != nil {
		return err
	}

	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	if err := os.Rename(h.path, candidate); err != nil {
		return fmt.Errorf("failed to rename log file: %w", err)
	}
	f, _, err := openLogFile(h.path)
	if err != nil {
		return fmt.Errorf("failed to create new log file: %w", err)
	}

	s.f = f
	h.rollover = n + 1
	h.length = 0

	if h.rolloverCap > 0 {
		h.pruneRollovers()
	}
	return nil
}

// nextRolloverName probes "{path}.{n}" upwards from start and returns the
// first name that does not exist.
func nextRolloverName(path string, start int) (int, string, error) {
	for n := max(start, 1); ; n++ {
		candidate := path + "." + strconv.Itoa(n)
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return n, candidate, nil
		}
		if err != nil {
			return 0, "", fmt.Errorf("failed to probe %s: %w", candidate, err)
		}
	}
}

// pruneRollovers removes the lowest-numbered rollover files until at most
// rolloverCap remain. Removal errors are ignored.
func (h *Handler) pruneRollovers() {
	dir, base := filepath.Split(h.path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	prefix := base + "."
	var numbers []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if n, err := strconv.Atoi(name[len(prefix):]); err == nil && n > 0 {
			numbers = append(numbers, n)
		}
	}
	if len(numbers) <= h.rolloverCap {
		return
	}

	sort.Ints(numbers)
	for _, n := range numbers[:len(numbers)-h.rolloverCap] {
		_ = os.Remove(h.path + "." + strconv.Itoa(n))
	}
}
