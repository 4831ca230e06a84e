// File: clog_integration_test.go

package clog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TestIntegrationConcurrentLoggingWithRollover checks that no line is lost
// or torn while many goroutines log through a rolling file handler.
func TestIntegrationConcurrentLoggingWithRollover(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(LoggerConfig{
		LogsDir:       tempDir,
		DefaultFormat: "%m",
		Handlers: []HandlerConfig{
			{Name: "file", Kind: StreamFile, Filename: "concurrent", MinLevel: FATAL, MaxLevel: TRACE, MaxLength: 4096},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	const (
		goroutines = 8
		perRoutine = 200
	)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perRoutine; i++ {
				logger.Infof("goroutine=%d seq=%04d %s", g, i, strings.Repeat("-", 40))
			}
		}(g)
	}
	wg.Wait()

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(tempDir, "concurrent.log*"))
	if err != nil {
		t.Fatalf("Failed to list log files: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("Expected rollover files, got %v", files)
	}

	seen := make(map[string]bool)
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Failed to open %s: %v", path, err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "goroutine=") || !strings.HasSuffix(line, strings.Repeat("-", 40)) {
				t.Errorf("Torn line in %s: %q", path, line)
				continue
			}
			if seen[line] {
				t.Errorf("Duplicate line: %q", line)
			}
			seen[line] = true
		}
		f.Close()
	}

	if len(seen) != goroutines*perRoutine {
		t.Errorf("Expected %d lines, got %d", goroutines*perRoutine, len(seen))
	}
}

// TestIntegrationConcurrentHandlerChanges logs while handlers are added,
// reconfigured and removed.
func TestIntegrationConcurrentHandlerChanges(t *testing.T) {
	logger, err := New(bufferConfig("base"))
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					logger.Debug("tick")
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		h, err := logger.CreateHandler(HandlerConfig{
			Name: fmt.Sprintf("tmp-%d", i), Kind: StreamBuffer, MinLevel: FATAL, MaxLevel: TRACE,
		})
		if err != nil {
			t.Fatalf("Failed to create handler: %v", err)
		}
		_ = h.SetRange(ERROR, DEBUG)
		h.SetFormat("%l %m")
		_ = logger.SetLevelStyle(DEBUG, "%fb")
		if err := logger.DeleteHandler(h); err != nil {
			t.Fatalf("Failed to delete handler: %v", err)
		}
	}

	close(stop)
	wg.Wait()

	if got := len(logger.Handlers()); got != 1 {
		t.Errorf("Expected 1 handler, got %d", got)
	}
	if !strings.Contains(string(logger.Handler("base").Contents()), "tick") {
		t.Error("Base handler received no messages")
	}
}

// TestIntegrationMultipleSinks routes one call to every sink kind.
func TestIntegrationMultipleSinks(t *testing.T) {
	tempDir := t.TempDir()
	var stdout, stderr, pipe strings.Builder

	logger, err := New(LoggerConfig{
		LogsDir:       tempDir,
		DefaultFormat: "%l|%m",
		Handlers: []HandlerConfig{
			{Name: "console", Kind: StreamConsole, Stdout: &stdout, Stderr: &stderr, MinLevel: FATAL, MaxLevel: INFO},
			{Name: "file", Kind: StreamFile, Filename: "multi", MinLevel: FATAL, MaxLevel: TRACE},
			{Name: "pipe", Kind: StreamPipe, Writer: &pipe, MinLevel: ERROR, MaxLevel: ERROR},
			{Name: "buffer", Kind: StreamBuffer, MinLevel: DEBUG, MaxLevel: TRACE},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Error("bad")
	logger.Info("fine")
	logger.Trace("deep")

	buffer := string(logger.Handler("buffer").Contents())
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tempDir, "multi.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"stderr", stderr.String(), "\x1b[91mERROR\x1b[0m|bad\n"},
		{"stdout", stdout.String(), "\x1b[92mINFO \x1b[0m|fine\n"},
		{"file", string(data), "ERROR|bad\nINFO |fine\nTRACE|deep\n"},
		{"pipe", pipe.String(), "ERROR|bad\n"},
		{"buffer", buffer, "TRACE|deep\n"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %q, got %q", c.name, c.want, c.got)
		}
	}
}
