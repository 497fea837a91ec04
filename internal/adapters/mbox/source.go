// Package mbox adapts a local mbox mail store to the message-source
// port. Folders are mbox files laid out under a base directory.
package mbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mboxlib "github.com/emersion/go-mbox"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

// Store locates folders inside a local mbox mail store.
type Store struct {
	baseDir string
	logger  *zap.Logger
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string, logger *zap.Logger) *Store {
	return &Store{baseDir: baseDir, logger: logger}
}

// Connect verifies the store is reachable. Failure here is fatal for
// the whole run.
func (s *Store) Connect() error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("cannot open mail store %s: %w", s.baseDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mail store %s is not a directory", s.baseDir)
	}
	s.logger.Info("Connected to mail store", zap.String("base_dir", s.baseDir))
	return nil
}

// ResolveFolder resolves account/inbox/folder/subfolder to an mbox
// file. Empty path segments are skipped; the final segment names the
// mbox file.
func (s *Store) ResolveFolder(account, inbox, folder, subfolder string) (core.MessageSource, error) {
	segments := make([]string, 0, 4)
	for _, seg := range []string{account, inbox, folder, subfolder} {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no folder specified")
	}

	path := filepath.Join(append([]string{s.baseDir}, segments...)...)
	if !strings.HasSuffix(path, ".mbox") {
		path += ".mbox"
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot resolve folder %s: %w", strings.Join(segments, "/"), err)
	}

	s.logger.Info("Resolved folder", zap.String("path", path))
	return &Source{path: path, name: strings.Join(segments, "/"), logger: s.logger}, nil
}

// OpenFile wraps a single mbox file as a message source, bypassing
// folder resolution.
func OpenFile(path string, logger *zap.Logger) (core.MessageSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open mbox %s: %w", path, err)
	}
	return &Source{path: path, name: filepath.Base(path), logger: logger}, nil
}

// Source iterates one mbox file. It is not safe for concurrent use.
type Source struct {
	path   string
	name   string
	logger *zap.Logger
}

// Name identifies the source for logging.
func (s *Source) Name() string { return s.name }

// Each streams every message of the mbox file in file order. A read
// failure on a single message yields a message object whose accessors
// all fail rather than aborting the iteration; only an unreadable file
// is a source-level error.
func (s *Source) Each(ctx context.Context, fn func(msg core.RawMessage) error) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("message %d: %w", idx, err)
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			s.logger.Warn("Unreadable message in mbox", zap.Int("index", idx), zap.Error(err))
			if cbErr := fn(unreadableMessage(err)); cbErr != nil {
				return cbErr
			}
			continue
		}

		if cbErr := fn(parseMessage(raw)); cbErr != nil {
			return cbErr
		}
	}
}
