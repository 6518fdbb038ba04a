// Package fsio opens corpus, ontology and relation source files.
package fsio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/corey/reel/internal/ports"
)

// Open opens a source file for reading, transparently decompressing ".gz".
// A missing file is reported as ports.ErrMissingResource.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrMissingResource, path)
		}
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return readCloser{Reader: bufio.NewReaderSize(f, 1<<20), close: f.Close}, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	return readCloser{Reader: zr, close: func() error {
		zr.Close()
		return f.Close()
	}}, nil
}

// ReadAll reads a whole source file.
func ReadAll(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }
