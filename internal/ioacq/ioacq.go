/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package ioacq resolves an input source — stdin or a file — to a
// byte buffer, preferring memory-mapping for files and falling back to
// a streamed read when mapping is refused.
package ioacq

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Closer releases resources (an mmap region, if one was used)
// obtained by ReadFile. Calling it is always safe, even for
// buffers that own nothing.
type Closer func() error

var noop Closer = func() error { return nil }

// ReadStdin reads r (typically os.Stdin) to EOF using a grow-by-
// doubling buffer.
func ReadStdin(r io.Reader) ([]byte, error) {
	buf := make([]byte, 0, 64*1024)
	for {
		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), cap(buf)*2+64*1024)
			copy(grown, buf)
			buf = grown
		}
		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if err != nil {
			if err == io.EOF {
				return buf, nil
			}
			return buf, err
		}
	}
}

// ReadFile opens path and returns its contents, preferring a memory
// map and falling back to a streamed read when mapping fails (e.g. a
// named pipe, or a zero-length file). The caller must invoke Closer
// once done with the returned slice.
func ReadFile(log *slog.Logger, path string) ([]byte, Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil && fi.Size() > 0 {
		if m, err := mmap.Map(f, mmap.RDONLY, 0); err == nil {
			return []byte(m), func() error { return m.Unmap() }, nil
		} else if log != nil {
			log.Debug("mmap refused, falling back to streamed read", "path", path, "error", err)
		}
	}

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, noop, fmt.Errorf("read %s: %w", path, err)
	}
	return b, noop, nil
}
