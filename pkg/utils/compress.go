package utils

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
)

// Compress gzips data for a request body sent with Content-Encoding: gzip.
func Compress(data []byte) (bytes.Buffer, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return buf, errors.Wrap(err, "failed to gzip data")
	}
	if err := zw.Close(); err != nil {
		return buf, errors.Wrap(err, "failed to close gzip writer")
	}
	return buf, nil
}

// ErrTooLarge is returned by Decompress when the inflated stream exceeds its limit.
var ErrTooLarge = errors.New("decompressed data exceeds limit")

// Decompress reads a whole gzip stream, failing with ErrTooLarge once more than maxBytes come out of it.
func Decompress(r io.Reader, maxBytes int64) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gzip reader")
	}
	defer zr.Close()
	data, err := io.ReadAll(io.LimitReader(zr, maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read gzip content")
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "more than %d bytes", maxBytes)
	}
	return data, nil
}
