package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered destinations after each one,
// so the launch result is visible even when the process exits right after printing.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps destination unless it is nil or already wrapped.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch destination.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return destination
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data and flushes the destination when it supports flushing.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.destination == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableDestination, supportsFlush := flushingWriter.destination.(flusher); supportsFlush {
		return bytesWritten, flushableDestination.Flush()
	}

	return bytesWritten, nil
}
