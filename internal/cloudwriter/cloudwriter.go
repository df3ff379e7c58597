package cloudwriter

import (
	"os"
	"path/filepath"
)

// CloudWriter buffers one object's bytes and commits them on Close. Nothing
// is visible at the destination until Close returns nil.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

// CloudWriterFactory creates writers bound to a bucket and object path. The
// digest archiver and the export command share implementations: S3 when a
// bucket is configured, the local filesystem otherwise.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// LocalWriterFactory writes objects under a base directory, treating the
// bucket as a subdirectory. Used for local exports and development runs.
type LocalWriterFactory struct {
	baseDir string
}

func NewLocalWriterFactory(baseDir string) *LocalWriterFactory {
	return &LocalWriterFactory{baseDir: baseDir}
}

func (f *LocalWriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	fullPath := filepath.Join(f.baseDir, bucket, objectPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	return &localWriter{file: file}, nil
}

type localWriter struct {
	file *os.File
}

func (w *localWriter) Write(data []byte) (int, error) { return w.file.Write(data) }
func (w *localWriter) Close() error                   { return w.file.Close() }
