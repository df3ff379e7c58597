package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/ishankhire/gt-meal-planning/internal/cloudwriter"
	"github.com/ishankhire/gt-meal-planning/internal/models"
)

// Archiver keeps a copy of every built digest for audit and replay.
type Archiver interface {
	Archive(ctx context.Context, payload *models.DigestPayload) error
}

// ObjectArchiver writes each digest as a JSON object under
// <prefix>/<target-date>/<id>.json through a cloud writer factory,
// typically S3.
type ObjectArchiver struct {
	factory cloudwriter.CloudWriterFactory
	bucket  string
	prefix  string
}

func NewObjectArchiver(factory cloudwriter.CloudWriterFactory, cfg models.ArchiveConfig) *ObjectArchiver {
	return &ObjectArchiver{
		factory: factory,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
	}
}

func (a *ObjectArchiver) Archive(_ context.Context, payload *models.DigestPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode digest for archive: %w", err)
	}

	key := path.Join(a.prefix, payload.TargetDate.Format("2006-01-02"), payload.ID+".json")
	w, err := a.factory.NewWriter(a.bucket, key)
	if err != nil {
		return fmt.Errorf("failed to open archive writer: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write digest archive: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to commit digest archive: %w", err)
	}
	return nil
}

// NopArchiver is used when archiving is disabled.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, *models.DigestPayload) error { return nil }
