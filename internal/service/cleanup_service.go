package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"docpipe/internal/blobref"
	"docpipe/internal/config"
	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// CleanupInput is the DTO for clean_up requests. BlobURL may be a full
// blob URL or a bare incoming blob name.
type CleanupInput struct {
	StorageAccount string
	BlobURL        string
}

// CleanupService archives a processed source document and removes the
// intermediate blobs derived from it. Cleaning an already-clean
// document succeeds.
type CleanupService interface {
	CleanUp(ctx context.Context, input CleanupInput) error
}

type cleanupService struct {
	storage    port.ObjectStorage
	containers *config.ContainersConfig
}

// NewCleanupService creates a new CleanupService implementation.
func NewCleanupService(storage port.ObjectStorage, containers *config.ContainersConfig) CleanupService {
	return &cleanupService{storage: storage, containers: containers}
}

func (s *cleanupService) CleanUp(ctx context.Context, input CleanupInput) error {
	sourceName := blobref.SourceName(input.BlobURL)

	if err := s.archiveIncoming(ctx, input.StorageAccount, sourceName); err != nil {
		return err
	}
	return s.sweepDerived(ctx, input.StorageAccount, sourceName)
}

// archiveIncoming moves the source document from the incoming container
// to the processed container. An absent source blob means a previous
// clean-up already ran, which is not an error.
func (s *cleanupService) archiveIncoming(ctx context.Context, bucket, sourceName string) error {
	incomingKey := blobref.Join(s.containers.Incoming, sourceName)
	data, err := s.storage.Download(ctx, bucket, incomingKey)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			log.Printf("cleanupService.CleanUp: incoming blob %q already absent", incomingKey)
			return nil
		}
		return fmt.Errorf("reading incoming blob: %w", err)
	}

	processedKey := blobref.Join(s.containers.Processed, sourceName)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      bucket,
		Key:         processedKey,
		Body:        bytes.NewReader(data),
		ContentType: "application/octet-stream",
	}); err != nil {
		return fmt.Errorf("%w: archiving to %s: %v", domain.ErrUploadFailed, processedKey, err)
	}

	if err := s.storage.Delete(ctx, bucket, incomingKey); err != nil {
		return fmt.Errorf("deleting incoming blob: %w", err)
	}
	log.Printf("cleanupService.CleanUp: archived %q to container %q", sourceName, s.containers.Processed)
	return nil
}

// sweepDerived deletes blobs derived from the source document across
// the configured working containers. Containers are swept concurrently.
func (s *cleanupService) sweepDerived(ctx context.Context, bucket, sourceName string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, container := range s.containers.Cleanup {
		g.Go(func() error {
			prefix := blobref.Join(container, sourceName)
			keys, err := s.storage.List(ctx, bucket, prefix)
			if err != nil {
				return fmt.Errorf("listing %s: %w", prefix, err)
			}
			for _, key := range keys {
				if err := s.storage.Delete(ctx, bucket, key); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
					return fmt.Errorf("deleting %s: %w", key, err)
				}
			}
			if len(keys) > 0 {
				log.Printf("cleanupService.CleanUp: removed %d derived blob(s) under %q", len(keys), prefix)
			}
			return nil
		})
	}
	return g.Wait()
}
