package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
)

type syncTracker struct {
	skipUnchanged bool
	now           func() time.Time

	logger *logger.Logger
}

// NewSyncTracker constructs a SyncTracker. With cfg.SkipUnchanged a response
// whose hash equals the recorded one only refreshes LastChecked.
func NewSyncTracker(cfg config.Engine, logger *logger.Logger) SyncTracker {
	return &syncTracker{
		skipUnchanged: cfg.SkipUnchanged,
		now:           time.Now,
		logger:        logger,
	}
}

func (t *syncTracker) Hash(body any) (string, error) {
	canonical, err := utils.CanonicalJSON(body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return utils.HashHex(canonical), nil
}

func (t *syncTracker) Record(ctx context.Context, record models.Synchronization, pushedPayload, responseBody map[string]any) (models.Synchronization, error) {
	log := logger.FromContext(ctx)

	if responseBody == nil {
		responseBody = map[string]any{}
	}

	hash, err := t.Hash(responseBody)
	if err != nil {
		log.Err(err).Str("func", "syncTracker.Record").Str("object_id", record.ObjectID).Msg("error hashing response body")
		return record, err
	}

	now := t.now().UTC().Truncate(time.Second)

	if t.skipUnchanged && !record.IsNew() && record.Hash == hash {
		record.LastChecked = &now
		log.Debug().
			Str("func", "syncTracker.Record").
			Str("object_id", record.ObjectID).
			Str("source", record.SourceID).
			Msg("remote content unchanged")
		return record, nil
	}

	record.Hash = hash
	record.LastSynced = &now
	record.LastChecked = &now
	record.SourceLastChanged = &now

	log.Debug().
		Str("func", "syncTracker.Record").
		Str("object_id", record.ObjectID).
		Str("source", record.SourceID).
		Int("pushed_fields", len(pushedPayload)).
		Str("hash", hash).
		Msg("synchronization recorded")

	return record, nil
}
