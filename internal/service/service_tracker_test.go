// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"crypto/sha512"
	"encoding/hex"
	"math"
	"testing"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(skipUnchanged bool) *syncTracker {
	tr := NewSyncTracker(config.Engine{SkipUnchanged: skipUnchanged}, logger.Nop()).(*syncTracker)
	tr.now = func() time.Time { return fixedNow.Add(450 * time.Millisecond) }
	return tr
}

func TestSyncTracker_Hash(t *testing.T) {
	tr := newTestTracker(false)

	a, err := tr.Hash(map[string]any{"@id": "/api/requests/1", "status": "new", "nested": map[string]any{"b": 1.0, "a": 2.0}})
	require.NoError(t, err)
	b, err := tr.Hash(map[string]any{"nested": map[string]any{"a": 2.0, "b": 1.0}, "status": "new", "@id": "/api/requests/1"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, sha512.Size384*2)

	sum := sha512.Sum384([]byte(`{"a":1}`))
	got, err := tr.Hash(map[string]any{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)

	c, err := tr.Hash(map[string]any{"@id": "/api/requests/1", "status": "done"})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSyncTracker_Hash_Invalid(t *testing.T) {
	_, err := newTestTracker(false).Hash(map[string]any{"n": math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestSyncTracker_Record(t *testing.T) {
	tr := newTestTracker(false)
	record := models.Synchronization{SourceID: "vrijbrp", ObjectID: "obj-1", Entity: "requests"}

	got, err := tr.Record(testContext(), record, map[string]any{"caseNumber": "Z-1"}, map[string]any{"@id": "/api/requests/1"})
	require.NoError(t, err)

	require.NotNil(t, got.LastSynced)
	require.NotNil(t, got.LastChecked)
	require.NotNil(t, got.SourceLastChanged)
	assert.Equal(t, fixedNow, *got.LastSynced)
	assert.Equal(t, fixedNow, *got.LastChecked)
	assert.Equal(t, fixedNow, *got.SourceLastChanged)

	want, err := tr.Hash(map[string]any{"@id": "/api/requests/1"})
	require.NoError(t, err)
	assert.Equal(t, want, got.Hash)
	assert.Equal(t, "vrijbrp", got.SourceID)
	assert.Equal(t, "obj-1", got.ObjectID)
}

func TestSyncTracker_Record_UnchangedResponse(t *testing.T) {
	earlier := fixedNow.Add(-time.Hour)
	body := map[string]any{"@id": "/api/requests/1", "status": "new"}

	tests := []struct {
		name              string
		skipUnchanged     bool
		wantLastSynced    time.Time
		wantSourceChanged time.Time
	}{
		{name: "timestamps always move", skipUnchanged: false, wantLastSynced: fixedNow, wantSourceChanged: fixedNow},
		{name: "skip unchanged keeps sync time", skipUnchanged: true, wantLastSynced: earlier, wantSourceChanged: earlier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(tt.skipUnchanged)
			hash, err := tr.Hash(body)
			require.NoError(t, err)

			record := models.Synchronization{
				ID: "sync-1", SourceID: "vrijbrp", ObjectID: "obj-1",
				LastSynced: &earlier, LastChecked: &earlier, SourceLastChanged: &earlier,
				Hash: hash,
			}

			got, err := tr.Record(testContext(), record, nil, body)
			require.NoError(t, err)

			assert.Equal(t, hash, got.Hash)
			assert.Equal(t, fixedNow, *got.LastChecked)
			assert.Equal(t, tt.wantLastSynced, *got.LastSynced)
			assert.Equal(t, tt.wantSourceChanged, *got.SourceLastChanged)
		})
	}
}

func TestSyncTracker_Record_NilBody(t *testing.T) {
	tr := newTestTracker(false)

	got, err := tr.Record(testContext(), models.Synchronization{ObjectID: "obj-1"}, nil, nil)
	require.NoError(t, err)

	want, err := tr.Hash(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, want, got.Hash)
}
