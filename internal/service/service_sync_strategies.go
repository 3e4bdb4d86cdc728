package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/schema"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/tidwall/gjson"
)

// caseDocumentsPath is the document list of a case payload.
const caseDocumentsPath = "embedded.zaakinformatieobjecten"

// documentsEventField carries the document list on the document event.
const documentsEventField = "documents"

// ── discovery ───────────────────────────────────────────────────────────────

// DiscoveryFilter returns the filter selecting the unsynchronized objects of
// h created before the given bound.
func DiscoveryFilter(h models.HandlerConfig, before time.Time) models.Filter {
	f := models.Filter{SchemaRefs: []string{h.Schema}}.
		Where(models.FieldSelfSynchronizations, models.OpIsNull, nil)

	if types := config.SplitList(h.CaseTypes); len(types) > 0 {
		f = f.Where(h.TypeField, models.OpIn, types)
	} else if h.TypePrefix != "" {
		f = f.Where(h.TypeField, models.OpLike, h.TypePrefix+"%")
	}

	return f.Where(models.FieldSelfDateCreated, models.OpBefore, before)
}

func (s *syncService) discover(ctx context.Context, h models.HandlerConfig, startedAt time.Time, limit uint64) ([]candidate, error) {
	before, err := config.ParseTimeModifier(h.BeforeTimeModifier, startedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	filter := DiscoveryFilter(h, before)
	filter.Limit = limit

	found, err := s.objects.FindObjects(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error discovering candidates: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "syncService.discover").
		Time("before", before).
		Int("total", found.Total).
		Int("results", len(found.Results)).
		Msg("candidates discovered")

	candidates := make([]candidate, len(found.Results))
	for i, obj := range found.Results {
		candidates[i] = candidate{object: obj}
	}
	return candidates, nil
}

// ── resources ───────────────────────────────────────────────────────────────

// resolveResources looks up the source, mapping and schema of h. A missing
// reference is an ErrConfiguration naming every missing one.
func (s *syncService) resolveResources(h models.HandlerConfig) (models.Source, models.Mapping, models.Schema, error) {
	source, okSource := s.resources.FindSource(h.Source)
	mapping, okMapping := s.resources.FindMapping(h.Mapping)
	sch, okSchema := s.resources.FindSchema(h.Schema)

	var missing []string
	if !okSource {
		missing = append(missing, fmt.Sprintf("source %q", h.Source))
	}
	if !okMapping {
		missing = append(missing, fmt.Sprintf("mapping %q", h.Mapping))
	}
	if !okSchema {
		missing = append(missing, fmt.Sprintf("schema %q", h.Schema))
	}
	if len(missing) > 0 {
		return source, mapping, sch, fmt.Errorf("%w: could not find %s", ErrConfiguration, strings.Join(missing, ", "))
	}

	return source, mapping, sch, nil
}

// matchesType reports whether payload carries a type handled by h.
func matchesType(h models.HandlerConfig, payload map[string]any) (string, bool) {
	types := config.SplitList(h.CaseTypes)
	if len(types) == 0 && h.TypePrefix == "" {
		return "", true
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	value := gjson.GetBytes(raw, h.TypeField).String()

	if len(types) > 0 {
		return value, slices.Contains(types, value)
	}
	return value, strings.HasPrefix(value, h.TypePrefix)
}

func remoteRef(body map[string]any) string {
	for _, key := range []string{"@id", "id", "_id"} {
		switch v := body[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// findOrCreateRecord returns the record linking objectID to source, or a new
// one when there is none yet.
func (s *syncService) findOrCreateRecord(ctx context.Context, objectID string, source models.Source, entity string) (models.Synchronization, error) {
	record, err := s.syncs.FindSynchronization(ctx, objectID, source.Reference)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, store.ErrSynchronizationNotFound) {
		return models.Synchronization{}, fmt.Errorf("error loading synchronization: %w", err)
	}

	return models.Synchronization{
		SourceID: source.Reference,
		ObjectID: objectID,
		Entity:   entity,
	}, nil
}

// ── dispatch ────────────────────────────────────────────────────────────────

func (s *syncService) dispatchObject(ctx context.Context, h models.HandlerConfig, obj models.Object) models.CandidateOutcome {
	log := logger.FromContext(ctx)
	outcome := models.CandidateOutcome{ObjectID: obj.ID}

	payload := obj.Payload()
	if err := s.bus.Publish(ctx, h.Topic, payload); err != nil {
		log.Err(err).Str("func", "syncService.dispatchObject").Str("object_id", obj.ID).Str("topic", h.Topic).Msg("error publishing object")
		outcome.Status = models.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	if h.DocumentTopic == "" {
		outcome.Status = models.OutcomePublished
		return outcome
	}

	if docs := caseDocuments(payload, h.DocumentsField); len(docs) > 0 {
		event := maps.Clone(payload)
		event[documentsEventField] = docs
		if err := s.bus.Publish(ctx, h.DocumentTopic, event); err != nil {
			log.Err(err).Str("func", "syncService.dispatchObject").Str("object_id", obj.ID).Str("topic", h.DocumentTopic).Msg("error publishing documents")
			outcome.Status = models.OutcomeFailed
			outcome.Error = err.Error()
			return outcome
		}
	}

	outcome.Status = models.OutcomePublished
	return outcome
}

// caseDocuments returns the first non-empty document list of payload at
// the case documents path or at the dot path field.
func caseDocuments(payload map[string]any, field string) []any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	for _, path := range []string{caseDocumentsPath, field} {
		if path == "" {
			continue
		}
		if docs, ok := gjson.GetBytes(raw, path).Value().([]any); ok && len(docs) > 0 {
			return docs
		}
	}
	return nil
}

// ── push ────────────────────────────────────────────────────────────────────

func (s *syncService) pushObject(ctx context.Context, h models.HandlerConfig, obj models.Object) models.CandidateOutcome {
	outcome, _ := s.push(ctx, h, obj)
	return outcome
}

// push maps obj, uploads its documents, sends it to the source and records
// the synchronization. Nothing is written when any step before recording
// fails.
func (s *syncService) push(ctx context.Context, h models.HandlerConfig, obj models.Object) (models.CandidateOutcome, error) {
	log := logger.FromContext(ctx).With().Str("object_id", obj.ID).Logger()
	ctx = log.WithContext(ctx)

	unlock := s.lock(obj.ID)
	defer unlock()

	outcome := models.CandidateOutcome{ObjectID: obj.ID}
	fail := func(err error, msg string) (models.CandidateOutcome, error) {
		var callErr *adapter.RemoteCallError
		event := log.Err(err).Str("func", "syncService.push")
		if errors.As(err, &callErr) {
			event = event.Int("status", callErr.Status).Str("body", callErr.Body)
		}
		event.Msg(msg)

		outcome.Status = models.OutcomeFailed
		outcome.Error = err.Error()
		return outcome, err
	}

	input := obj.Payload()
	if value, ok := matchesType(h, input); !ok {
		return fail(fmt.Errorf("%w: %q by handler %q", ErrTypeMismatch, value, h.Name), "object type not handled")
	}

	source, mapping, sch, err := s.resolveResources(h)
	if err != nil {
		return fail(err, "handler resources missing")
	}

	if sch.Definition != nil {
		flattened, err := schema.Flatten(sch.Definition)
		if err != nil {
			return fail(err, "error flattening schema definition")
		}
		self, _ := input["_self"].(map[string]any)
		self["schema"] = map[string]any{"ref": obj.SchemaRef, "definition": flattened}
	}

	mapped, err := s.mapper.Map(mapping, input)
	if err != nil {
		return fail(err, "error mapping object")
	}

	if docs, ok := mapped[h.DocumentsField].([]any); ok {
		refs, docOutcomes := s.documents.SyncDocuments(ctx, source, h.DocumentEndpoint, docs)
		mapped[h.DocumentsField] = refs
		outcome.Documents = docOutcomes
	}

	resp, err := s.caller.Call(ctx, source, h.Endpoint, http.MethodPost, adapter.CallOptions{
		Body:    mapped,
		Headers: source.Headers,
	})
	if err != nil {
		return fail(err, "error pushing object")
	}

	body, err := s.caller.Decode(source, resp)
	if err != nil {
		return fail(err, "error decoding push response")
	}
	outcome.RemoteRef = remoteRef(body)

	record, err := s.findOrCreateRecord(ctx, obj.ID, source, h.Entity)
	if err != nil {
		return fail(err, "error loading synchronization")
	}

	record, err = s.tracker.Record(ctx, record, mapped, body)
	if err != nil {
		return fail(err, "error recording synchronization")
	}

	if _, _, err = s.objects.SaveObjectWithSynchronization(ctx, obj, record); err != nil {
		return fail(err, "error saving synchronization")
	}

	log.Info().Str("func", "syncService.push").Str("remote_ref", outcome.RemoteRef).Msg("object pushed")
	outcome.Status = models.OutcomeSynced
	return outcome, nil
}

// ── pull ────────────────────────────────────────────────────────────────────

type pullContext struct {
	source  models.Source
	mapping models.Mapping
	schema  models.Schema
}

// fetch reads the remote collection of h and turns every item into a
// candidate. Items that are not objects are dropped with a warning.
func (s *syncService) fetch(ctx context.Context, h models.HandlerConfig, limit uint64) ([]candidate, error) {
	log := logger.FromContext(ctx)

	source, mapping, sch, err := s.resolveResources(h)
	if err != nil {
		return nil, err
	}
	pc := &pullContext{source: source, mapping: mapping, schema: sch}

	resp, err := s.caller.Call(ctx, source, h.Endpoint, http.MethodGet, adapter.CallOptions{Headers: source.Headers})
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", h.Endpoint, err)
	}

	body, err := s.caller.Decode(source, resp)
	if err != nil {
		return nil, err
	}

	items, _ := body[adapter.MemberKey].([]any)
	candidates := make([]candidate, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			log.Warn().Str("func", "syncService.fetch").Int("index", i).Msgf("item is %T, skipped", item)
			continue
		}
		if limit > 0 && uint64(len(candidates)) >= limit {
			break
		}
		candidates = append(candidates, candidate{item: m, pull: pc})
	}

	return candidates, nil
}

// pullItem hydrates one remote item and records its synchronization in the
// same transaction.
func (s *syncService) pullItem(ctx context.Context, h models.HandlerConfig, pc *pullContext, item map[string]any) models.CandidateOutcome {
	log := logger.FromContext(ctx).With().Str("remote_ref", remoteRef(item)).Logger()
	ctx = log.WithContext(ctx)

	outcome := models.CandidateOutcome{RemoteRef: remoteRef(item)}
	fail := func(err error, msg string) models.CandidateOutcome {
		log.Err(err).Str("func", "syncService.pullItem").Msg(msg)
		outcome.Status = models.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	input := maps.Clone(item)
	if fragment, ok := item["schema"].(map[string]any); ok {
		flattened, err := schema.Flatten(fragment)
		if err != nil {
			return fail(err, "error flattening item schema")
		}
		input["schema"] = flattened
	}

	mapped, err := s.mapper.Map(pc.mapping, input)
	if err != nil {
		return fail(err, "error mapping item")
	}

	// held through the save, or two items with an unseen key both insert
	unlockKey := s.hydrator.Lock(h.Schema, pc.schema.IdentifierField, mapped[pc.schema.IdentifierField])
	defer unlockKey()

	obj, found, err := s.hydrator.Prepare(ctx, mapped, h.Schema, pc.schema.IdentifierField)
	if err != nil {
		return fail(err, "error hydrating item")
	}
	outcome.ObjectID = obj.ID

	unlock := s.lock(obj.ID)
	defer unlock()

	record := models.Synchronization{SourceID: pc.source.Reference, ObjectID: obj.ID, Entity: h.Entity}
	if found {
		if record, err = s.findOrCreateRecord(ctx, obj.ID, pc.source, h.Entity); err != nil {
			return fail(err, "error loading synchronization")
		}
	}

	if record, err = s.tracker.Record(ctx, record, mapped, item); err != nil {
		return fail(err, "error recording synchronization")
	}

	if _, _, err = s.objects.SaveObjectWithSynchronization(ctx, obj, record); err != nil {
		return fail(err, "error saving hydrated item")
	}

	log.Info().Str("func", "syncService.pullItem").Str("object_id", obj.ID).Bool("existing", found).Msg("item pulled")
	outcome.Status = models.OutcomeSynced
	return outcome
}
