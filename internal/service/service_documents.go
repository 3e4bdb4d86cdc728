package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

const (
	documentFileField     = "file"
	documentFilenameField = "filename"
	documentRefField      = "@id"
)

type documentSyncer struct {
	caller      adapter.Caller
	concurrency int

	logger *logger.Logger
}

// NewDocumentSyncer constructs a DocumentSyncer uploading at most
// concurrency documents of one payload at a time.
func NewDocumentSyncer(caller adapter.Caller, concurrency int, logger *logger.Logger) DocumentSyncer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &documentSyncer{
		caller:      caller,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (d *documentSyncer) SyncDocuments(ctx context.Context, source models.Source, endpoint string, documents []any) ([]any, []models.DocumentOutcome) {
	outcomes := make([]models.DocumentOutcome, len(documents))

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for i, doc := range documents {
		g.Go(func() error {
			outcomes[i] = d.syncDocument(ctx, source, endpoint, i, doc)
			return nil
		})
	}
	_ = g.Wait()

	refs := make([]any, 0, len(documents))
	for _, o := range outcomes {
		if o.Error == "" {
			refs = append(refs, string(o.Ref))
		}
	}

	return refs, outcomes
}

// syncDocument uploads one document. Failures are reported in the outcome.
func (d *documentSyncer) syncDocument(ctx context.Context, source models.Source, endpoint string, index int, doc any) models.DocumentOutcome {
	log := logger.FromContext(ctx)
	outcome := models.DocumentOutcome{Index: index}

	ref, err := d.upload(ctx, source, endpoint, doc, &outcome)
	if err != nil {
		var callErr *adapter.RemoteCallError
		event := log.Err(err).
			Str("func", "documentSyncer.syncDocument").
			Str("source", source.Reference).
			Int("index", index).
			Str("filename", outcome.Filename)
		if errors.As(err, &callErr) {
			event = event.Int("status", callErr.Status).Str("body", callErr.Body)
		}
		event.Msg("document skipped")

		outcome.Error = err.Error()
		return outcome
	}

	outcome.Ref = ref
	return outcome
}

func (d *documentSyncer) upload(ctx context.Context, source models.Source, endpoint string, doc any, outcome *models.DocumentOutcome) (models.DocumentRef, error) {
	fields, ok := doc.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: entry is %T, not an object", ErrDocumentProcessing, doc)
	}

	encoded, _ := fields[documentFileField].(string)
	if strings.TrimSpace(encoded) == "" {
		return "", fmt.Errorf("%w: missing %q", ErrDocumentProcessing, documentFileField)
	}

	content, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %w", ErrDocumentProcessing, err)
	}

	mtype := mimetype.Detect(content)
	outcome.MimeType = mtype.String()

	filename, _ := fields[documentFilenameField].(string)
	if filename == "" {
		if mtype.Extension() == "" {
			return "", fmt.Errorf("%w: no file extension known for %s", ErrDocumentProcessing, mtype.String())
		}
		filename = documentFileField + mtype.Extension()
	}
	outcome.Filename = filename

	form := make(map[string]string)
	for k, v := range fields {
		if k == documentFileField || k == documentFilenameField {
			continue
		}
		switch val := v.(type) {
		case string:
			form[k] = val
		case float64, bool, int, int64:
			form[k] = fmt.Sprint(val)
		}
	}

	resp, err := d.caller.Call(ctx, source, endpoint, http.MethodPost, adapter.CallOptions{
		Headers: source.Headers,
		Multipart: &adapter.Multipart{
			Files: []adapter.MultipartFile{{
				Field:       documentFileField,
				Filename:    filename,
				ContentType: mtype.String(),
				Content:     content,
			}},
			Fields: form,
		},
	})
	if err != nil {
		return "", err
	}

	body, err := d.caller.Decode(source, resp)
	if err != nil {
		return "", err
	}

	ref, _ := body[documentRefField].(string)
	if ref == "" {
		return "", fmt.Errorf("%w: response has no %q", ErrDocumentProcessing, documentRefField)
	}

	return models.DocumentRef(ref), nil
}
