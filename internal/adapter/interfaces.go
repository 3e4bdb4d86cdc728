// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer used to reach remote sources.
//
// The primary abstraction is [Caller], which decouples the synchronization
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPCaller]) that keeps one resty client per source.
//
// Non-2xx responses are returned as [*RemoteCallError]. It carries the
// response body and matches [ErrRemoteCall] plus a status sentinel
// (e.g. [ErrConflict] for 409) through [errors.Is].
package adapter

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-case-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/caller_mock.go -package=mock

// Caller performs requests against a registered source.
type Caller interface {
	// Call sends a request to endpoint on source. endpoint is either a path
	// relative to the source location or an absolute URL. A non-2xx answer
	// yields a [*RemoteCallError].
	Call(ctx context.Context, source models.Source, endpoint, method string, opts CallOptions) (*Response, error)

	// Decode parses a JSON response body. A top-level JSON list is returned
	// under the "hydra:member" key; an empty body decodes to an empty map.
	Decode(source models.Source, resp *Response) (map[string]any, error)
}

// CallOptions carries the optional parts of a request.
type CallOptions struct {
	// Body is serialized as JSON. Ignored when Multipart is set.
	Body any
	// Headers are added to the source headers, overriding them on collision.
	Headers map[string]string
	// Query is appended to the URL.
	Query map[string]string
	// Multipart switches the request to multipart/form-data.
	Multipart *Multipart
}

// Multipart is a multipart/form-data request body.
type Multipart struct {
	Files  []MultipartFile
	Fields map[string]string
}

// MultipartFile is one file part of a multipart body.
type MultipartFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Response is a received remote answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}
