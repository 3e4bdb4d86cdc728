// Package http implements the HTTP trigger API of the synchronization engine.
//
// It exposes route wiring, request handlers and middleware. Handlers start
// passes on demand, expose local objects with their synchronization records,
// ingest objects by natural key and flatten schema fragments. Request
// tracing, access logging, response compression and body integrity checks
// are handled here before requests reach the service layer.
package http
