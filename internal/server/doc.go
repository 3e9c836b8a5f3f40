// Package server exposes expression evaluation as a network service.
//
// A Service wraps an evaluator and a tree builder for one grammar, caches
// results, records them to the history store and exports Prometheus
// metrics. Server puts the Service behind three front ends:
//
//	POST /v1/evaluate     JSON request/response
//	GET  /v1/ws           websocket, {"type":"evaluate","payload":{...}}
//	pratt.v1.Evaluator    gRPC, google.protobuf.Struct messages
//
// plus GET /health, GET /metrics and the standard gRPC health service.
package server
