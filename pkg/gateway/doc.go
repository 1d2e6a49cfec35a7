// Package gateway serves a single agent over HTTP and websocket.
//
// Routes:
//   - POST /act      {input, format_response, show_full_details} -> {text, error_kind, action, trace_id}
//   - POST /reset    clears memory
//   - GET  /history  interactions in memory, oldest first
//   - GET  /ws       one JSON-RPC request per message; methods act, reset, history
//   - GET  /metrics  when a metrics handler is configured
//   - GET  /healthz
//
// All agent calls go through one mutex, so concurrent clients see a
// consistent memory. When a shared secret is set, every route except
// /metrics and /healthz requires it in the X-Agentbuilder-Secret header.
package gateway
