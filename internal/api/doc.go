// Package api is the HTTP client for the restaurant queue service.
//
// Every endpoint maitre uses gets one method on Client. Requests and
// responses are JSON. Each request carries a fresh X-Request-ID so server
// logs can be matched against maitre's own log file, and the transport is
// wrapped with otelhttp so calls show up as client spans when tracing is
// configured.
//
// # Errors
//
// Transport failures and undecodable bodies are returned as wrapped errors
// ("execute request: ...", "decode response: ..."). A response the server
// understood but refused, either by a 4xx/5xx status or by a success:false
// or status:"error" body, is a *RemoteError carrying the server's message.
// UserMessage extracts that message for display.
//
// # Payload shapes
//
// The list and search endpoints return camelCase entries decoded straight
// into queue.Entry. The mutation endpoints use snake_case bodies. The
// backend stores booleans in SQLite, so aiPowered arrives as 0/1 on list
// calls but as a real bool inside create and prediction replies.
package api
