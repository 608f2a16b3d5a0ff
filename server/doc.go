// Package server exposes hot seat sessions over HTTP.
//
// Routes (all under /api/sessions):
//
//	POST /                 start a session, body {"idea", "task", "advisors"}
//	GET  /{id}             current state
//	GET  /{id}/events      live events as Server-Sent Events
//	GET  /{id}/ws          live events over a WebSocket, accepts input and end messages
//	POST /{id}/input       resolve the pending prompt, body {"action", "text"}
//	POST /{id}/end         request the session to end
//	GET  /{id}/export      download as ?format=json|md
//
// Every session gets a Hub that turns orchestrator callbacks into Events
// and fans them out to subscribers. Late subscribers receive a replay of
// everything except streaming updates.
package server
