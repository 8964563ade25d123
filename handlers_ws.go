package jslink

import "net/http"

// handleWs upgrades the inbound connection and runs a bridge session until
// the browser disconnects (spec §4.6, §6 "GET /api/ws").
func (server *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	server.handlerWg.Add(1)
	defer server.handlerWg.Done()

	if err := server.bridges.Serve(w, r); err != nil {
		server.Console.Err("ws upgrade failed", err)
	}
}
