package jslink

import (
	"net/http"
)

// setupRoutes mounts the workbench's HTTP API under /api, plus the index
// page, static assets, and the WebSocket bridge upgrade. Structurally
// mirrors ooo.go's setupRoutes (explorer handler + TimeoutHandler-wrapped
// mutating routes), generalized from glob-key routes to the entity CRUD
// table in spec §6.
func (server *Server) setupRoutes() {
	api := server.Router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/folders", server.createFolder).Methods(http.MethodPost)
	api.HandleFunc("/folders", server.listFolders).Methods(http.MethodGet)
	api.HandleFunc("/folders/{id:[0-9]+}", server.getFolder).Methods(http.MethodGet)
	api.HandleFunc("/folders/{id:[0-9]+}", server.updateFolder).Methods(http.MethodPut)
	api.HandleFunc("/folders/{id:[0-9]+}", server.deleteFolder).Methods(http.MethodDelete)
	api.HandleFunc("/folders/{id:[0-9]+}/archive", server.archiveFolder).Methods(http.MethodPut)
	api.HandleFunc("/folders/{id:[0-9]+}/unarchive", server.unarchiveFolder).Methods(http.MethodPut)

	api.HandleFunc("/requests", server.createRequest).Methods(http.MethodPost)
	api.HandleFunc("/requests", server.listRequests).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id:[0-9]+}", server.getRequest).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id:[0-9]+}", server.updateRequest).Methods(http.MethodPut)
	api.HandleFunc("/requests/{id:[0-9]+}", server.deleteRequest).Methods(http.MethodDelete)
	api.HandleFunc("/requests/{id:[0-9]+}/archive", server.archiveRequest).Methods(http.MethodPut)
	api.HandleFunc("/requests/{id:[0-9]+}/unarchive", server.unarchiveRequest).Methods(http.MethodPut)

	api.HandleFunc("/environments", server.createEnvironment).Methods(http.MethodPost)
	api.HandleFunc("/environments", server.listEnvironments).Methods(http.MethodGet)
	api.HandleFunc("/environments/{id:[0-9]+}", server.getEnvironment).Methods(http.MethodGet)
	api.HandleFunc("/environments/{id:[0-9]+}", server.updateEnvironment).Methods(http.MethodPut)
	api.HandleFunc("/environments/{id:[0-9]+}", server.deleteEnvironment).Methods(http.MethodDelete)
	api.HandleFunc("/environments/{id:[0-9]+}/archive", server.archiveEnvironment).Methods(http.MethodPut)
	api.HandleFunc("/environments/{id:[0-9]+}/unarchive", server.unarchiveEnvironment).Methods(http.MethodPut)

	api.HandleFunc("/settings/network", server.getNetworkSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings/network", server.updateNetworkSettings).Methods(http.MethodPut)

	api.Handle("/execute", http.TimeoutHandler(
		http.HandlerFunc(server.execute), server.Deadline, deadlineMsg)).Methods(http.MethodPost)
	api.Handle("/execute-direct", http.TimeoutHandler(
		http.HandlerFunc(server.executeDirect), server.Deadline, deadlineMsg)).Methods(http.MethodPost)

	api.HandleFunc("/import", server.importCollection).Methods(http.MethodPost)

	server.Router.HandleFunc("/api/ws", server.handleWs).Methods(http.MethodGet)

	server.Router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	server.Router.PathPrefix("/static/").HandlerFunc(server.serveStatic)
}
