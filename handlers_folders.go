package jslink

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/benitogf/jslink/db"
)

type folderPayload struct {
	Name string `json:"name"`
}

func (server *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var payload folderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	if payload.Name == "" {
		writeError(w, invalidInput("Name cannot be empty"))
		return
	}
	folder, err := server.Store.CreateFolder(payload.Name)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusCreated, folder)
}

func (server *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	folders, err := server.Store.ListFolders(includeArchived)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusOK, folders)
}

func (server *Server) getFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	folder, err := server.Store.GetFolder(id)
	if err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func (server *Server) updateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	var payload folderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	if payload.Name == "" {
		writeError(w, invalidInput("Name cannot be empty"))
		return
	}
	folder, err := server.Store.UpdateFolder(id, payload.Name)
	if err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func (server *Server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.DeleteFolder(id); err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) archiveFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.ArchiveFolder(id); err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	folder, err := server.Store.GetFolder(id)
	if err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func (server *Server) unarchiveFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.UnarchiveFolder(id); err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	folder, err := server.Store.GetFolder(id)
	if err != nil {
		writeError(w, folderLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func folderLookupError(err error) error {
	if err == db.ErrNotFound {
		return notFound("Folder not found")
	}
	return databaseError(err)
}

// pathID extracts and parses the "id" mux var present on every
// /api/<entity>/{id} route.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
