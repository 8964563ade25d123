package jslink

import (
	"io"
	"net/http"

	"github.com/benitogf/jslink/importers"
)

// importCollection accepts a multipart file upload of a Postman, Thunder
// Client, or Insomnia export. With ?preview=true it returns a summary
// without writing anything; otherwise it saves the parsed folders and
// requests (spec §6 "POST /api/import?preview=bool").
func (server *Server) importCollection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, invalidInput("Invalid multipart upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, invalidInput("Missing file field"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, invalidInput("Failed to read upload"))
		return
	}

	folders, err := importers.ParseFile(content, header.Filename)
	if err != nil {
		writeError(w, invalidInput(err.Error()))
		return
	}

	if r.URL.Query().Get("preview") == "true" {
		respondJSON(w, http.StatusOK, struct {
			Collections []importers.CollectionSummary `json:"collections"`
		}{importers.Summarize(folders)})
		return
	}

	message, err := importers.SaveImport(server.Store, folders)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{message})
}
