package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkveo/internal/cache"
	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
)

type createFolderRequest struct {
	Name string `json:"name"`
}

type foldersResponse struct {
	Folders []domain.Folder `json:"folders"`
}

func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, foldersResponse{Folders: d.Core.Folders()})
	}
}

func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFolderRequest
		if err := decode(r, &req); err != nil {
			writeError(w, d, err, cache.MsgFolderFailed)
			return
		}

		f, err := d.Core.CreateFolder(r.Context(), req.Name)
		if err != nil {
			writeError(w, d, err, cache.MsgFolderFailed)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}
