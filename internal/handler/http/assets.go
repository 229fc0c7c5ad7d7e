package http

import (
	"io"
	"net/http"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

// maxAssetSize caps the in-memory portion of an asset upload.
const maxAssetSize = 10 << 20 // 10 MiB

// uploadAsset accepts a multipart form with a single "file" part and
// stores it in the object store under the caller's namespace. The
// optional "target" form value selects the namespace: "avatar" stores
// the file as the caller's avatar, anything else as an item image.
//
// The handler only uploads the blob and returns its retrieval URL; the
// caller attaches the URL to a record in a separate request. A failed
// upload therefore never leaves a half-written record behind.
func (h *Handler) uploadAsset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAssetSize); err != nil {
		log.Err(err).Msg("invalid multipart form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("missing file part")
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Msg("reading uploaded file failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	asset := models.Asset{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	var url string
	if r.FormValue("target") == "avatar" {
		url, err = h.services.AssetService.UploadAvatar(r.Context(), ownerID, asset)
	} else {
		url, err = h.services.AssetService.UploadItemAsset(r.Context(), ownerID, asset)
	}
	if err != nil {
		writeError(w, r, err, "asset upload failed")
		return
	}

	utils.WriteJSON(w, models.AssetResponse{URL: url}, http.StatusCreated)
}
