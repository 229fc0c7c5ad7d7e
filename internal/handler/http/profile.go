package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.services.ProfileService.GetProfile(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err, "reading profile failed")
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// the profile is always the caller's own, whatever the body says
	profile.UserID = ownerID

	saved, err := h.services.ProfileService.SaveProfile(r.Context(), profile)
	if err != nil {
		writeError(w, r, err, "saving profile failed")
		return
	}

	utils.WriteJSON(w, saved, http.StatusOK)
}
