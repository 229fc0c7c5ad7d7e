// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	filter := models.ItemFilter{
		OwnerID: ownerID,
		Name:    r.URL.Query().Get("name"),
	}

	snapshot, err := h.services.ItemService.Snapshot(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "listing items failed")
		return
	}

	utils.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.ItemService.CreateItem(r.Context(), ownerID, draft)
	if err != nil {
		writeError(w, r, err, "item creation failed")
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return
	}

	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	updated, err := h.services.ItemService.UpdateItem(r.Context(), ownerID, itemID, patch)
	if err != nil {
		writeError(w, r, err, "item update failed")
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return
	}

	if err := h.services.ItemService.DeleteItem(r.Context(), ownerID, itemID); err != nil {
		writeError(w, r, err, "item deletion failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// watchItems streams the owner's record set as server-sent events.
//
// The stream opens with one complete snapshot and re-sends a fresh
// snapshot every time the owner's records change. Each event fully
// replaces the previous one on the client; nothing is ever merged.
// The stream ends when the client disconnects.
func (h *Handler) watchItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error().Msg("response writer does not support streaming")
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	filter := models.ItemFilter{
		OwnerID: ownerID,
		Name:    r.URL.Query().Get("name"),
	}

	signals, cancel := h.services.ItemService.Subscribe(ownerID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// The first delivery happens before any change signal so that a new
	// subscriber starts from the complete current record set.
	if err := h.sendSnapshotEvent(w, r, flusher, filter); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Int64("owner_id", ownerID).Msg("watch stream closed by client")
			return
		case <-signals:
			if err := h.sendSnapshotEvent(w, r, flusher, filter); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendSnapshotEvent(w http.ResponseWriter, r *http.Request, flusher http.Flusher, filter models.ItemFilter) error {
	log := logger.FromRequest(r)

	snapshot, err := h.services.ItemService.Snapshot(r.Context(), filter)
	if err != nil {
		log.Err(err).Msg("reading snapshot for watch stream failed")
		return err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Err(err).Msg("marshalling snapshot for watch stream failed")
		return err
	}

	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()

	return nil
}
