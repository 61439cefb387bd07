package edge

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/registry"
)

// registerRequest is the body accepted by POST /admin/links.
type registerRequest struct {
	ContainerID int64  `json:"container_id"`
	MessageID   int64  `json:"message_id"`
	FileName    string `json:"file_name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
}

// linkResponse is the JSON shape returned for one registry entry, used by
// both the register and inspect admin endpoints and by cmd/streamlinkctl.
type linkResponse struct {
	Token       string `json:"token"`
	ContainerID int64  `json:"container_id"`
	MessageID   int64  `json:"message_id"`
	FileName    string `json:"file_name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// registerAdminRoutes wires the operator API consumed by
// cmd/streamlinkctl. It is unauthenticated by design: deployments expose it
// only on an internal listener, mirroring the teacher's Unix-socket-only
// default for its own control API.
func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/links", s.handleAdminRegister)
	mux.HandleFunc("GET /admin/links", s.handleAdminList)
	mux.HandleFunc("GET /admin/links/count", s.handleAdminCount)
	mux.HandleFunc("GET /admin/links/{token}", s.handleAdminGet)
	mux.HandleFunc("DELETE /admin/links/{token}", s.handleAdminDelete)
	mux.HandleFunc("DELETE /admin/links", s.handleAdminPurge)
}

func (s *Server) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	locator := blockio.Locator{ContainerID: req.ContainerID, MessageID: req.MessageID}
	token, err := s.registry.Register(locator, req.FileName, req.MimeType, req.Size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	entry, err := s.registry.Get(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toLinkResponse(entry))
}

func (s *Server) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.registry.Get(r.PathValue("token"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toLinkResponse(entry))
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.PathValue("token")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminPurge(w http.ResponseWriter, r *http.Request) {
	n := s.registry.DeleteAll()
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)
	entries := s.registry.List(skip, limit)
	out := make([]linkResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLinkResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// queryInt parses an integer query parameter, falling back to def if it is
// absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleAdminCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count": s.registry.Count()})
}

func toLinkResponse(e registry.Entry) linkResponse {
	resp := linkResponse{
		Token:       e.Token,
		ContainerID: e.Locator.ContainerID,
		MessageID:   e.Locator.MessageID,
		FileName:    e.FileName,
		MimeType:    e.MimeType,
		Size:        e.Size,
	}
	if !e.ExpiresAt.IsZero() {
		resp.ExpiresAt = e.ExpiresAt.Format(timeLayout)
	}
	return resp
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
