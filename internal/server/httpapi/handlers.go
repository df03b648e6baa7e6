// Package httpapi serves the admin user-directory over HTTP/JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"github.com/dmitrijs2005/saasadmin/internal/server/services"
)

// Directory is the business logic behind the endpoints.
type Directory interface {
	IsAdmin(p *identity.Principal) bool
	ListUsers(ctx context.Context, actor *identity.Principal) ([]directory.Account, directory.Stats, error)
	DeleteUser(ctx context.Context, actor *identity.Principal, userID string) error
}

var _ Directory = (*services.DirectoryService)(nil)

const maxBodyBytes = 1 << 20

const (
	msgUnauthorized = "Unauthorized"
	msgIDRequired   = "User ID required"
	msgMalformedID  = "Invalid user ID"
	msgSelfDeletion = "Cannot delete yourself"
	msgNotFound     = "User not found"
	msgBadBody      = "Invalid request body"
)

type handlers struct {
	dir    Directory
	logger logging.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, adminapi.ErrorResponse{Error: msg})
}

// errorStatus maps service errors to an HTTP status and a client message.
// Unclassified errors surface their own text.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, services.ErrUserIDRequired):
		return http.StatusBadRequest, msgIDRequired
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, msgMalformedID
	case errors.Is(err, common.ErrorSelfDeletion):
		return http.StatusForbidden, msgSelfDeletion
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, adminapi.HealthResponse{Status: "ok"})
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())

	accounts, stats, err := h.dir.ListUsers(r.Context(), actor)
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error(r.Context(), "list users failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, adminapi.NewListResponse(accounts, stats))
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	if !h.dir.IsAdmin(actor) {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req adminapi.DeleteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	if err := h.dir.DeleteUser(r.Context(), actor, req.UserID); err != nil {
		status, msg := errorStatus(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, adminapi.DeleteResponse{Success: true})
}

func (h *handlers) checkAdmin(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	w.Header().Set("Cache-Control", "private, max-age=60")
	writeJSON(w, http.StatusOK, adminapi.CheckAdminResponse{IsAdmin: h.dir.IsAdmin(actor)})
}
