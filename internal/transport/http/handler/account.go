package handler

import (
	"net/http"

	"github.com/YogeshxSaini/bluestock/internal/application/account"
	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/transport/http/middleware"
)

// AccountHandler serves the caller's own account.
type AccountHandler struct {
	svc account.Service
}

func NewAccountHandler(svc account.Service) *AccountHandler { return &AccountHandler{svc: svc} }

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	acc, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile fetched successfully", acc)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	acc, err := h.svc.UpdateProfile(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile updated successfully", acc)
}

func (h *AccountHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.UpdatePhoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	acc, err := h.svc.UpdatePhone(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Phone number updated. Please verify the new number.", acc)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), uid, req); err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Password changed successfully", nil)
}
