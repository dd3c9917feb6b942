package handler

import (
	"net/http"

	"github.com/YogeshxSaini/bluestock/internal/application/auth"
	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/transport/http/middleware"
)

// AuthHandler handles registration, login and the verification flows.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusCreated, "User registered successfully. Please verify your email and mobile number.", res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	acc, err := h.svc.VerifyEmail(r.Context(), q.Get("userId"), q.Get("token"))
	if err != nil {
		writeServiceError(w, err, true)
		return
	}
	writeSuccess(w, http.StatusOK, "Email verified successfully", map[string]interface{}{
		"email":             acc.Email,
		"is_email_verified": acc.IsEmailVerified,
	})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	res, err := h.svc.ResendVerification(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Verification email sent", res)
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SendOTP(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "OTP sent successfully", res)
}

func (h *AuthHandler) VerifyMobile(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyMobileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	acc, err := h.svc.VerifyMobile(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, true)
		return
	}
	writeSuccess(w, http.StatusOK, "Mobile number verified successfully", map[string]interface{}{
		"mobile_no":          acc.MobileNo,
		"is_mobile_verified": acc.IsMobileVerified,
	})
}
