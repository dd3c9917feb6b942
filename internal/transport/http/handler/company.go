package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/YogeshxSaini/bluestock/internal/application/company"
	"github.com/YogeshxSaini/bluestock/internal/application/media"
	"github.com/YogeshxSaini/bluestock/internal/domain"
)

// multipartSlack covers the form boundaries and headers around the file part.
const multipartSlack = 1 << 20

// CompanyHandler serves the caller's company profile and its images.
type CompanyHandler struct {
	svc         company.Service
	maxFileSize int64
}

func NewCompanyHandler(svc company.Service, maxFileSize int64) *CompanyHandler {
	return &CompanyHandler{svc: svc, maxFileSize: maxFileSize}
}

func (h *CompanyHandler) Register(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.RegisterCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.Register(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusCreated, "Company registered successfully", c)
}

func (h *CompanyHandler) Profile(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Company profile fetched successfully", c)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.Update(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Company profile updated successfully", c)
}

func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.MediaLogo)
}

func (h *CompanyHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.MediaBanner)
}

func (h *CompanyHandler) upload(w http.ResponseWriter, r *http.Request, kind string) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartSlack)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("file exceeds the %d byte limit", h.maxFileSize))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.svc.UploadImage(r.Context(), media.UploadInput{
		Reader:   f,
		Filename: hdr.Filename,
		Size:     hdr.Size,
		OwnerID:  uid,
		Kind:     kind,
	})
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	msg := "Logo uploaded successfully"
	if kind == domain.MediaBanner {
		msg = "Banner uploaded successfully"
	}
	writeSuccess(w, http.StatusOK, msg, res)
}

func (h *CompanyHandler) Media(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	items, err := h.svc.ListMedia(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err, false)
		return
	}
	writeSuccess(w, http.StatusOK, "Media fetched successfully", items)
}
