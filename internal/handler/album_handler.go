package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"artschool-backend/internal/model"
	"artschool-backend/internal/service"
	"artschool-backend/pkg/apierror"
)

type AlbumHandler struct {
	service       *service.AlbumService
	maxUploadSize int64
}

func NewAlbumHandler(service *service.AlbumService, maxUploadSize int64) *AlbumHandler {
	return &AlbumHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.service.ListAlbums(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AlbumList{Albums: albums})
}

func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	album, err := h.service.CreateAlbum(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, album)
}

func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "albumID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteAlbum(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AlbumHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	albumID, err := idParam(r, "albumID")
	if err != nil {
		writeError(w, err)
		return
	}

	photos, err := h.service.ListPhotos(r.Context(), albumID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.PhotoList{Photos: photos})
}

// UploadPhoto accepts one multipart file part named "file". The whole request
// body is capped by MaxBytesReader so an oversized upload fails early.
func (h *AlbumHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	albumID, err := idParam(r, "albumID")
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	defer r.Body.Close()

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, apierror.BadRequest("multipart form data expected", err.Error()))
		return
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "upload exceeds the size limit", strconv.FormatInt(h.maxUploadSize, 10), http.StatusRequestEntityTooLarge))
				return
			}
			writeError(w, apierror.BadRequest("no file part found in upload", ""))
			return
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		photo, uploadErr := h.service.UploadPhoto(r.Context(), albumID, part.FileName(), part)
		_ = part.Close()
		if uploadErr != nil {
			var maxErr *http.MaxBytesError
			if errors.As(uploadErr, &maxErr) {
				writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "upload exceeds the size limit", strconv.FormatInt(h.maxUploadSize, 10), http.StatusRequestEntityTooLarge))
				return
			}
			writeError(w, uploadErr)
			return
		}

		writeSuccess(w, http.StatusCreated, photo)
		return
	}
}

func (h *AlbumHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	albumID, err := idParam(r, "albumID")
	if err != nil {
		writeError(w, err)
		return
	}

	photoID, err := idParam(r, "photoID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeletePhoto(r.Context(), albumID, photoID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServePhoto streams the original image with range support.
func (h *AlbumHandler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	albumID, err := idParam(r, "albumID")
	if err != nil {
		writeError(w, err)
		return
	}

	photoID, err := idParam(r, "photoID")
	if err != nil {
		writeError(w, err)
		return
	}

	file, info, photo, err := h.service.GetPhotoFile(r.Context(), albumID, photoID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	if photo.MimeType != "" {
		w.Header().Set("Content-Type", photo.MimeType)
	}
	http.ServeContent(w, r, photo.OriginalName, info.ModTime(), file)
}

// ServeThumbnail streams a cached JPEG thumbnail. The optional "size" query
// parameter selects the longest edge in pixels.
func (h *AlbumHandler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	albumID, err := idParam(r, "albumID")
	if err != nil {
		writeError(w, err)
		return
	}

	photoID, err := idParam(r, "photoID")
	if err != nil {
		writeError(w, err)
		return
	}

	size := 256
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil || parsed <= 0 || parsed > 2048 {
			writeError(w, apierror.BadRequest("size must be between 1 and 2048", raw))
			return
		}
		size = parsed
	}

	file, info, err := h.service.GetThumbnail(r.Context(), albumID, photoID, size)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
