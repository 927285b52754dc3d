package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/devblog/backend/apperr"
	"github.com/kevinaaaquil/devblog/backend/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// multipartOverhead is the room left for form boundaries and headers on top
// of the file itself.
const multipartOverhead = 1 << 20

// Uploader receives photo uploads and hands them to the file store.
type Uploader struct {
	Files    service.FileStore
	MaxBytes int64
}

// receivePhoto reads the multipart "file" field, checks that it is an image
// within the size limit and stores it as <dir>/photo_<id><ext>. It returns
// the stored file name once the store has finished writing.
func (u *Uploader) receivePhoto(w http.ResponseWriter, r *http.Request, dir string, id primitive.ObjectID) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.MaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(u.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", apperr.BadRequest("File size can not be greater than %d bytes", u.MaxBytes)
		}
		return "", apperr.BadRequest("Please select a file to upload")
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", apperr.BadRequest("Please select a file to upload")
	}
	defer file.Close()

	if header.Size > u.MaxBytes {
		return "", apperr.BadRequest("File size can not be greater than %d bytes", u.MaxBytes)
	}
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", apperr.Server(err, "File failed to upload")
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperr.BadRequest("Please select an image file (eg. jpg, jpeg, png)")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", apperr.Server(err, "File failed to upload")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	name := "photo_" + id.Hex() + ext
	if err := u.Files.Save(r.Context(), path.Join(dir, name), file, header.Size, mtype.String()); err != nil {
		return "", apperr.Server(err, "File failed to upload")
	}
	return name, nil
}

// Serve streams a stored upload. GET /uploads/*
func (u *Uploader) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	body, contentType, err := u.Files.Open(r.Context(), key)
	if errors.Is(err, service.ErrFileNotFound) {
		writeError(w, r, apperr.NotFound("File not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	io.Copy(w, body)
}
