package handlers

import (
	"net/http"

	"github.com/kevinaaaquil/devblog/backend/apperr"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/query"
	"github.com/kevinaaaquil/devblog/backend/store"
	"go.mongodb.org/mongo-driver/bson"
)

// UsersHandler serves public user profiles.
type UsersHandler struct {
	DB     UserStore
	Photos *Uploader
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query(), store.UserSchema)
	res, err := h.DB.ListUsers(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, res)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.DB.UserWithBlogsByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if u == nil {
		writeError(w, r, apperr.NotFound("No user with that ID %s", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, u)
}

// PhotoUpload replaces the user's photo. Users may only change their own.
func (h *UsersHandler) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !middleware.IsOwner(id, me.ID) {
		writeError(w, r, apperr.Forbidden("User with ID %s is not authorized to update this user", me.ID.Hex()))
		return
	}
	name, err := h.Photos.receivePhoto(w, r, "users", id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.DB.UpdateUser(r.Context(), id, bson.M{"photo": name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("No user with that ID %s", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, updated.Photo)
}
