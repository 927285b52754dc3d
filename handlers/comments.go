package handlers

import (
	"net/http"
	"strings"

	"github.com/kevinaaaquil/devblog/backend/apperr"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"github.com/kevinaaaquil/devblog/backend/store"
	"go.mongodb.org/mongo-driver/bson"
)

type CommentsHandler struct {
	DB CommentStore
}

type CommentRequest struct {
	Header string `json:"header" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
}

type CommentPatch struct {
	Header *string `json:"header"`
	Text   *string `json:"text"`
}

func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query(), store.CommentSchema)
	res, err := h.DB.ListComments(r.Context(), p, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, res)
}

// ForBlog lists the comments of one blog. GET /blogs/{id}/comments
func (h *CommentsHandler) ForBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blog(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := query.Parse(r.URL.Query(), store.CommentSchema)
	res, err := h.DB.ListComments(r.Context(), p, bson.M{"blog": blog.ID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, res)
}

func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.DB.CommentWithAuthorByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if c == nil {
		writeError(w, r, apperr.NotFound("Comment with id of %s is not found", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, c)
}

// Create adds a comment to a blog. POST /blogs/{id}/comments
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	blog, err := h.blog(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Header = strings.TrimSpace(req.Header)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	c := &models.Comment{
		CommentContent: models.CommentContent{Header: req.Header, Text: req.Text},
		Blog:           blog.ID,
		From:           user.ID,
	}
	if err := h.DB.InsertComment(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedComment(r, "update")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch CommentPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	req := CommentRequest{Header: c.Header, Text: c.Text}
	set := bson.M{}
	if patch.Header != nil {
		req.Header = strings.TrimSpace(*patch.Header)
		set["header"] = req.Header
	}
	if patch.Text != nil {
		req.Text = *patch.Text
		set["text"] = req.Text
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(set) == 0 {
		writeData(w, http.StatusOK, c)
		return
	}
	updated, err := h.DB.UpdateComment(r.Context(), c.ID, set)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("Comment with id of %s is not found", c.ID.Hex()))
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedComment(r, "delete")
	if err != nil {
		writeError(w, r, err)
		return
	}
	deleted, err := h.DB.DeleteComment(r.Context(), c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, apperr.NotFound("Comment with id of %s is not found", c.ID.Hex()))
		return
	}
	writeData(w, http.StatusOK, emptyObject())
}

func (h *CommentsHandler) blog(r *http.Request) (*models.Blog, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	blog, err := h.DB.BlogByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apperr.NotFound("Blog with ID %s is not found", id.Hex())
	}
	return blog, nil
}

func (h *CommentsHandler) ownedComment(r *http.Request, op string) (*models.Comment, error) {
	user, err := actor(r)
	if err != nil {
		return nil, err
	}
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	c, err := h.DB.CommentByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Comment with id of %s is not found", id.Hex())
	}
	if !middleware.IsOwner(c.From, user.ID) {
		return nil, apperr.Forbidden("User with ID %s is not authorized to %s this comment", user.ID.Hex(), op)
	}
	return c, nil
}
