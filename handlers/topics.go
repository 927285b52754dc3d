package handlers

import (
	"net/http"
	"strings"

	"github.com/kevinaaaquil/devblog/backend/apperr"
	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"github.com/kevinaaaquil/devblog/backend/store"
	"go.mongodb.org/mongo-driver/bson"
)

// TopicsHandler serves topics. Mutations are mounted behind RequireRole(admin).
type TopicsHandler struct {
	DB TopicStore
}

type TopicRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=250"`
}

type TopicPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *TopicsHandler) List(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query(), store.TopicSchema)
	res, err := h.DB.ListTopics(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, res)
}

func (h *TopicsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	topic, err := h.DB.TopicWithBlogsByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if topic == nil {
		writeError(w, r, apperr.NotFound("Topic with id %s is not found", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, topic)
}

func (h *TopicsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TopicRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	topic := &models.Topic{Name: req.Name, Description: req.Description}
	if err := h.DB.InsertTopic(r.Context(), topic); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, topic)
}

func (h *TopicsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	topic, err := h.DB.TopicByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if topic == nil {
		writeError(w, r, apperr.NotFound("Topic with id %s is not found", id.Hex()))
		return
	}
	var patch TopicPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	req := TopicRequest{Name: topic.Name, Description: topic.Description}
	set := bson.M{}
	if patch.Name != nil {
		req.Name = strings.TrimSpace(*patch.Name)
		set["name"] = req.Name
	}
	if patch.Description != nil {
		req.Description = *patch.Description
		set["description"] = req.Description
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(set) == 0 {
		writeData(w, http.StatusOK, topic)
		return
	}
	updated, err := h.DB.UpdateTopic(r.Context(), id, set)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("Topic with id %s is not found", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, updated)
}

// Delete removes the topic. Blogs that referenced it are kept and lose the
// reference.
func (h *TopicsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	deleted, err := h.DB.DeleteTopic(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, apperr.NotFound("Topic with id %s is not found", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, emptyObject())
}

// Blogs lists the blogs tagged with the topic. GET /topics/{id}/blogs
func (h *TopicsHandler) Blogs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	topic, err := h.DB.TopicByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if topic == nil {
		writeError(w, r, apperr.NotFound("Topic with id %s is not found", id.Hex()))
		return
	}
	p := query.Parse(r.URL.Query(), store.BlogSchema)
	res, err := h.DB.ListBlogs(r.Context(), p, bson.M{"topics": id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, res)
}
