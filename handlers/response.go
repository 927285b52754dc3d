package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kevinaaaquil/devblog/backend/apperr"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
	Token      string            `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList[T any](w http.ResponseWriter, res *query.Result[T]) {
	n := len(res.Items)
	pg := res.Pagination
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Pagination: &pg, Data: res.Items})
}

// writeError is the single place failures are turned into responses. Server
// errors are logged with their cause; the client only sees the message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)
	if ae.StatusCode >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", chimw.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	}
	writeJSON(w, ae.StatusCode, envelope{Success: false, Error: ae.Message})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}

// idParam parses a path parameter as an ObjectID. Ids that cannot exist are
// reported as missing resources.
func idParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Resource with id of %s is not found", raw)
	}
	return id, nil
}

// actor is the authenticated user. Only valid behind middleware.Protect.
func actor(r *http.Request) (*models.User, error) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, apperr.Unauthorized("Not authorized to access this route")
	}
	return u, nil
}

func emptyObject() map[string]any { return map[string]any{} }
