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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogsHandler struct {
	DB     BlogStore
	Photos *Uploader
}

type BlogRequest struct {
	Title    string               `json:"title" validate:"required,max=100"`
	Content  string               `json:"content" validate:"required"`
	Category string               `json:"category" validate:"required,oneof=front-end back-end full-stack"`
	Tags     []string             `json:"tags"`
	Topics   []primitive.ObjectID `json:"topics"`
	Likes    int                  `json:"likes" validate:"min=0"`
}

// BlogPatch holds the fields a blog update may change. Author is not among
// them.
type BlogPatch struct {
	Title    *string               `json:"title"`
	Content  *string               `json:"content"`
	Category *string               `json:"category"`
	Tags     *[]string             `json:"tags"`
	Topics   *[]primitive.ObjectID `json:"topics"`
	Likes    *int                  `json:"likes"`
}

func (h *BlogsHandler) List(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query(), store.BlogSchema)
	res, err := h.DB.ListBlogs(r.Context(), p, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, res)
}

func (h *BlogsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	blog, err := h.DB.BlogWithTopicsByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if blog == nil {
		writeError(w, r, apperr.NotFound("Blog with id of %s is not found", id.Hex()))
		return
	}
	writeData(w, http.StatusOK, blog)
}

func (h *BlogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req BlogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := h.check(r, req); err != nil {
		writeError(w, r, err)
		return
	}
	blog := &models.Blog{
		BlogContent: models.BlogContent{
			Title:    req.Title,
			Content:  req.Content,
			Category: req.Category,
			Tags:     req.Tags,
			Likes:    req.Likes,
		},
		Author: user.ID,
		Topics: req.Topics,
	}
	if err := h.DB.InsertBlog(r.Context(), blog); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, blog)
}

func (h *BlogsHandler) Update(w http.ResponseWriter, r *http.Request) {
	blog, err := h.ownedBlog(r, "update")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch BlogPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	req, set := mergeBlogPatch(blog, patch)
	if err := h.check(r, req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(set) == 0 {
		writeData(w, http.StatusOK, blog)
		return
	}
	updated, err := h.DB.UpdateBlog(r.Context(), blog.ID, set)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("Blog with id of %s is not found", blog.ID.Hex()))
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *BlogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	blog, err := h.ownedBlog(r, "delete")
	if err != nil {
		writeError(w, r, err)
		return
	}
	deleted, err := h.DB.DeleteBlog(r.Context(), blog.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, apperr.NotFound("Blog with id of %s is not found", blog.ID.Hex()))
		return
	}
	writeData(w, http.StatusOK, emptyObject())
}

// Search matches a tag exactly or runs a text search over title and
// content. GET /blogs/search?tag=|q=|keyword=
func (h *BlogsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tag := strings.TrimSpace(q.Get("tag"))
	keyword := strings.TrimSpace(q.Get("q"))
	if keyword == "" {
		keyword = strings.TrimSpace(q.Get("keyword"))
	}
	if tag == "" && keyword == "" {
		writeError(w, r, apperr.BadRequest("Please provide a keyword or tag to search"))
		return
	}
	blogs, err := h.DB.SearchBlogs(r.Context(), keyword, tag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := len(blogs)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: blogs})
}

// Photo replaces the blog cover. PUT /blogs/{id}/photo
func (h *BlogsHandler) Photo(w http.ResponseWriter, r *http.Request) {
	blog, err := h.ownedBlog(r, "update")
	if err != nil {
		writeError(w, r, err)
		return
	}
	name, err := h.Photos.receivePhoto(w, r, "blogs", blog.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.DB.UpdateBlog(r.Context(), blog.ID, bson.M{"cover": name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("Blog with id of %s is not found", blog.ID.Hex()))
		return
	}
	writeData(w, http.StatusOK, updated.Cover)
}

// ownedBlog loads the blog named by the id parameter and checks that the
// authenticated user wrote it.
func (h *BlogsHandler) ownedBlog(r *http.Request, op string) (*models.Blog, error) {
	user, err := actor(r)
	if err != nil {
		return nil, err
	}
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	blog, err := h.DB.BlogByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apperr.NotFound("Blog with id of %s is not found", id.Hex())
	}
	if !middleware.IsOwner(blog.Author, user.ID) {
		return nil, apperr.Forbidden("User with ID %s is not authorized to %s this blog", user.ID.Hex(), op)
	}
	return blog, nil
}

// check enforces the list limits, field validation and that every topic
// exists.
func (h *BlogsHandler) check(r *http.Request, req BlogRequest) error {
	if len(req.Tags) > models.MaxBlogTags {
		return apperr.BadRequest("Maximum tags for the blog is %d", models.MaxBlogTags)
	}
	if len(req.Topics) > models.MaxBlogTopics {
		return apperr.BadRequest("Maximum topics for the blog is %d", models.MaxBlogTopics)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	ids := uniqueIDs(req.Topics)
	if len(ids) == 0 {
		return nil
	}
	n, err := h.DB.CountTopics(r.Context(), ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return apperr.BadRequest("One or more topics do not exist")
	}
	return nil
}

// mergeBlogPatch applies patch over the stored blog. It returns the merged
// request for validation and the $set document of changed fields.
func mergeBlogPatch(blog *models.Blog, patch BlogPatch) (BlogRequest, bson.M) {
	req := BlogRequest{
		Title:    blog.Title,
		Content:  blog.Content,
		Category: blog.Category,
		Tags:     blog.Tags,
		Topics:   blog.Topics,
		Likes:    blog.Likes,
	}
	set := bson.M{}
	if patch.Title != nil {
		req.Title = strings.TrimSpace(*patch.Title)
		set["title"] = req.Title
	}
	if patch.Content != nil {
		req.Content = *patch.Content
		set["content"] = req.Content
	}
	if patch.Category != nil {
		req.Category = *patch.Category
		set["category"] = req.Category
	}
	if patch.Tags != nil {
		req.Tags = *patch.Tags
		if req.Tags == nil {
			req.Tags = []string{}
		}
		set["tags"] = req.Tags
	}
	if patch.Topics != nil {
		req.Topics = *patch.Topics
		if req.Topics == nil {
			req.Topics = []primitive.ObjectID{}
		}
		set["topics"] = req.Topics
	}
	if patch.Likes != nil {
		req.Likes = *patch.Likes
		set["likes"] = req.Likes
	}
	return req, set
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
