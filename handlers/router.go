package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/models"
)

// Routes bundles the handlers mounted under /api/v1.
type Routes struct {
	Auth     *AuthHandler
	Blogs    *BlogsHandler
	Topics   *TopicsHandler
	Comments *CommentsHandler
	Users    *UsersHandler
	Uploads  *Uploader
	Protect  func(http.Handler) http.Handler
}

// Mount registers every route on r.
func (rt *Routes) Mount(r chi.Router) {
	r.Get("/uploads/*", rt.Uploads.Serve)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.Auth.Register)
			r.Post("/login", rt.Auth.Login)
			r.Get("/logout", rt.Auth.Logout)
			r.Post("/forgotpassword", rt.Auth.ForgotPassword)
			r.Put("/resetpassword/{resettoken}", rt.Auth.ResetPassword)
			r.Group(func(r chi.Router) {
				r.Use(rt.Protect)
				r.Get("/me", rt.Auth.Me)
				r.Put("/updatedetails", rt.Auth.UpdateDetails)
				r.Put("/updatepassword", rt.Auth.UpdatePassword)
			})
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", rt.Blogs.List)
			r.Get("/search", rt.Blogs.Search)
			r.Get("/{id}", rt.Blogs.Get)
			r.Get("/{id}/comments", rt.Comments.ForBlog)
			r.Group(func(r chi.Router) {
				r.Use(rt.Protect)
				r.Post("/", rt.Blogs.Create)
				r.Put("/{id}", rt.Blogs.Update)
				r.Delete("/{id}", rt.Blogs.Delete)
				r.Put("/{id}/photo", rt.Blogs.Photo)
				r.Post("/{id}/comments", rt.Comments.Create)
			})
		})

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", rt.Topics.List)
			r.Get("/{id}", rt.Topics.Get)
			r.Get("/{id}/blogs", rt.Topics.Blogs)
			r.Group(func(r chi.Router) {
				r.Use(rt.Protect)
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/", rt.Topics.Create)
				r.Put("/{id}", rt.Topics.Update)
				r.Delete("/{id}", rt.Topics.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", rt.Comments.List)
			r.Get("/{id}", rt.Comments.Get)
			r.Group(func(r chi.Router) {
				r.Use(rt.Protect)
				r.Put("/{id}", rt.Comments.Update)
				r.Delete("/{id}", rt.Comments.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", rt.Users.List)
			r.Get("/{id}", rt.Users.Get)
			r.With(rt.Protect).Put("/{id}/photoupload", rt.Users.PhotoUpload)
		})
	})
}
