package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/devblog/backend/apperr"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/service"
	"github.com/kevinaaaquil/devblog/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
)

type AuthHandler struct {
	DB           AuthStore
	Tokens       TokenIssuer
	Mailer       Mailer
	CookieTTL    time.Duration
	ResetTTL     time.Duration
	SecureCookie bool
	PublicURL    string // base of the reset link sent by email
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular user. Admins only come from configuration or
// the seeder.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user := &models.User{Name: req.Name, Email: req.Email, Role: models.RoleUser, Password: hash}
	if err := h.DB.CreateUser(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}
	h.sendToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, apperr.BadRequest("Please provide an email and password to login"))
		return
	}
	user, err := h.DB.UserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		writeError(w, r, apperr.Unauthorized("Invalid Credentials"))
		return
	}
	h.sendToken(w, r, http.StatusOK, user)
}

// Logout replaces the token cookie with a short lived placeholder.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookie,
	})
	writeData(w, http.StatusOK, emptyObject())
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := UpdateDetailsRequest{Name: user.Name, Email: user.Email}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.DB.UpdateUser(r.Context(), user.ID, bson.M{"name": req.Name, "email": req.Email})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("No user with that ID %s", user.ID.Hex()))
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	if !utils.CheckPassword(user.Password, req.CurrentPassword) {
		writeError(w, r, apperr.Unauthorized("Password is incorrect"))
		return
	}
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.DB.UpdateUser(r.Context(), user.ID, bson.M{"password": hash})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("No user with that ID %s", user.ID.Hex()))
		return
	}
	h.sendToken(w, r, http.StatusOK, updated)
}

// ForgotPassword stores a hashed reset token and mails the plain one. If the
// mail cannot be sent the token is withdrawn again.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	user, err := h.DB.UserByEmail(ctx, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.NotFound("User with that email is not registered"))
		return
	}
	plain, hashed, expires, err := utils.NewResetToken(h.ResetTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.DB.SetResetToken(ctx, user.ID, hashed, expires); err != nil {
		writeError(w, r, err)
		return
	}

	resetURL := strings.TrimRight(h.PublicURL, "/") + "/api/v1/auth/resetpassword/" + plain
	msg := service.Message{
		ID:      service.NewMessageID(),
		To:      user.Email,
		Subject: "Reset Password",
		Text:    fmt.Sprintf("You have requested to reset your password. Please make a PUT request to this URL: %s", resetURL),
	}
	if err := h.Mailer.Send(ctx, msg); err != nil {
		if cerr := h.DB.ClearResetToken(ctx, user.ID); cerr != nil {
			log.Printf("forgotpassword: clear reset token for %s: %v", user.ID.Hex(), cerr)
		}
		writeError(w, r, apperr.Server(err, "Email could not be sent"))
		return
	}
	emailLog := &models.EmailLog{
		UserID:    user.ID,
		Purpose:   models.EmailPurposeResetPassword,
		MessageID: msg.ID,
		ToEmail:   user.Email,
		Subject:   msg.Subject,
		SentAt:    time.Now(),
	}
	if err := h.DB.InsertEmailLog(ctx, emailLog); err != nil {
		log.Printf("forgotpassword: failed to insert email log: %v", err)
	}
	writeData(w, http.StatusOK, "Reset password link has been sent to email")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	plain := chi.URLParam(r, "resettoken")
	hashed := utils.HashResetToken(plain)
	user, err := h.DB.UserByResetToken(r.Context(), hashed, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !utils.ResetTokenMatches(user.ResetPasswordToken, plain) {
		writeError(w, r, apperr.Unauthorized("Invalid token"))
		return
	}
	var req ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.DB.ResetPassword(r.Context(), user.ID, hash); err != nil {
		writeError(w, r, err)
		return
	}
	h.sendToken(w, r, http.StatusOK, user)
}

// sendToken signs a token for user, sets it as the token cookie and returns
// it in the body.
func (h *AuthHandler) sendToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.CookieTTL),
		HttpOnly: true,
		Secure:   h.SecureCookie,
	})
	writeJSON(w, status, envelope{Success: true, Token: token})
}

// EnsureAdmin creates the configured admin account if no user has that
// email yet. An empty email or password disables it.
func (h *AuthHandler) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	existing, err := h.DB.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{Name: "Admin", Email: email, Role: models.RoleAdmin, Password: hash}
	if err := h.DB.CreateUser(ctx, admin); err != nil {
		return err
	}
	log.Printf("created admin user %s", email)
	return nil
}
