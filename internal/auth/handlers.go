package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"crm-backend/internal/models"
	"crm-backend/internal/storage"
)

type Handler struct {
	store  *storage.Storage
	logger *zap.Logger
}

func NewHandler(store *storage.Storage, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user account
// @Summary User signup
// @Description Creates a user account with email, name and password
// @Tags auth
// @Accept json
// @Produce json
// @Param account body models.SignupInput true "Account details"
// @Success 201 {object} map[string]interface{} "User data"
// @Failure 422 {object} map[string]interface{} "Field validation errors"
// @Router /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var input models.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	fields := map[string]string{}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		fields["email"] = "a valid email is required"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if input.FirstName == "" {
		fields["first_name"] = "required"
	}
	if input.LastName == "" {
		fields["last_name"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user, err := h.store.CreateUser(r.Context(), input, string(hash))
	if errors.Is(err, storage.ErrEmailTaken) {
		writeFieldErrors(w, map[string]string{"email": "a user with this email already exists"})
		return
	}
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"user": publicUser(user)})
}

// Login authenticates a user and returns a JWT token
// @Summary User login
// @Description Authenticates user with email and password, returns JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "Token and user data"
// @Failure 401 {string} string "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password required", http.StatusBadRequest)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"token": token,
		"user":  publicUser(user),
	})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Returns the currently authenticated user's information
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "User data"
// @Failure 401 {string} string "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"user": publicUser(user)})
}

func publicUser(user *models.User) map[string]any {
	return map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"created_at": user.CreatedAt,
	}
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}
