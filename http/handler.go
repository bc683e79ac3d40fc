package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AweWarno/cloud"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// DefaultMaxUploadSize caps multipart uploads when the config leaves the
// limit unset.
const DefaultMaxUploadSize = 100 << 20

// multipartFormMemory bounds how much of a parsed form is held in memory
// before spilling to disk.
const multipartFormMemory = 32 << 20

// Client-facing messages. Clients match on the exact strings, so they are
// part of the API surface.
const (
	msgInvalidCredentials = "Неверные учетные данные"
	msgInvalidToken       = "Неверный токен авторизации"
	msgLogoutError        = "Ошибка при выходе из системы"
	msgUnauthorized       = "Неавторизован"
	msgInvalidQuery       = "Неверные входные данные"
	msgListError          = "Ошибка при получении списка файлов"
	msgInvalidInput       = "Ошибка входных данных"
	msgUploadError        = "Ошибка при загрузке файла"
	msgDeleteError        = "Ошибка при удалении файла"
	msgRenameError        = "Ошибка при обновлении файла"
	msgFileNotFound       = "Файл не найден"
	msgDownloadError      = "Ошибка при скачивании файла"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ResolveUser(ctx context.Context, token string) (cloud.User, error)
}

type FileService interface {
	Save(ctx context.Context, owner, filename string, data []byte) (cloud.File, error)
	List(ctx context.Context, owner string, limit int) ([]cloud.FileSummary, error)
	Download(ctx context.Context, owner, filename string) (cloud.File, error)
	Rename(ctx context.Context, owner, filename, newFilename string) error
	Delete(ctx context.Context, owner, filename string) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	MaxUploadSize int64
	CORS          CORSConfig
}

// Handler provides HTTP handlers for authentication and file operations.
type Handler struct {
	config HandlerConfig
	auth   AuthService
	files  FileService
}

// NewHandler creates a new Handler with the given configuration and services.
func NewHandler(config *HandlerConfig, auth AuthService, files FileService) *Handler {
	h := &Handler{
		config: *config,
		auth:   auth,
		files:  files,
	}
	if h.config.MaxUploadSize <= 0 {
		h.config.MaxUploadSize = DefaultMaxUploadSize
	}
	return h
}

// Router returns an http.Handler with all routes configured.
// Login and logout are open; file routes sit behind AuthMiddleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.auth))
		r.Get("/list", h.handleList)
		r.Post("/file", h.handleUpload)
		r.Get("/file", h.handleDownload)
		r.Put("/file", h.handleRename)
		r.Delete("/file", h.handleDelete)
	})

	return r
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"auth-token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		// Every login failure, storage faults included, maps to the same
		// 400 so the response never reveals whether an account exists.
		if !errors.Is(err, cloud.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
		}
		WriteError(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	_ = WriteJSON(w, http.StatusOK, loginResponse{AuthToken: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := h.auth.Logout(r.Context(), r.Header.Get("auth-token"))
	if err != nil {
		if errors.Is(err, cloud.ErrInvalidToken) {
			WriteError(w, http.StatusBadRequest, msgInvalidToken)
			return
		}
		slog.Error("logout failed", "error", err)
		WriteError(w, http.StatusBadRequest, msgLogoutError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := OwnerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	// Absent or non-positive limit means unlimited; only a value that does
	// not parse as an integer is rejected.
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, msgInvalidQuery)
			return
		}
		limit = parsed
	}

	files, err := h.files.List(r.Context(), owner, limit)
	if err != nil {
		slog.Error("list files failed", "owner", owner, "error", err)
		WriteError(w, http.StatusInternalServerError, msgListError)
		return
	}

	_ = WriteJSON(w, http.StatusOK, files)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	owner, ok := OwnerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartFormMemory); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	// FormValue covers both the multipart field and the query string.
	filename := r.FormValue("filename")

	part, _, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}
	defer func() { _ = part.Close() }()

	data, err := io.ReadAll(part)
	if err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if _, err := h.files.Save(r.Context(), owner, filename, data); err != nil {
		if errors.Is(err, cloud.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		slog.Error("upload failed", "owner", owner, "filename", filename, "error", err)
		// Storage faults surface as 400 on this endpoint; existing clients
		// do not handle a 500 here.
		WriteError(w, http.StatusBadRequest, msgUploadError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	owner, ok := OwnerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	filename := r.URL.Query().Get("filename")

	file, err := h.files.Download(r.Context(), owner, filename)
	if err != nil {
		if errors.Is(err, cloud.ErrNotFound) {
			WriteError(w, http.StatusBadRequest, msgFileNotFound)
			return
		}
		slog.Error("download failed", "owner", owner, "filename", filename, "error", err)
		WriteError(w, http.StatusInternalServerError, msgDownloadError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	_, _ = w.Write(file.Data)
}

type renameRequest struct {
	Filename string `json:"filename"`
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	owner, ok := OwnerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	filename := r.URL.Query().Get("filename")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if err := h.files.Rename(r.Context(), owner, filename, req.Filename); err != nil {
		if errors.Is(err, cloud.ErrNotFound) || errors.Is(err, cloud.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		slog.Error("rename failed", "owner", owner, "filename", filename, "error", err)
		WriteError(w, http.StatusInternalServerError, msgRenameError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := OwnerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	filename := r.URL.Query().Get("filename")

	if err := h.files.Delete(r.Context(), owner, filename); err != nil {
		if errors.Is(err, cloud.ErrNotFound) || errors.Is(err, cloud.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		slog.Error("delete failed", "owner", owner, "filename", filename, "error", err)
		WriteError(w, http.StatusInternalServerError, msgDeleteError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
