// Package http provides the HTTP server surface for the cloud file store.
//
// This package implements a token-authenticated REST API for uploading,
// listing, renaming, downloading and deleting files scoped to their owner.
//
// # Features
//
//   - Opaque session tokens passed in the auth-token header
//   - Owner-scoped file operations (list, upload, download, rename, delete)
//   - Multipart uploads with a configurable size cap
//   - JSON error responses with fixed client-facing messages
//   - Configurable CORS support
//
// # Endpoints
//
//	POST   /login   {"login", "password"}        -> {"auth-token": <token>}
//	POST   /logout  auth-token header            -> 200
//	GET    /list    ?limit=N                     -> [{"filename", "size"}, ...]
//	POST   /file    multipart filename + file    -> "ok"
//	GET    /file    ?filename=                   -> file bytes as attachment
//	PUT    /file    ?filename= {"filename": new} -> 200
//	DELETE /file    ?filename=                   -> 200
//
// All /list and /file routes require a valid token; failures return
// 401 {"message": "Неавторизован", "status": 401}. Other errors use the
// same {"message", "status"} payload with endpoint-specific messages.
//
// # Authentication
//
// AuthMiddleware reads the auth-token header (an optional "Bearer " prefix
// is accepted), resolves it to a user and stores the owner login in the
// request context:
//
//	router.Use(http.AuthMiddleware(authService))
//
// Handlers retrieve the owner with OwnerFromContext.
//
// # Usage
//
// Create a handler with HandlerConfig and the two services:
//
//	handlerCfg := http.HandlerConfig{
//	    MaxUploadSize: 100 << 20,
//	}
//	handler := http.NewHandler(&handlerCfg, authService, fileService)
//	http.ListenAndServe(":8080", handler.Router())
//
// The auth and files parameters must implement the AuthService and
// FileService interfaces.
package http
