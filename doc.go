// Package cloud implements a small authenticated file-storage backend.
//
// Users authenticate with a login and password and receive an opaque session
// token. All file operations require that token and are scoped to the owner
// resolved from it. File content is stored whole, together with its metadata
// (owner, filename, size, content hash).
//
// # Key Components
//
//   - AuthService: login, logout and token resolution backed by UserRepo and SessionRepo
//   - FileService: upload, list, download, rename and delete, scoped to an owner
//   - UserRepo, SessionRepo, FileRepo: persistence interfaces (PostgreSQL, SQLite)
//
// # Sessions
//
// A session token is 24 random bytes in URL-safe base64 (32 characters).
// Each user holds at most one session: logging in again returns the existing
// token, logging out deletes it. Tokens do not expire on their own.
//
// # Example Usage
//
//	auth := cloud.NewAuthService(users, sessions)
//	files := cloud.NewFileService(fileRepo)
//
//	token, err := auth.Login(ctx, "alice", "secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	saved, err := files.Save(ctx, "alice", "notes.txt", []byte("hello"))
//
// See the http package for the REST surface and the database package for
// backend construction.
package cloud
