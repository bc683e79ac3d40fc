package cloud

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FileService implements the file operations of the backend. Every method is
// scoped to an owner login that callers resolve from a session token first.
type FileService struct {
	files FileRepo
}

func NewFileService(files FileRepo) *FileService {
	return &FileService{files: files}
}

// HashContent returns the hex SHA-256 digest stored alongside file content.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save stores a new file for the owner. Duplicate filenames are allowed; the
// new file does not replace an existing one.
//
// Error types returned:
//   - ErrInvalidInput: invalid filename or empty content
//   - Wrapped database errors
func (s *FileService) Save(ctx context.Context, owner, filename string, data []byte) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, fmt.Errorf("save file: %w", err)
	}

	if !IsValidFilename(filename) {
		return File{}, fmt.Errorf("save file: %w: invalid filename %q", ErrInvalidInput, filename)
	}

	if len(data) == 0 {
		return File{}, fmt.Errorf("save file %s: %w: content cannot be empty", filename, ErrInvalidInput)
	}

	file := File{
		Owner:    owner,
		Filename: filename,
		Size:     int64(len(data)),
		Hash:     HashContent(data),
		Data:     data,
	}

	saved, err := s.files.Create(ctx, file)
	if err != nil {
		return File{}, fmt.Errorf("save file %s: %w", filename, err)
	}

	return saved, nil
}

// List returns the owner's files sorted by size ascending. A limit of zero
// or less returns everything.
func (s *FileService) List(ctx context.Context, owner string, limit int) ([]FileSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files, err := s.files.ListByOwner(ctx, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	summaries := make([]FileSummary, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, FileSummary{Filename: f.Filename, Size: f.Size})
	}

	return summaries, nil
}

// Download returns the owner's file, content included.
//
// Error types returned:
//   - ErrNotFound: no file with that name
//   - Wrapped database errors
func (s *FileService) Download(ctx context.Context, owner, filename string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, fmt.Errorf("download file: %w", err)
	}

	file, err := s.files.GetByName(ctx, owner, filename)
	if err != nil {
		return File{}, fmt.Errorf("download file %s: %w", filename, err)
	}

	return file, nil
}

// Rename gives the owner's file a new name. No uniqueness check is applied:
// renaming onto a name already in use produces a duplicate.
//
// Error types returned:
//   - ErrInvalidInput: invalid new name
//   - ErrNotFound: no file with the old name
//   - Wrapped database errors
func (s *FileService) Rename(ctx context.Context, owner, filename, newFilename string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}

	if !IsValidFilename(newFilename) {
		return fmt.Errorf("rename file %s: %w: invalid new filename %q", filename, ErrInvalidInput, newFilename)
	}

	file, err := s.files.GetByName(ctx, owner, filename)
	if err != nil {
		return fmt.Errorf("rename file %s: %w", filename, err)
	}

	if err := s.files.Rename(ctx, file.ID, newFilename); err != nil {
		return fmt.Errorf("rename file %s: %w", filename, err)
	}

	return nil
}

// Delete removes the owner's file. When duplicates share the name, only the
// oldest one is removed.
//
// Error types returned:
//   - ErrNotFound: no file with that name
//   - Wrapped database errors
func (s *FileService) Delete(ctx context.Context, owner, filename string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	file, err := s.files.GetByName(ctx, owner, filename)
	if err != nil {
		return fmt.Errorf("delete file %s: %w", filename, err)
	}

	if err := s.files.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("delete file %s: %w", filename, err)
	}

	return nil
}
