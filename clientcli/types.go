package clientcli

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath  string
	RemoteName string // optional, defaults to the local file name
	Recursive  bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath  string `json:"local_path"`
	RemoteName string `json:"remote_name"`
	Size       int64  `json:"size_bytes"`
	Err        error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	RemoteName string
	LocalPath  string // empty = derive from remote, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	RemoteName string `json:"remote_name"`
	LocalPath  string `json:"local_path"`
	Size       int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	Names []string
}

// DeleteResult represents the result of deleting a single file.
type DeleteResult struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// RenameOptions configures a rename operation.
type RenameOptions struct {
	OldName string
	NewName string
}

// ListOptions configures a list operation.
type ListOptions struct {
	Limit int // 0 means no limit
}

// FileInfo represents a single stored file as the server reports it.
type FileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// ListResult contains the files returned by a list operation.
type ListResult struct {
	Items []FileInfo `json:"items"`
}

// TotalSize calculates the total size of all items in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Size
	}
	return total
}
