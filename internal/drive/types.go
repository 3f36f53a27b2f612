package drive

// FileInfo represents metadata about a file or folder in Google Drive.
// Only the fields drivecheck requests are populated; the rest stay zero.
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// WebViewLink is a link for opening the file in a relevant Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`

	// Owners are the owners of the file
	Owners []User `json:"owners,omitempty"`
}

// IsFolder reports whether the item is a Drive folder.
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// User represents a Google Drive user (owner, account holder, etc.)
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Permission represents access permissions for a file
type Permission struct {
	// ID is the unique identifier for the permission
	ID string `json:"id"`

	// Type is the type of grantee (user, group, domain, anyone)
	Type string `json:"type"`

	// Role is the role granted by this permission (owner, organizer, fileOrganizer, writer, commenter, reader)
	Role string `json:"role"`
}

// About holds the account identity and storage quota.
type About struct {
	User User `json:"user"`

	// Quota is nil when the response carried no storageQuota
	Quota *StorageQuota `json:"storageQuota,omitempty"`
}

// StorageQuota is the account's storage usage in bytes.
type StorageQuota struct {
	// Limit is zero when the account has unlimited storage
	Limit int64 `json:"limit"`
	Usage int64 `json:"usage"`
}

// Unlimited reports whether the account has no storage limit.
func (q *StorageQuota) Unlimited() bool {
	return q.Limit <= 0
}

// ListOptions contains options for listing files
type ListOptions struct {
	// Query is a query for filtering the file results using Google Drive's query language
	// See https://developers.google.com/drive/api/guides/search-files
	Query string

	// MaxResults is the maximum number of files to return (max: 1000)
	MaxResults int

	// PageToken is a token for retrieving the next page of results
	PageToken string

	// IncludeTrashed includes trashed files in results
	IncludeTrashed bool

	// Fields overrides the default field projection
	Fields string
}

// ShareOptions contains options for sharing a file
type ShareOptions struct {
	// Type is the type of grantee: "user", "group", "domain", or "anyone"
	Type string

	// Role is the role to grant: "owner", "organizer", "fileOrganizer", "writer", "commenter", or "reader"
	Role string

	// EmailAddress is the email address (required if Type is "user" or "group")
	EmailAddress string

	// Domain is the domain name (required if Type is "domain")
	Domain string
}
