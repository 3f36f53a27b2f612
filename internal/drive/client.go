package drive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/drivecheck/internal/instrumentation"
	"github.com/teemow/drivecheck/internal/logging"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// DefaultListFields is the projection used when ListOptions.Fields is empty
	DefaultListFields = "nextPageToken, files(id, name, mimeType)"

	childrenFields = "files(id, name, mimeType)"
	folderFields   = "id, name, mimeType, webViewLink, owners"
	createFields   = "id, name, webViewLink"
	aboutFields    = "user, storageQuota"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewClient creates a Drive client that sends requests through httpClient,
// which must already carry the OAuth credential. Additional options such as
// option.WithEndpoint are applied after the HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	driveService, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: driveService, logger: slog.Default()}, nil
}

// SetMetrics attaches a metrics recorder. A nil recorder disables recording.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// SetLogger sets the logger API calls are reported to at debug level.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// observe records the operation metric and logs the call.
func (c *Client) observe(ctx context.Context, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	duration := time.Since(start)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, operation, status, duration)
	c.logger.DebugContext(ctx, "drive api call",
		logging.Service(instrumentation.ServiceDrive),
		logging.Operation(operation),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		logging.Err(err))
}

// ListFiles lists files in Google Drive with optional filtering
func (c *Client) ListFiles(ctx context.Context, options *ListOptions) (_ []*FileInfo, _ string, err error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationList)
	defer span.End()
	defer func(start time.Time) {
		instrumentation.SetSpanError(span, err)
		c.observe(ctx, instrumentation.OperationList, start, err)
	}(time.Now())

	if options == nil {
		options = &ListOptions{}
	}

	fields := options.Fields
	if fields == "" {
		fields = DefaultListFields
	}

	call := c.service.Files.List().
		Context(ctx).
		Fields(googleapi.Field(fields))

	if q := buildListFilesQuery(options.Query, options.IncludeTrashed); q != "" {
		call = call.Q(q)
	}
	if options.MaxResults > 0 {
		call = call.PageSize(int64(options.MaxResults))
	}
	if options.PageToken != "" {
		call = call.PageToken(options.PageToken)
	}

	fileList, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, fileList.NextPageToken, nil
}

// ListChildren lists the immediate children of a folder, trashed items included.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]*FileInfo, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}

	files, _, err := c.ListFiles(ctx, &ListOptions{
		Query:          ParentQuery(folderID),
		IncludeTrashed: true,
		Fields:         childrenFields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", folderID, err)
	}
	return files, nil
}

// About retrieves the account identity and storage quota
func (c *Client) About(ctx context.Context) (_ *About, err error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationAbout)
	defer span.End()
	defer func(start time.Time) {
		instrumentation.SetSpanError(span, err)
		c.observe(ctx, instrumentation.OperationAbout, start, err)
	}(time.Now())

	about, err := c.service.About.Get().
		Context(ctx).
		Fields(aboutFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get drive info: %w", err)
	}

	return convertToAbout(about), nil
}

// GetFile retrieves metadata for a specific file or folder
func (c *Client) GetFile(ctx context.Context, fileID string) (_ *FileInfo, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationGet,
		instrumentation.NewSpanAttributeBuilder().WithResource("file", fileID).Build()...)
	defer span.End()
	defer func(start time.Time) {
		instrumentation.SetSpanError(span, err)
		c.observe(ctx, instrumentation.OperationGet, start, err)
	}(time.Now())

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(folderFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return convertToFileInfo(file), nil
}

// CreateFolder creates a new folder in Google Drive
func (c *Client) CreateFolder(ctx context.Context, name string, parentFolders []string) (_ *FileInfo, err error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationCreate,
		instrumentation.NewSpanAttributeBuilder().WithResource("folder", "").Build()...)
	defer span.End()
	defer func(start time.Time) {
		instrumentation.SetSpanError(span, err)
		c.observe(ctx, instrumentation.OperationCreate, start, err)
	}(time.Now())

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}

	if len(parentFolders) > 0 {
		file.Parents = parentFolders
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(createFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", name, err)
	}
	setResourceID(span, driveFile.Id)

	return convertToFileInfo(driveFile), nil
}

// ShareFile creates a permission on a file to share it
func (c *Client) ShareFile(ctx context.Context, fileID string, options *ShareOptions) (_ *Permission, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if options == nil {
		return nil, fmt.Errorf("share options are required")
	}
	if options.Type == "" {
		return nil, fmt.Errorf("permission type is required")
	}
	if options.Role == "" {
		return nil, fmt.Errorf("permission role is required")
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationShare,
		instrumentation.NewSpanAttributeBuilder().WithResource("file", fileID).Build()...)
	defer span.End()
	defer func(start time.Time) {
		instrumentation.SetSpanError(span, err)
		c.observe(ctx, instrumentation.OperationShare, start, err)
	}(time.Now())

	permission := &drive.Permission{
		Type: options.Type,
		Role: options.Role,
	}

	if options.EmailAddress != "" {
		permission.EmailAddress = options.EmailAddress
	}
	if options.Domain != "" {
		permission.Domain = options.Domain
	}

	drivePermission, err := c.service.Permissions.Create(fileID, permission).
		Context(ctx).
		Fields("id, type, role").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share file %s: %w", fileID, err)
	}

	return convertToPermission(drivePermission), nil
}

// DeleteFile permanently deletes a file. Deleting a folder removes its descendants.
func (c *Client) DeleteFile(ctx context.Context, fileID string) (err error) {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationDelete,
		instrumentation.NewSpanAttributeBuilder().WithResource("file", fileID).Build()...)
	defer span.End()
	defer func(start time.Time) {
		instrumentation.SetSpanError(span, err)
		c.observe(ctx, instrumentation.OperationDelete, start, err)
	}(time.Now())

	if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}

	return nil
}

// ParentQuery returns the Drive query matching the immediate children of folderID.
func ParentQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents", escapeQueryValue(folderID))
}

// buildListFilesQuery combines a user query with the trashed filter.
func buildListFilesQuery(userQuery string, includeTrashed bool) string {
	switch {
	case includeTrashed:
		return userQuery
	case userQuery == "":
		return "trashed=false"
	default:
		return "(" + userQuery + ") and trashed=false"
	}
}

// escapeQueryValue escapes a string literal for the Drive query language.
func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}

	for _, owner := range f.Owners {
		if owner == nil {
			continue
		}
		fileInfo.Owners = append(fileInfo.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	return fileInfo
}

// convertToPermission converts a Drive API Permission to our Permission type
func convertToPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:   p.Id,
		Type: p.Type,
		Role: p.Role,
	}
}

// convertToAbout converts a Drive API About to our About type
func convertToAbout(a *drive.About) *About {
	about := &About{}
	if a.User != nil {
		about.User = User{
			DisplayName:  a.User.DisplayName,
			EmailAddress: a.User.EmailAddress,
		}
	}
	if a.StorageQuota != nil {
		about.Quota = &StorageQuota{
			Limit: a.StorageQuota.Limit,
			Usage: a.StorageQuota.Usage,
		}
	}
	return about
}

// setResourceID records the id of an item that only exists once the call returns.
func setResourceID(span trace.Span, id string) {
	if id != "" {
		span.SetAttributes(attribute.String(instrumentation.SpanAttrResourceID, id))
	}
}
