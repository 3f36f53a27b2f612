// Package drive provides a client for the Google Drive API v3 operations used by
// drivecheck's probes.
//
// This package covers:
//   - Listing files, optionally filtered by a Drive query
//   - Listing the immediate children of a folder
//   - Reading account identity and storage quota (about)
//   - Reading file and folder metadata
//   - Creating folders
//   - Granting permissions (sharing)
//   - Deleting files and folders
//
// Every call opens a google.drive.<operation> span and records the
// google_api_operations_total metric when a recorder is attached.
//
// Example usage:
//
//	httpClient, err := google.NewHTTPClient(ctx, cred)
//	if err != nil {
//	    return err
//	}
//	client, err := drive.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	files, _, err := client.ListFiles(ctx, &drive.ListOptions{MaxResults: 5})
package drive
