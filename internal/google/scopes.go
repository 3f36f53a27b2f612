package google

import (
	drive "google.golang.org/api/drive/v3"
)

// TokenURL is Google's OAuth 2.0 token endpoint.
const TokenURL = "https://oauth2.googleapis.com/token"

// DriveScopes are the OAuth scopes requested on refresh.
// Full Drive access is needed to create, share and delete the test folder.
var DriveScopes = []string{
	drive.DriveScope,
}
