package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/drivecheck/internal/config"
	"github.com/teemow/drivecheck/internal/drive"
	"github.com/teemow/drivecheck/internal/google"
	"github.com/teemow/drivecheck/internal/instrumentation"
	"github.com/teemow/drivecheck/internal/logging"
)

const (
	clientIDPrefixLen = 20
	secretMask        = "********************"
)

func probeEnvironment(_ context.Context, s *State) Outcome {
	c := s.Console
	c.Line(IconSearch, "Loading environment variables...")

	loader := s.Loader
	if loader == nil {
		loader = &config.Loader{}
	}
	cfg, err := loader.Load()
	if err != nil {
		c.Line(IconFail, "Failed to load settings: %v", err)
		return fail(err.Error())
	}
	s.Config = cfg

	switch {
	case cfg.Source == "":
		c.Line(IconWarn, "No .env or .env.example file found. Using system environment variables.")
	case cfg.FromExample:
		c.Line(IconOK, "Loaded environment from: %s", cfg.Source)
		c.Line(IconWarn, "Using .env.example file. For production, copy this to .env and update values.")
		c.Line(IconHint, "Run: cp .env.example .env")
	default:
		c.Line(IconOK, "Loaded environment from: %s", cfg.Source)
	}

	c.Blank()
	c.Line(IconInfo, "Environment variables:")
	if cfg.ClientID != "" {
		c.Line(IconOK, "Client ID: %s", logging.MaskPrefix(cfg.ClientID, clientIDPrefixLen))
	} else {
		c.Line(IconFail, "No Client ID")
	}
	if cfg.ClientSecret != "" {
		c.Line(IconOK, "Client Secret: %s", secretMask)
	} else {
		c.Line(IconFail, "No Client Secret")
	}
	if cfg.RefreshToken != "" {
		c.Line(IconOK, "Refresh Token: %s", logging.SanitizeToken(cfg.RefreshToken))
	} else {
		c.Line(IconFail, "No Refresh Token")
	}
	if cfg.HasRootFolder() {
		c.Line(IconOK, "Root Folder ID: %s", cfg.RootFolderID)
	} else {
		c.Line(IconWarn, "No Root Folder ID (optional)")
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		c.Blank()
		c.Line(IconFail, "Missing required Google Drive credentials!")
		c.Text("Please set the following environment variables:")
		for _, key := range []string{config.EnvClientID, config.EnvClientSecret, config.EnvRefreshToken} {
			c.Text("- %s", key)
		}
		c.Text("- %s (optional)", config.EnvRootFolderID)
		return fail("missing " + strings.Join(missing, ", "))
	}

	s.logger().Debug("settings loaded", "source", cfg.Source, "root_folder", cfg.HasRootFolder())
	return pass("credentials loaded")
}

func probeTokenRefresh(ctx context.Context, s *State) Outcome {
	c := s.Console
	c.Blank()
	c.Line(IconRefresh, "Testing token refresh...")

	cred, err := google.RefreshCredential(ctx, google.Credentials{
		ClientID:     s.Config.ClientID,
		ClientSecret: s.Config.ClientSecret,
		RefreshToken: s.Config.RefreshToken,
		TokenURL:     s.TokenURL,
	}, nil)
	if err != nil {
		s.Metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		if code, ok := google.RetrieveError(err); ok {
			s.logger().Warn("token endpoint rejected refresh", "oauth_error", code)
		}
		c.Line(IconFail, "Token refresh failed: %v", err)
		return fail(err.Error())
	}
	s.Metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	s.Credential = cred

	c.Line(IconOK, "Token refreshed successfully!")
	c.Line(IconKey, "Access token: %s", logging.SanitizeToken(cred.AccessToken))
	c.Line(IconClock, "Token expires: %s", formatExpiry(cred.Expiry))
	return pass("access token issued")
}

func probeDriveService(ctx context.Context, s *State) Outcome {
	c := s.Console
	c.Blank()
	c.Line(IconTool, "Testing Google Drive service creation...")

	httpClient, err := google.NewHTTPClient(ctx, s.Credential)
	if err != nil {
		c.Line(IconFail, "Service creation failed: %v", err)
		return fail(err.Error())
	}
	client, err := drive.NewClient(ctx, httpClient, s.DriveOptions...)
	if err != nil {
		c.Line(IconFail, "Service creation failed: %v", err)
		return fail(err.Error())
	}
	client.SetMetrics(s.Metrics)
	client.SetLogger(s.logger())
	s.Drive = client

	c.Line(IconOK, "Google Drive service created successfully!")
	return pass("service ready")
}

func probeBasicOperations(ctx context.Context, s *State) Outcome {
	c := s.Console
	c.Blank()
	c.Line(IconFolder, "Testing basic Google Drive operations...")

	c.Line(IconSearch, "Testing file listing...")
	files, _, err := s.Drive.ListFiles(ctx, &drive.ListOptions{
		MaxResults:     5,
		IncludeTrashed: true,
	})
	if err != nil {
		return apiFailure(c, "", err)
	}
	c.Line(IconOK, "Successfully listed %d files from root", len(files))
	if len(files) > 0 {
		c.Line(IconFile, "Sample files:")
		for _, f := range files[:min(3, len(files))] {
			c.Text("   - %s (%s)", f.Name, f.MimeType)
		}
	}

	c.Blank()
	c.Line(IconDisk, "Testing drive info...")
	about, err := s.Drive.About(ctx)
	if err != nil {
		return apiFailure(c, "", err)
	}
	c.Line(IconOK, "Drive owned by: %s (%s)", orUnknown(about.User.DisplayName), orUnknown(about.User.EmailAddress))
	s.logger().Debug("drive account", logging.UserHash(about.User.EmailAddress))
	if about.Quota != nil {
		c.Line(IconDisk, "Storage: %s", formatStorage(about.Quota))
	}
	return pass(fmt.Sprintf("listed %d files", len(files)))
}

func probeRootFolder(ctx context.Context, s *State) Outcome {
	c := s.Console
	if !s.Config.HasRootFolder() {
		c.Blank()
		c.Line(IconWarn, "No root folder ID configured, skipping root folder test")
		return pass("skipped: no root folder configured")
	}

	id := s.Config.RootFolderID
	c.Blank()
	c.Line(IconFolder, "Testing access to root folder: %s", id)

	folder, err := s.Drive.GetFile(ctx, id)
	if err != nil {
		return rootFolderFailure(c, id, err)
	}
	c.Line(IconOK, "Root folder found: %s", folder.Name)
	c.Line(IconLink, "Folder link: %s", folder.WebViewLink)
	if len(folder.Owners) > 0 {
		c.Line(IconUser, "Folder owner: %s", orUnknown(folder.Owners[0].DisplayName))
	}

	children, err := s.Drive.ListChildren(ctx, id)
	if err != nil {
		return rootFolderFailure(c, id, err)
	}
	c.Line(IconFile, "Folder contains %d items", len(children))
	return pass(fmt.Sprintf("root folder has %d items", len(children)))
}

func probeFolderOperations(ctx context.Context, s *State) Outcome {
	c := s.Console
	c.Blank()
	c.Line(IconOpen, "Testing folder operations...")

	var parents []string
	if s.Config.HasRootFolder() {
		parents = []string{s.Config.RootFolderID}
	}

	c.Line(IconBuild, "Creating test folder...")
	folder, err := s.Drive.CreateFolder(ctx, testFolderName(s.folderPrefix(), s.now()), parents)
	if err != nil {
		return apiFailure(c, " during folder operations", err)
	}
	c.Line(IconOK, "Test folder created: %s", folder.Name)
	c.Line(IconLink, "Folder link: %s", folder.WebViewLink)

	// Nothing below rolls back the test folder.
	leftBehind := func(err error) Outcome {
		s.logger().Warn("test folder left in drive", "folder_id", folder.ID, "folder_name", folder.Name)
		return apiFailure(c, " during folder operations", err)
	}

	c.Line(IconBuild, "Creating subfolder...")
	sub, err := s.Drive.CreateFolder(ctx, SubfolderName, []string{folder.ID})
	if err != nil {
		return leftBehind(err)
	}
	c.Line(IconOK, "Subfolder created: %s", sub.Name)

	c.Line(IconKey, "Setting folder permissions...")
	if _, err := s.Drive.ShareFile(ctx, folder.ID, &drive.ShareOptions{Type: "anyone", Role: "reader"}); err != nil {
		return leftBehind(err)
	}
	c.Line(IconOK, "Folder permissions set (viewable by anyone with link)")

	c.Line(IconClean, "Cleaning up test folder...")
	if err := s.Drive.DeleteFile(ctx, folder.ID); err != nil {
		return leftBehind(err)
	}
	c.Line(IconOK, "Test folder deleted")
	return pass("folder created, shared and deleted")
}

// apiFailure prints err classified as a Drive API error or an unexpected one.
// during qualifies the message, e.g. " during folder operations".
func apiFailure(c *Console, during string, err error) Outcome {
	var msg string
	if drive.IsAPIError(err) {
		msg = fmt.Sprintf("Google Drive API error%s: %v", during, err)
	} else {
		msg = fmt.Sprintf("Unexpected error%s: %v", during, err)
	}
	c.Line(IconFail, "%s", msg)
	return fail(msg)
}

func rootFolderFailure(c *Console, id string, err error) Outcome {
	var msg string
	switch {
	case drive.IsNotFound(err):
		msg = "Root folder not found or no access: " + id
	case drive.IsAPIError(err):
		msg = fmt.Sprintf("Error accessing root folder: %v", err)
	default:
		msg = fmt.Sprintf("Unexpected error accessing root folder: %v", err)
	}
	c.Line(IconFail, "%s", msg)
	return fail(msg)
}
