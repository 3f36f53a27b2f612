package check

import (
	"log/slog"
	"time"

	"google.golang.org/api/option"

	"github.com/teemow/drivecheck/internal/config"
	"github.com/teemow/drivecheck/internal/drive"
	"github.com/teemow/drivecheck/internal/google"
	"github.com/teemow/drivecheck/internal/instrumentation"
)

// DefaultFolderPrefix names the folder created by the Folder Operations probe.
const DefaultFolderPrefix = "CtrlE_Test_"

// SubfolderName is the subfolder created inside the test folder.
const SubfolderName = "Client_Files"

// State is threaded through every probe of a run. Earlier probes fill in
// Config, Credential and Drive for the probes after them.
type State struct {
	Loader       *config.Loader
	FolderPrefix string

	// TokenURL and DriveOptions redirect remote calls, mainly for tests.
	TokenURL     string
	DriveOptions []option.ClientOption

	Console *Console
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
	RunID   string

	// Now defaults to time.Now.
	Now func() time.Time

	Config     *config.Config
	Credential *google.Credential
	Drive      *drive.Client
}

func (s *State) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *State) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *State) folderPrefix() string {
	if s.FolderPrefix != "" {
		return s.FolderPrefix
	}
	return DefaultFolderPrefix
}
