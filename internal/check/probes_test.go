package check

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drivecheck/internal/config"
	"github.com/teemow/drivecheck/internal/drive/drivetest"
	"github.com/teemow/drivecheck/internal/instrumentation"
	"github.com/teemow/drivecheck/internal/logging"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type harness struct {
	srv   *drivetest.Server
	state *State
	out   *bytes.Buffer
}

func validEnv() map[string]string {
	return map[string]string{
		config.EnvClientID:     "1234567890-abcdefghijklmnop.apps.googleusercontent.com",
		config.EnvClientSecret: "GOCSPX-secret",
		config.EnvRefreshToken: "1//refresh-token",
	}
}

// newHarness builds a State whose settings come only from env and whose
// remote calls all go to a fake server.
func newHarness(t *testing.T, env map[string]string) *harness {
	t.Helper()

	srv := drivetest.NewServer(t)
	out := &bytes.Buffer{}
	state := &State{
		Loader: &config.Loader{
			Dir: t.TempDir(),
			LookupEnv: func(key string) (string, bool) {
				v, ok := env[key]
				return v, ok
			},
		},
		TokenURL:     srv.TokenURL(),
		DriveOptions: srv.ClientOptions(),
		Console:      NewConsole(out, true),
		Now:          func() time.Time { return fixedNow },
	}
	return &harness{srv: srv, state: state, out: out}
}

func (h *harness) run(t *testing.T) *Report {
	t.Helper()
	report := Run(context.Background(), h.state, DefaultProbes(false))
	PrintSummary(h.state.Console, report)
	return report
}

func TestRun_AllProbesPass(t *testing.T) {
	env := validEnv()
	env[config.EnvRootFolderID] = "root-folder"
	h := newHarness(t, env)

	h.srv.AddFile(drivetest.File{
		ID:          "root-folder",
		Name:        "CRM Files",
		MimeType:    "application/vnd.google-apps.folder",
		WebViewLink: "https://drive.google.com/drive/folders/root-folder",
		Owners:      []drivetest.Owner{{DisplayName: "Alice"}},
	})
	h.srv.AddFile(drivetest.File{Name: "contract.pdf", MimeType: "application/pdf", Parents: []string{"root-folder"}})
	h.srv.AddFile(drivetest.File{Name: "notes.txt", MimeType: "text/plain", Parents: []string{"root-folder"}})
	h.srv.SetQuota(&drivetest.Quota{Limit: 15 << 30, Usage: 3 << 29})

	report := h.run(t)
	output := h.out.String()

	assert.Equal(t, 6, report.Total())
	assert.Equal(t, 6, report.Passed())
	assert.True(t, report.AllPassed())
	assert.Contains(t, output, "Overall: 6/6 tests passed")
	assert.Contains(t, output, "All tests passed! Your Google Drive credentials are working correctly.")
	assert.NotContains(t, output, "Some tests failed")

	assert.Contains(t, output, "Storage: 1.50 GB used / 15.00 GB total")
	assert.Contains(t, output, "Root folder found: CRM Files")
	assert.Contains(t, output, "Folder owner: Alice")
	assert.Contains(t, output, "Folder contains 2 items")
	assert.Contains(t, output, "Test folder created: CtrlE_Test_20240102_030405")

	// the test folder and its subfolder are gone, the grant was made on the folder
	assert.Empty(t, h.srv.FilesNamed(DefaultFolderPrefix))
	assert.Empty(t, h.srv.FilesNamed(SubfolderName))
	perms := h.srv.Permissions()
	require.Len(t, perms, 1)
	assert.Equal(t, "anyone", perms[0].Type)
	assert.Equal(t, "reader", perms[0].Role)

	assert.Equal(t, []string{
		drivetest.OpToken,
		drivetest.OpListFiles,
		drivetest.OpAbout,
		drivetest.OpGetFile,
		drivetest.OpListFiles,
		drivetest.OpCreateFile,
		drivetest.OpCreateFile,
		drivetest.OpCreatePermission,
		drivetest.OpDeleteFile,
	}, h.srv.Ops())
}

func TestRun_MissingConfigurationStopsEverything(t *testing.T) {
	h := newHarness(t, map[string]string{})

	report := h.run(t)
	output := h.out.String()

	require.Equal(t, 1, report.Total())
	assert.True(t, report.Failed(ProbeEnvironment))
	assert.Equal(t, ProbeEnvironment, report.StoppedAfter)
	assert.Empty(t, h.srv.Requests())

	assert.Contains(t, output, "No .env or .env.example file found. Using system environment variables.")
	assert.Contains(t, output, "Missing required Google Drive credentials!")
	for _, key := range []string{config.EnvClientID, config.EnvClientSecret, config.EnvRefreshToken, config.EnvRootFolderID} {
		assert.Contains(t, output, "- "+key)
	}
	assert.Contains(t, output, "Overall: 0/1 tests passed")
	assert.Contains(t, output, "To fix environment issues:")
}

func TestRun_TokenRefreshFailureStops(t *testing.T) {
	h := newHarness(t, validEnv())
	h.srv.Fail(drivetest.OpToken, http.StatusBadRequest, "Token has been expired or revoked.")

	report := h.run(t)
	output := h.out.String()

	assert.Equal(t, 2, report.Total())
	assert.True(t, report.Failed(ProbeTokenRefresh))
	assert.False(t, report.Ran(ProbeDriveService))
	assert.False(t, report.Ran(ProbeBasicOps))
	assert.Equal(t, []string{drivetest.OpToken}, h.srv.Ops())

	assert.Contains(t, output, "Token refresh failed:")
	assert.Contains(t, output, "Critical test 'Token Refresh' failed. Stopping further tests.")
	assert.Contains(t, output, "To fix token issues:")
	assert.NotContains(t, output, "To fix environment issues:")
}

func TestRun_UnlimitedQuota(t *testing.T) {
	h := newHarness(t, validEnv())
	h.srv.SetQuota(&drivetest.Quota{Limit: 0, Usage: 3 << 29})

	report := h.run(t)

	assert.False(t, report.Failed(ProbeBasicOps))
	assert.Contains(t, h.out.String(), "Storage: 1.50 GB used (unlimited)")
	assert.NotContains(t, h.out.String(), "GB total")
}

func TestRun_RootFolderNotFound(t *testing.T) {
	env := validEnv()
	env[config.EnvRootFolderID] = "gone-folder"
	h := newHarness(t, env)

	report := h.run(t)

	res, ok := report.Result(ProbeRootFolder)
	require.True(t, ok)
	assert.False(t, res.Passed)
	assert.Equal(t, "Root folder not found or no access: gone-folder", res.Message)
	assert.NotContains(t, h.out.String(), "Error accessing root folder")

	// later probes still ran
	assert.True(t, report.Ran(ProbeFolderOps))
	assert.Empty(t, report.StoppedAfter)
}

func TestRun_RootFolderAPIError(t *testing.T) {
	env := validEnv()
	env[config.EnvRootFolderID] = "root-folder"
	h := newHarness(t, env)
	h.srv.Fail(drivetest.OpGetFile, http.StatusForbidden, "The user does not have sufficient permissions.")

	report := h.run(t)

	res, ok := report.Result(ProbeRootFolder)
	require.True(t, ok)
	assert.False(t, res.Passed)
	assert.True(t, strings.HasPrefix(res.Message, "Error accessing root folder: "), res.Message)
}

func TestRun_NoRootFolderSkipsRemoteCalls(t *testing.T) {
	h := newHarness(t, validEnv())

	report := h.run(t)

	res, ok := report.Result(ProbeRootFolder)
	require.True(t, ok)
	assert.True(t, res.Passed)
	assert.Contains(t, h.out.String(), "No root folder ID configured, skipping root folder test")

	assert.NotContains(t, h.srv.Ops(), drivetest.OpGetFile)
	for _, r := range h.srv.Requests() {
		assert.NotContains(t, r.Query, "parents", "unexpected child listing %s", r.Path)
	}
}

func TestRun_PermissionFailureLeavesFoldersBehind(t *testing.T) {
	h := newHarness(t, validEnv())
	h.srv.Fail(drivetest.OpCreatePermission, http.StatusForbidden, "Sharing is disabled for this domain.")

	report := h.run(t)

	assert.Equal(t, 6, report.Total())
	assert.Equal(t, 5, report.Passed())
	res, ok := report.Result(ProbeFolderOps)
	require.True(t, ok)
	assert.False(t, res.Passed)
	assert.False(t, res.Crashed)
	assert.Contains(t, res.Message, "Google Drive API error during folder operations")

	folders := h.srv.FilesNamed(DefaultFolderPrefix)
	require.Len(t, folders, 1)
	assert.Equal(t, "CtrlE_Test_20240102_030405", folders[0].Name)
	subs := h.srv.FilesNamed(SubfolderName)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{folders[0].ID}, subs[0].Parents)
	assert.NotContains(t, h.srv.Ops(), drivetest.OpDeleteFile)

	assert.Contains(t, h.out.String(), "Overall: 5/6 tests passed")
	assert.Contains(t, h.out.String(), "Some tests failed. Please check your Google Drive configuration.")
}

func TestRun_FolderOperationsUnderRootFolder(t *testing.T) {
	env := validEnv()
	env[config.EnvRootFolderID] = "root-folder"
	h := newHarness(t, env)
	h.srv.AddFile(drivetest.File{ID: "root-folder", Name: "Root", MimeType: "application/vnd.google-apps.folder"})
	h.srv.Fail(drivetest.OpDeleteFile, http.StatusInternalServerError, "Backend Error")
	h.state.FolderPrefix = "Probe_"

	report := h.run(t)

	assert.True(t, report.Failed(ProbeFolderOps))
	folders := h.srv.FilesNamed("Probe_")
	require.Len(t, folders, 1)
	assert.Equal(t, []string{"root-folder"}, folders[0].Parents)
}

func TestRun_ListFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, validEnv())
	h.srv.Fail(drivetest.OpListFiles, http.StatusForbidden, "Drive API has not been used in project.")

	report := h.run(t)

	res, ok := report.Result(ProbeBasicOps)
	require.True(t, ok)
	assert.False(t, res.Passed)
	assert.True(t, strings.HasPrefix(res.Message, "Google Drive API error: "), res.Message)
	assert.True(t, report.Ran(ProbeFolderOps))
}

func TestRun_ExampleSettingsFile(t *testing.T) {
	h := newHarness(t, map[string]string{})
	dir := h.state.Loader.Dir
	content := "GOOGLE_CLIENT_ID=example-client-id.apps.googleusercontent.com\n" +
		"GOOGLE_CLIENT_SECRET=example-secret\n" +
		"GOOGLE_REFRESH_TOKEN=example-refresh\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte(content), 0o600))

	report := h.run(t)
	output := h.out.String()

	assert.False(t, report.Failed(ProbeEnvironment))
	assert.Contains(t, output, "Loaded environment from: "+filepath.Join(dir, ".env.example"))
	assert.Contains(t, output, "Using .env.example file.")
	assert.Contains(t, output, "Run: cp .env.example .env")
	assert.Contains(t, output, "Client ID: example-client-id.ap...")
	assert.NotContains(t, output, "example-secret")
	assert.NotContains(t, output, "example-refresh")
}

func TestRun_RecordsMetrics(t *testing.T) {
	cfg := instrumentation.DefaultConfig()
	cfg.ServiceName = "drivecheck-test"
	cfg.Enabled = true
	cfg.MetricsExporter = instrumentation.ExporterPrometheus
	cfg.TracingExporter = instrumentation.ExporterNone
	cfg.PushgatewayURL = ""

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	h := newHarness(t, validEnv())
	h.state.Metrics = provider.Metrics()
	h.run(t)

	families, err := provider.Registry().Gather()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, mf := range families {
		seen[mf.GetName()] = true
	}
	for _, prefix := range []string{"drivecheck_probe_runs", "google_api_operations", "oauth_token_refresh"} {
		found := false
		for name := range seen {
			if strings.HasPrefix(name, prefix) {
				found = true
			}
		}
		assert.True(t, found, "no %s metric in %v", prefix, seen)
	}
}

func TestRun_DebugLogHashesAccountEmail(t *testing.T) {
	h := newHarness(t, validEnv())
	var logs bytes.Buffer
	h.state.Logger = logging.NewLogger(&logs, slog.LevelDebug)

	h.run(t)

	out := logs.String()
	assert.Contains(t, out, "user_hash="+logging.AnonymizeEmail("test@example.com"))
	assert.NotContains(t, out, "test@example.com")
	assert.Contains(t, out, "service=drive operation=about status=success")
}
