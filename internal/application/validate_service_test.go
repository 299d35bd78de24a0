package application_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/logging"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/scanner"
	"github.com/abdidvp/matrixcheck/internal/application"
	"github.com/abdidvp/matrixcheck/internal/domain"
	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodRecord = `{"test_id":"t1","timestamp":"2024-01-01T00:00:00Z","client_type":"cli","config_file":"cfg.yaml","audio_file":"a.wav","status":"success"}`

// writeTest creates <root>/<name>/result.json plus the given log files.
func writeTest(t *testing.T, root, name, result string, logs map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(path, []byte(result), 0644))
	for logName, content := range logs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, logName), []byte(content), 0644))
	}
	return path
}

func cleanLogs() map[string]string {
	return map[string]string{"server.log": "", "client.log": "", "test.log": ""}
}

func newValidateService(buf *bytes.Buffer) *application.ValidateService {
	return application.NewValidateService(scanner.New(), domain.DefaultCriteria(), logging.New(buf, true))
}

func assertValidIffNoIssues(t *testing.T, v domain.Validation) {
	t.Helper()
	assert.Equal(t, len(v.Issues) == 0, v.Valid, "valid must mirror an empty issue list: %v", v.Issues)
}

func TestValidateResultFile_CleanSuccess(t *testing.T) {
	path := writeTest(t, t.TempDir(), "t1", goodRecord, cleanLogs())

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.True(t, v.Valid)
	assert.Empty(t, v.Issues)
	assert.Equal(t, 100, v.Score)
	require.NotNil(t, v.Details)
	assert.Equal(t, "t1", v.Details.TestID())
}

func TestValidateResultFile_InvalidJSON(t *testing.T) {
	path := writeTest(t, t.TempDir(), "t1", `{"test_id": "t1",`, cleanLogs())

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.False(t, v.Valid)
	require.Len(t, v.Issues, 1)
	assert.Contains(t, v.Issues[0], "Invalid JSON: ")
	assert.Equal(t, 0, v.Score)
	assert.Nil(t, v.Details)
}

func TestValidateResultFile_NonObjectJSON(t *testing.T) {
	path := writeTest(t, t.TempDir(), "t1", `["success"]`, cleanLogs())

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.False(t, v.Valid)
	require.Len(t, v.Issues, 1)
	assert.Contains(t, v.Issues[0], "Invalid JSON: ")
	assert.Equal(t, 0, v.Score)
}

func TestValidateResultFile_Missing(t *testing.T) {
	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(filepath.Join(t.TempDir(), "t1", "result.json"))

	assert.False(t, v.Valid)
	assert.Equal(t, []string{"Result file not found"}, v.Issues)
	assert.Equal(t, 0, v.Score)
}

func TestValidateResultFile_MissingFields(t *testing.T) {
	path := writeTest(t, t.TempDir(), "t1", `{"status":"success","timestamp":"2024-01-01T00:00:00Z"}`, cleanLogs())

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.False(t, v.Valid)
	assert.Equal(t, []string{
		"Missing required field: test_id",
		"Missing required field: client_type",
		"Missing required field: config_file",
		"Missing required field: audio_file",
	}, v.Issues)
	assert.Equal(t, 100, v.Score)
}

func TestValidateResultFile_FailedStatus(t *testing.T) {
	rec := `{"test_id":"t1","timestamp":"2024-01-01T00:00:00Z","client_type":"cli","config_file":"cfg.yaml","audio_file":"a.wav","status":"failed"}`
	path := writeTest(t, t.TempDir(), "t1", rec, cleanLogs())

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.False(t, v.Valid)
	assert.Equal(t, []string{"Test failed"}, v.Issues)
	assert.Equal(t, 50, v.Score)
}

func TestValidateResultFile_IssueOrder(t *testing.T) {
	// Missing fields, then status, then logs, then timestamp.
	path := writeTest(t, t.TempDir(), "t1", `{"status":"weird"}`, map[string]string{"client.log": "panic: boom"})

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.Equal(t, []string{
		"Missing required field: test_id",
		"Missing required field: timestamp",
		"Missing required field: client_type",
		"Missing required field: config_file",
		"Missing required field: audio_file",
		"Unknown status: weird",
		"Missing log file: server.log",
		"Critical error found in client.log: panic",
		"Missing log file: test.log",
		"Invalid timestamp format",
	}, v.Issues)
	assert.Equal(t, 0, v.Score)
	assertValidIffNoIssues(t, v)
}

func TestValidateResultFile_CriticalErrorDeducts(t *testing.T) {
	logs := cleanLogs()
	logs["client.log"] = "Fatal error occurred"
	path := writeTest(t, t.TempDir(), "t1", goodRecord, logs)

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	// "fatal error" matches both the error and fatal patterns.
	assert.Equal(t, []string{
		"Critical error found in client.log: error",
		"Critical error found in client.log: fatal",
	}, v.Issues)
	assert.Equal(t, 50, v.Score)
	assert.False(t, v.Valid)
}

func TestValidateResultFile_PatternCountedOncePerFile(t *testing.T) {
	logs := cleanLogs()
	logs["server.log"] = "panic\npanic\nPANIC\n"
	path := writeTest(t, t.TempDir(), "t1", goodRecord, logs)

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.Equal(t, []string{"Critical error found in server.log: panic"}, v.Issues)
	assert.Equal(t, 75, v.Score)
}

func TestValidateResultFile_ScoreFloorsAtZero(t *testing.T) {
	logs := map[string]string{
		"server.log": "error exception panic fatal segmentation fault",
		"client.log": "error",
		"test.log":   "",
	}
	path := writeTest(t, t.TempDir(), "t1", goodRecord, logs)

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.Len(t, v.Issues, 6)
	assert.Equal(t, 0, v.Score)
}

func TestValidateResultFile_UnreadableLog(t *testing.T) {
	path := writeTest(t, t.TempDir(), "t1", goodRecord, map[string]string{"server.log": "", "test.log": ""})
	require.NoError(t, os.Mkdir(filepath.Join(filepath.Dir(path), "client.log"), 0755))

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	require.Len(t, v.Issues, 1)
	assert.Contains(t, v.Issues[0], "Could not read log file client.log: ")
	assert.Equal(t, 100, v.Score)
	assert.False(t, v.Valid)
}

func TestValidateResultFile_BadTimestamp(t *testing.T) {
	rec := `{"test_id":"t1","timestamp":"yesterday","client_type":"cli","config_file":"cfg.yaml","audio_file":"a.wav","status":"success"}`
	path := writeTest(t, t.TempDir(), "t1", rec, cleanLogs())

	v := newValidateService(new(bytes.Buffer)).ValidateResultFile(path)

	assert.Equal(t, []string{"Invalid timestamp format"}, v.Issues)
	assert.Equal(t, 100, v.Score)
	assert.False(t, v.Valid)
}

func TestValidateResultFile_CustomCriteria(t *testing.T) {
	penalty := 40
	criteria := domain.Criteria{
		RequiredFields:  []string{"test_id"},
		LogFiles:        []string{"server.log"},
		CriticalErrors:  []string{"OOM"},
		CriticalPenalty: &penalty,
	}
	path := writeTest(t, t.TempDir(), "t1",
		`{"test_id":"t1","timestamp":"2024-01-01","status":"success"}`,
		map[string]string{"server.log": "killed: oom"})

	svc := application.NewValidateService(scanner.New(), criteria, logging.Discard())
	v := svc.ValidateResultFile(path)

	assert.Equal(t, []string{"Critical error found in server.log: oom"}, v.Issues)
	assert.Equal(t, 60, v.Score)
}

func TestValidateAll_EndToEndSuccess(t *testing.T) {
	root := t.TempDir()
	writeTest(t, root, "t1", goodRecord, cleanLogs())

	s := newValidateService(new(bytes.Buffer)).ValidateAll(root)

	assert.Equal(t, 1, s.TotalTests)
	assert.Equal(t, 1, s.ValidTests)
	assert.Equal(t, 0, s.FailedTests)
	assert.InDelta(t, 100.0, s.AverageScore, 0.0001)
	assert.True(t, s.Passed())
	assert.Equal(t, []string{"a.wav"}, s.MatrixCoverage.AudioFiles("cli", "cfg.yaml"))
	assert.Equal(t, 0, s.IssuesSummary.Len())
}

func TestValidateAll_EndToEndFatalInClientLog(t *testing.T) {
	root := t.TempDir()
	logs := cleanLogs()
	logs["client.log"] = "Fatal error occurred"
	writeTest(t, root, "t1", goodRecord, logs)

	s := newValidateService(new(bytes.Buffer)).ValidateAll(root)

	require.Len(t, s.Results, 1)
	v := s.Results[0]
	assert.Contains(t, v.Issues, "Critical error found in client.log: fatal")
	assert.False(t, v.Valid)
	assert.Equal(t, 1, s.FailedTests)
	assert.False(t, s.Passed())
}

func TestValidateAll_EmptyDirectory(t *testing.T) {
	buf := new(bytes.Buffer)
	s := newValidateService(buf).ValidateAll(t.TempDir())

	assert.Equal(t, 0, s.TotalTests)
	assert.Equal(t, 0, s.ValidTests)
	assert.Equal(t, 0, s.FailedTests)
	assert.Equal(t, 0.0, s.AverageScore)
	assert.Empty(t, s.Results)
	assert.Contains(t, stripansi.Strip(buf.String()), "[WARN] No result files found")
}

func TestValidateAll_MissingDirectory(t *testing.T) {
	buf := new(bytes.Buffer)
	root := filepath.Join(t.TempDir(), "nope")

	s := newValidateService(buf).ValidateAll(root)

	assert.Equal(t, 0, s.TotalTests)
	assert.Empty(t, s.Results)
	assert.Contains(t, stripansi.Strip(buf.String()), "[ERROR] Results directory does not exist: "+root)
}

func TestValidateAll_AggregatesAcrossNestedTests(t *testing.T) {
	root := t.TempDir()
	writeTest(t, root, "b_web", `{"test_id":"t2","timestamp":"2024-01-01T00:00:00Z","client_type":"web","config_file":"cfg.yaml","audio_file":"a.wav","status":"failed"}`, cleanLogs())
	writeTest(t, root, filepath.Join("nested", "a_cli"), goodRecord, cleanLogs())
	writeTest(t, root, "a_cli", goodRecord, cleanLogs())
	writeTest(t, root, "c_broken", `not json`, nil)

	buf := new(bytes.Buffer)
	s := newValidateService(buf).ValidateAll(root)

	assert.Equal(t, 4, s.TotalTests)
	assert.Equal(t, 2, s.ValidTests)
	assert.Equal(t, 2, s.FailedTests)
	assert.InDelta(t, 62.5, s.AverageScore, 0.0001)
	assert.Equal(t, s.TotalTests, s.ValidTests+s.FailedTests)

	var ids []string
	for _, v := range s.Results {
		ids = append(ids, v.TestID())
		assertValidIffNoIssues(t, v)
	}
	assert.Equal(t, []string{"a_cli", "b_web", "c_broken", "a_cli"}, ids)

	// Same client/config/audio seen twice is recorded once.
	assert.Equal(t, []string{"a.wav"}, s.MatrixCoverage.AudioFiles("cli", "cfg.yaml"))
	assert.Equal(t, []string{"a.wav"}, s.MatrixCoverage.AudioFiles("web", "cfg.yaml"))
	assert.Equal(t, 1, s.IssuesSummary.Count("Test failed"))
	assert.Contains(t, stripansi.Strip(buf.String()), "[INFO] Found 4 result files")
}

func TestValidateAll_UnreadableSubdirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeTest(t, root, "a_ok", goodRecord, cleanLogs())
	locked := filepath.Join(root, "b_locked")
	writeTest(t, root, "b_locked", goodRecord, cleanLogs())
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	buf := new(bytes.Buffer)
	s := newValidateService(buf).ValidateAll(root)

	assert.Equal(t, 1, s.TotalTests)
	assert.Contains(t, stripansi.Strip(buf.String()), "[WARN] Skipping unreadable path")
}
