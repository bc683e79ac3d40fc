package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	// Create shared temp directory for the binary
	var err error
	sharedTempDir, err = os.MkdirTemp("", "cloud-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup shared test resources
	if testCleanup != nil {
		testCleanup()
	}
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// SeedUser is a login/password pair provisioned before the server starts.
type SeedUser struct {
	Login    string
	Password string
}

// TableNames overrides the default table names. Empty fields keep the
// defaults.
type TableNames struct {
	Users    string
	Sessions string
	Files    string
}

// ServerConfig holds configuration for starting the cloud server.
type ServerConfig struct {
	Port      int
	DBType    string // sqlite, postgres
	DBDSN     string
	Tables    TableNames
	SeedUsers []SeedUser
}

// buildBinary compiles the cloud binary once per test run.
// Returns the path to the compiled binary.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "cloud")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/cloud")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the root directory of the project.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	// Find the go.mod file to determine project root
	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// writeConfigYAML renders the server config as YAML and writes it to a
// temp file. Returns the path.
func writeConfigYAML(t *testing.T, cfg ServerConfig, withServer bool) string {
	t.Helper()

	var sb strings.Builder
	if withServer {
		fmt.Fprintf(&sb, "server:\n  port: %d\n\n", cfg.Port)
	}

	fmt.Fprintf(&sb, "database:\n  type: %s\n  dsn: \"%s\"\n", cfg.DBType, cfg.DBDSN)
	if cfg.Tables.Users != "" {
		fmt.Fprintf(&sb, "  tables:\n    users: %s\n    sessions: %s\n    files: %s\n",
			cfg.Tables.Users, cfg.Tables.Sessions, cfg.Tables.Files)
	}

	sb.WriteString("\nlog:\n  level: error\n")

	if len(cfg.SeedUsers) > 0 {
		sb.WriteString("\nseed:\n  users:\n")
		for _, u := range cfg.SeedUsers {
			fmt.Fprintf(&sb, "    - login: %s\n      password: %s\n", u.Login, u.Password)
		}
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configPath, []byte(sb.String()), 0o600)
	require.NoError(t, err, "write config file")

	return configPath
}

// initDatabase runs the init command to migrate the schema and apply
// seed users.
func initDatabase(t *testing.T, cfg ServerConfig) {
	t.Helper()

	binary := buildBinary(t)
	configPath := writeConfigYAML(t, cfg, false)

	cmd := exec.Command(binary, "init", "--config", configPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "init database: %s", output)
}

// startServer starts the cloud binary with the given configuration.
// Returns the base URL and a cleanup function that must be called to stop the server.
func startServer(t *testing.T, cfg ServerConfig) (string, func()) {
	t.Helper()

	// Initialize the database before starting the server
	initDatabase(t, cfg)

	binary := buildBinary(t)
	configPath := writeConfigYAML(t, cfg, true)

	args := []string{
		"serve",
		"--config", configPath,
	}

	cmd := exec.Command(binary, args...)

	// Capture output for debugging
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	require.NoError(t, err, "start server")

	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)

	// Wait for server to be ready
	waitForServer(t, baseURL, 10*time.Second)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	return baseURL, cleanup
}

// waitForServer polls the server until it responds or times out.
// Any HTTP response counts, the routes all require auth anyway.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/")
		if err == nil {
			resp.Body.Close()
			return // Server is ready
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	addr := l.Addr().(*net.TCPAddr)
	port := addr.Port

	err = l.Close()
	require.NoError(t, err, "close port")

	return port
}

// errorBody mirrors the JSON error responses the server produces.
type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// decodeError decodes an error response body.
func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()

	var eb errorBody
	err := json.NewDecoder(resp.Body).Decode(&eb)
	require.NoError(t, err, "decode error body")
	return eb
}

// loginUser logs in and returns the session token.
func loginUser(t *testing.T, client *http.Client, baseURL, login, password string) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{"login": login, "password": password})
	require.NoError(t, err, "marshal credentials")

	resp, err := client.Post(baseURL+"/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err, "login request")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "login status")

	var result struct {
		Token string `json:"auth-token"`
	}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err, "decode login response")
	require.NotEmpty(t, result.Token, "token")

	return result.Token
}

// fileURL builds the /file URL with the filename query parameter.
func fileURL(baseURL, name string) string {
	return baseURL + "/file?" + url.Values{"filename": {name}}.Encode()
}

// authedRequest performs an HTTP request with the auth-token header set.
func authedRequest(t *testing.T, client *http.Client, method, rawURL, token string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, rawURL, body)
	require.NoError(t, err, "create request")
	if token != "" {
		req.Header.Set("auth-token", token)
	}
	if method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "do request")
	return resp
}

// uploadFile uploads content under the given name via a multipart form.
func uploadFile(t *testing.T, client *http.Client, baseURL, token, name string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err, "create form file")
	_, err = part.Write(content)
	require.NoError(t, err, "write content")
	require.NoError(t, mw.Close(), "close multipart writer")

	req, err := http.NewRequest(http.MethodPost, fileURL(baseURL, name), &buf)
	require.NoError(t, err, "create upload request")
	req.Header.Set("auth-token", token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err, "upload request")
	return resp
}

// listFiles performs a list request. An empty limit omits the parameter.
func listFiles(t *testing.T, client *http.Client, baseURL, token, limit string) *http.Response {
	t.Helper()

	u := baseURL + "/list"
	if limit != "" {
		u += "?limit=" + limit
	}
	return authedRequest(t, client, http.MethodGet, u, token, nil)
}
