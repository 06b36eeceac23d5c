package e2e_test

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerace/typerace-go/internal/api"
	"github.com/typerace/typerace-go/internal/factory"
	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/services/registry"
	"github.com/typerace/typerace-go/internal/services/room"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(projectRoot, "bin", "typerace-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/racecli")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{"--server", r.serverURL}, args...)
	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// command returns an unstarted CLI process for long-running race sessions
func (r *cliRunner) command(args ...string) *exec.Cmd {
	fullArgs := append([]string{"--server", r.serverURL}, args...)
	return exec.Command(r.binaryPath, fullArgs...)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

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

// raceCountdown keeps the e2e races short; both the server and the CLI
// typists are configured with it.
const raceCountdown = 500 * time.Millisecond

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	regCfg := registry.DefaultConfig()
	regCfg.Room.CountdownDuration = raceCountdown

	app, err := factory.New(factory.Config{
		Registry: regCfg,
		Logger:   logger,
	})
	require.NoError(t, err)

	projectRoot := findProjectRoot(t)
	err = app.PassageService.LoadFromFile(context.Background(), filepath.Join(projectRoot, "data/passages.txt"))
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
		Gateway:  app.Gateway,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Server is ok")
}

func TestCLI_RoomInspection(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Seed a room directly through the in-process registry
	snapshot, err := ts.app.Registry.CreateRoom(room.PlayerInfo{
		ConnectionID: model.ConnectionID("conn-a"),
		Username:     "alice",
	})
	require.NoError(t, err)

	output, err := cli.run("room", "get", string(snapshot.ID))
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, string(snapshot.ID))
	assert.Contains(t, output, "State:   lobby")
	assert.Contains(t, output, "alice")

	output, err = cli.run("room", "get", "ZZZZ99")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}

func TestCLI_FullRace(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// High simulated wpm keeps the race itself to roughly one tick
	host := cli.command("race", "create",
		"--username", "alice",
		"--start-after", "2s",
		"--countdown", raceCountdown.String(),
		"--wpm", "2000")
	hostOut := &bytes.Buffer{}
	hostPipe, err := host.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, host.Start())

	// Scrape the room id off the host's streaming output
	var roomID string
	scanner := bufio.NewScanner(hostPipe)
	for scanner.Scan() {
		line := scanner.Text()
		hostOut.WriteString(line + "\n")
		if id, found := strings.CutPrefix(line, "Room created: "); found {
			roomID = id
			break
		}
	}
	require.NotEmpty(t, roomID, "host output: %s", hostOut.String())

	joinerDone := make(chan struct{})
	var joinerOutput string
	var joinerErr error
	go func() {
		defer close(joinerDone)
		joinerOutput, joinerErr = cli.run("race", "join", roomID,
			"--username", "bob",
			"--countdown", raceCountdown.String(),
			"--wpm", "1500")
	}()

	// Drain the rest of the host's output, then reap it
	go func() {
		for scanner.Scan() {
			hostOut.WriteString(scanner.Text() + "\n")
		}
	}()
	hostDone := make(chan error, 1)
	go func() { hostDone <- host.Wait() }()

	select {
	case err := <-hostDone:
		require.NoError(t, err, "host output: %s", hostOut.String())
	case <-time.After(15 * time.Second):
		_ = host.Process.Kill()
		t.Fatalf("host did not finish, output: %s", hostOut.String())
	}

	select {
	case <-joinerDone:
		require.NoError(t, joinerErr, "joiner output: %s", joinerOutput)
	case <-time.After(15 * time.Second):
		t.Fatalf("joiner did not finish, output: %s", joinerOutput)
	}

	for _, output := range []string{hostOut.String(), joinerOutput} {
		assert.Contains(t, output, "Race complete!")
		assert.Contains(t, output, "alice")
		assert.Contains(t, output, "bob")
		assert.Contains(t, output, "#1")
		assert.Contains(t, output, "#2")
	}
}
