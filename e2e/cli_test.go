package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/warfront/internal/cli"
	"github.com/mcoot/warfront/internal/factory"
)

// cliRunner drives the wfgame command tree in-process
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// startTestServer serves a fresh in-memory application
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(factory.NewTestApp().Handler())
	t.Cleanup(ts.Close)
	return ts
}

// Response types for JSON parsing
type playerResponse struct {
	Username string `json:"username"`
	Gold     int64  `json:"gold"`
	Level    int    `json:"level"`
	IsDev    bool   `json:"is_dev"`
}

type authResponse struct {
	Player       playerResponse `json:"player"`
	SessionToken string         `json:"session_token"`
}

type meResponse struct {
	LoggedIn bool            `json:"logged_in"`
	Player   *playerResponse `json:"player"`
}

type lobbyResponse struct {
	ID         string             `json:"id"`
	Host       string             `json:"host"`
	Mode       string             `json:"mode"`
	MaxPlayers int                `json:"max_players"`
	Players    []string           `json:"players"`
	Teams      map[string]*string `json:"teams"`
	Status     string             `json:"status"`
}

type balanceResponse struct {
	Username string `json:"username"`
	Gold     int64  `json:"gold"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.URL)

	output, err := runner.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decode[map[string]string](t, output)["status"])
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.URL)

	output, err := runner.run("player", "register", "--user", "alice", "--pass", "password123")
	require.NoError(t, err, "output: %s", output)
	reg := decode[authResponse](t, output)
	assert.Equal(t, "alice", reg.Player.Username)
	assert.Equal(t, int64(1000), reg.Player.Gold)
	assert.NotEmpty(t, reg.SessionToken)

	// token is read back from the token file
	output, err = runner.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	me := decode[meResponse](t, output)
	assert.True(t, me.LoggedIn)
	require.NotNil(t, me.Player)
	assert.Equal(t, "alice", me.Player.Username)

	output, err = runner.run("player", "stats", "--level", "4", "--xp", "900", "--wins", "3")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, 4, decode[playerResponse](t, output).Level)

	output, err = runner.run("player", "logout")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Logged out", decode[messageResponse](t, output).Message)

	output, err = runner.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	assert.False(t, decode[meResponse](t, output).LoggedIn)

	_, err = runner.run("player", "login", "--user", "alice", "--pass", "wrongpass")
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.Equal(t, 401, apiErr.Status)
}

func TestCLI_LobbyFlow(t *testing.T) {
	ts := startTestServer(t)
	alice := newCLIRunner(t, ts.URL)
	bob := newCLIRunner(t, ts.URL)

	_, err := alice.run("player", "register", "--user", "alice", "--pass", "password123")
	require.NoError(t, err)
	_, err = bob.run("player", "register", "--user", "bob", "--pass", "password123")
	require.NoError(t, err)

	output, err := alice.run("lobby", "create", "--map", "desert_siege", "--mode", "1v1", "--game-time", "300")
	require.NoError(t, err, "output: %s", output)
	created := decode[lobbyResponse](t, output)
	assert.Equal(t, "alice", created.Host)
	assert.Equal(t, 2, created.MaxPlayers)
	assert.Equal(t, "waiting", created.Status)
	id := created.ID

	output, err = bob.run("lobby", "list")
	require.NoError(t, err, "output: %s", output)
	listed := decode[[]lobbyResponse](t, output)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)

	output, err = bob.run("lobby", "join", id)
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []string{"alice", "bob"}, decode[lobbyResponse](t, output).Players)

	output, err = bob.run("lobby", "team", id, "blue")
	require.NoError(t, err, "output: %s", output)
	teams := decode[lobbyResponse](t, output).Teams
	require.NotNil(t, teams["bob"])
	assert.Equal(t, "blue", *teams["bob"])

	_, err = bob.run("lobby", "start", id)
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_HOST", apiErr.Code)

	output, err = alice.run("lobby", "start", id)
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "in_progress", decode[lobbyResponse](t, output).Status)

	output, err = bob.run("match", "active")
	require.NoError(t, err, "output: %s", output)
	active := decode[struct {
		Match *lobbyResponse `json:"match"`
	}](t, output)
	require.NotNil(t, active.Match)
	assert.Equal(t, id, active.Match.ID)

	output, err = alice.run("lobby", "leave", id)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, decode[messageResponse](t, output).Message, "Left lobby")

	_, err = alice.run("lobby", "get", id)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestCLI_DeveloperTools(t *testing.T) {
	ts := startTestServer(t)
	dev := newCLIRunner(t, ts.URL)
	player := newCLIRunner(t, ts.URL)

	_, err := dev.run("player", "login", "--user", factory.TestDeveloperUsername, "--pass", factory.TestDeveloperPassword)
	require.NoError(t, err)
	_, err = player.run("player", "register", "--user", "bob", "--pass", "password123")
	require.NoError(t, err)

	output, err := dev.run("dev", "send-gold", "--to", "bob", "--amount", "250")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, balanceResponse{Username: "bob", Gold: 1250}, decode[balanceResponse](t, output))

	output, err = dev.run("dev", "set-gold", "--amount", "5")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, balanceResponse{Username: factory.TestDeveloperUsername, Gold: 5}, decode[balanceResponse](t, output))

	output, err = dev.run("dev", "ledger")
	require.NoError(t, err, "output: %s", output)
	ledger := decode[[]map[string]any](t, output)
	require.Len(t, ledger, 2)
	assert.Equal(t, "dev_send", ledger[0]["type"])
	assert.Equal(t, "dev_set", ledger[1]["type"])

	_, err = player.run("dev", "ledger")
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

func TestCLI_Maps(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.URL)

	output, err := runner.run("maps")
	require.NoError(t, err, "output: %s", output)
	maps := decode[[]map[string]any](t, output)
	assert.Len(t, maps, 3)
}

func TestCLI_TextOutput(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.URL)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--server", runner.serverURL, "--token-file", runner.tokenFile, "lobby", "list"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "No open lobbies\n", out.String())
}
