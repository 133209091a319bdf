package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/cli"
	"github.com/mcoot/connectfour/internal/factory"
)

// cliRunner drives the c4ctl root command in-process
type cliRunner struct {
	serverURL string
}

func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()

	app := factory.NewTestApp()
	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)

	return &cliRunner{serverURL: server.URL}
}

func (r *cliRunner) runWithInput(stdin string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runWithInput("", args...)
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sessionCreatedResponse struct {
	Success   bool  `json:"success"`
	IDPartida int64 `json:"id_partida"`
}

type statsResponse struct {
	Puntuacion int `json:"Puntuacion"`
	Ganadas    int `json:"Ganadas"`
	Empatadas  int `json:"Empatadas"`
	Perdidas   int `json:"Perdidas"`
}

type leaderboardResponse []struct {
	Nombre     string `json:"Nombre"`
	Puntuacion int    `json:"Puntuacion"`
}

type sessionListResponse []struct {
	PartidaID int64  `json:"PartidaID"`
	Jugador1  string `json:"Jugador1"`
	Jugador2  string `json:"Jugador2"`
	Estado    string `json:"Estado"`
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
	c := newCLIRunner(t)

	output, err := c.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decode[healthResponse](t, output).Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	c := newCLIRunner(t)

	output, err := c.run("player", "register", "--name", "Ana", "--id", "111")
	require.NoError(t, err, "output: %s", output)
	resp := decode[resultResponse](t, output)
	assert.True(t, resp.Success)
	assert.Equal(t, "¡Ana registrado con éxito!", resp.Message)

	// Duplicate registration is reported as an error
	_, err = c.run("player", "register", "--name", "ana", "--id", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya existen")

	output, err = c.run("player", "stats", "Ana")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, statsResponse{}, decode[statsResponse](t, output))

	_, err = c.run("player", "stats", "Nadie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLAYER_NOT_FOUND")
}

func TestCLI_FullGameFlow(t *testing.T) {
	c := newCLIRunner(t)

	for _, p := range [][2]string{{"Ana", "111"}, {"Beto", "222"}} {
		output, err := c.run("player", "register", "--name", p[0], "--id", p[1])
		require.NoError(t, err, "output: %s", output)
	}

	// Start a session
	output, err := c.run("game", "create", "Ana", "Beto")
	require.NoError(t, err, "output: %s", output)
	created := decode[sessionCreatedResponse](t, output)
	require.True(t, created.Success)
	require.Equal(t, int64(1), created.IDPartida)

	// Update the board from stdin
	board := `{"tablero":[[],[],[],[],[],[0]],"turno":1}`
	output, err = c.runWithInput(board, "game", "update", "1", "--board", "-")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Session 1 updated", decode[messageResponse](t, output).Message)

	// Update the board from a file
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tablero":[],"turno":2}`), 0o644))
	output, err = c.run("game", "update", "1", "--board", path)
	require.NoError(t, err, "output: %s", output)

	// Finish and record the result
	output, err = c.run("game", "finish", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Session 1 finished", decode[messageResponse](t, output).Message)

	output, err = c.run("result", "win", "Ana", "Beto")
	require.NoError(t, err, "output: %s", output)

	// A finished session can no longer be updated
	_, err = c.runWithInput(board, "game", "update", "1", "--board", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_FINISHED")

	// Rematch
	output, err = c.run("game", "rematch", "Ana", "Beto", "--from", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, int64(2), decode[sessionCreatedResponse](t, output).IDPartida)

	output, err = c.run("game", "list")
	require.NoError(t, err, "output: %s", output)
	list := decode[sessionListResponse](t, output)
	require.Len(t, list, 2)
	assert.Equal(t, "Terminada", list[1].Estado)
	assert.Equal(t, "En progreso", list[0].Estado)

	output, err = c.run("leaderboard")
	require.NoError(t, err, "output: %s", output)
	board2 := decode[leaderboardResponse](t, output)
	require.Len(t, board2, 2)
	assert.Equal(t, "Ana", board2[0].Nombre)
	assert.Equal(t, 1, board2[0].Puntuacion)

	output, err = c.run("result", "draw", "Ana", "Beto")
	require.NoError(t, err, "output: %s", output)

	output, err = c.run("player", "stats", "Beto")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, statsResponse{Puntuacion: -1, Empatadas: 1, Perdidas: 1}, decode[statsResponse](t, output))
}

func TestCLI_TextOutput(t *testing.T) {
	c := newCLIRunner(t)

	var stdout bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--server", c.serverURL, "leaderboard"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "No players\n", stdout.String())
}

func TestCLI_Errors(t *testing.T) {
	c := newCLIRunner(t)

	_, err := c.run("game", "create", "Ana")
	assert.Error(t, err)

	_, err = c.run("game", "finish", "abc")
	assert.Error(t, err)

	_, err = c.run("game", "finish", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_NOT_FOUND")

	_, err = c.runWithInput("[1,2]", "game", "update", "1", "--board", "-")
	assert.Error(t, err)

	_, err = c.run("--output", "yaml", "health")
	assert.Error(t, err)
}
