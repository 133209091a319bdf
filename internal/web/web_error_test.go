package web_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/factory"
)

func TestGameRequiresBothPlayers(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/juego?jugador1=Ana")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
}

func TestGameUnknownPlayers(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/juego?jugador1=Ana&jugador2=Beto")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGameUnknownSession(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/juego?id_partida=99&jugador1=Ana&jugador2=Beto")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "SESSION_NOT_FOUND")
}

func TestGameMalformedID(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/juego?id_partida=abc&jugador1=Ana&jugador2=Beto")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestViewerRequiresID(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/ver_partida")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.get("/ver_partida?id_partida=7")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUnknownPageNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no-existe")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticFileServing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))

	ts := newWebTestServerWithApp(t, factory.NewTestApp().WithAssets(dir))

	rr := ts.get("/Assets/style.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "body{}", rr.Body.String())

	rr = ts.get("/Assets/missing.png")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticFilesDisabledWithoutDir(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/Assets/style.css")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
