package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/factory"
)

// webTestServer drives the composed handler in-process
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerWithApp(t, factory.NewTestApp())
}

func newWebTestServerWithApp(t *testing.T, app *factory.TestApp) *webTestServer {
	t.Helper()
	return &webTestServer{
		t:       t,
		handler: app.Handler(),
		app:     app,
	}
}

// request sends form, if any, url-encoded
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// followRedirect requests the Location of a 303 answer
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location)
	return ts.get(location)
}

// registerPlayer registers a player through the menu form
func (ts *webTestServer) registerPlayer(name, identity string) {
	ts.t.Helper()
	rr := ts.post("/registro", url.Values{"nombre": {name}, "identificacion": {identity}})
	require.Equal(ts.t, http.StatusOK, rr.Code)
	require.Contains(ts.t, rr.Body.String(), `"success":true`)
}

// startGame submits the menu's new-game form and returns the game page address
func (ts *webTestServer) startGame(player1, player2 string) string {
	ts.t.Helper()
	q := url.Values{"jugador1": {player1}, "jugador2": {player2}}
	rr := ts.get("/api/crear_partida_front?" + q.Encode())
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)
	return rr.Header().Get("Location")
}

// parseHTML parses a page body, failing the test on malformed markup
func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	return doc
}

func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	assert.Positive(t, doc.Find(selector).Length(), "no element matches %q", selector)
}

func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	assert.Zero(t, doc.Find(selector).Length(), "unexpected element matching %q", selector)
}

// assertContainsText checks the combined text of every element matching selector
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if !assert.Positive(t, el.Length(), "no element matches %q", selector) {
		return
	}
	assert.Contains(t, el.Text(), text, "text of %q", selector)
}
