// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package webui

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/vidgrab/internal/render"
	"github.com/ManuGH/vidgrab/internal/vidapi"
	"github.com/ManuGH/vidgrab/internal/view"
)

type harness struct {
	mock   *vidapi.MockServer
	ts     *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock := vidapi.NewMockServer()
	t.Cleanup(mock.Close)

	srv := New(Config{Version: "v0.0.0-test"}, vidapi.New(mock.URL))
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{mock: mock, ts: ts, client: &http.Client{Jar: jar}}
}

// platformCount loads the page and counts the listed platforms.
func (h *harness) platformCount() int {
	resp, err := h.client.Get(h.ts.URL + "/")
	if err != nil {
		return -1
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return -1
	}
	return doc.Find("#platforms .platform").Length()
}

func (h *harness) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := h.client.Get(h.ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (h *harness) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", h.ts.URL)
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func TestIndexRendersFormAndPlatforms(t *testing.T) {
	h := newHarness(t)
	doc := document(t, h.get(t, "/"))

	assert.Equal(t, len(view.Presets()), doc.Find("#format option").Length())
	assert.Equal(t, view.DefaultFormat, doc.Find("#format option[selected]").AttrOr("value", ""))
	assert.Equal(t, 4, doc.Find("#platforms .platform").Length())
	assert.Equal(t, "YouTube", doc.Find("#platforms .platform").First().Text())
	assert.Contains(t, doc.Find(".version").Text(), "v0.0.0-test")
	assert.Zero(t, doc.Find("#results [data-kind]").Length())
}

func TestIndexLoadsPlatformsOncePerSession(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")
	h.get(t, "/")
	assert.Equal(t, 1, h.mock.Requests(vidapi.PathPlatforms))
}

func TestIndexDoesNotWaitForSlowPlatforms(t *testing.T) {
	h := newHarness(t)
	h.mock.SetDelay(vidapi.PathPlatforms, 2*time.Second)

	start := time.Now()
	doc := document(t, h.get(t, "/"))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "Loading platforms...", strings.TrimSpace(doc.Find("#platforms .platforms-loading").Text()))
	assert.Zero(t, doc.Find("#platforms .platform").Length())
	assert.Equal(t, 1, doc.Find("#get-info").Length())

	assert.Eventually(t, func() bool { return h.platformCount() == 4 }, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, 1, h.mock.Requests(vidapi.PathPlatforms))
}

func TestPlatformsPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.mock.SetFailure(vidapi.PathPlatforms, http.StatusInternalServerError, "down")

	doc := document(t, h.get(t, "/"))
	assert.Equal(t, render.PlatformsPlaceholder, strings.TrimSpace(doc.Find("#platforms .placeholder").Text()))
	assert.Zero(t, doc.Find("#results [data-kind]").Length())
}

func TestInfoShowsMetadata(t *testing.T) {
	h := newHarness(t)
	doc := document(t, h.post(t, "/ui/info", url.Values{"url": {"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}}))

	results := doc.Find("#results")
	assert.Equal(t, "success", results.Find("[data-kind]").AttrOr("data-kind", ""))
	assert.Equal(t, render.HeadingInfo, results.Find(".heading").Text())
	assert.Equal(t, "Never Gonna Give You Up", results.Find(".title").Text())
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", doc.Find("#url").AttrOr("value", ""))
}

func TestEmptyURLShowsValidationError(t *testing.T) {
	h := newHarness(t)
	doc := document(t, h.post(t, "/ui/info", url.Values{"url": {"   "}}))

	assert.Equal(t, vidapi.MsgMissingURL, doc.Find("#results .message").Text())
	assert.Zero(t, doc.Find("#results .loading").Length())
	assert.Zero(t, h.mock.Requests(vidapi.PathInfo))
}

func TestFormatsTable(t *testing.T) {
	h := newHarness(t)
	doc := document(t, h.post(t, "/ui/formats", url.Values{"url": {"https://youtu.be/x"}}))

	rows := doc.Find("#results table.formats tbody tr")
	require.Equal(t, 3, rows.Length())
	assert.Equal(t, "18", rows.First().Find("td").First().Text())
}

func TestBackendErrorRendersErrorPanel(t *testing.T) {
	h := newHarness(t)
	h.mock.SetFailure(vidapi.PathFormats, http.StatusBadRequest, "Unsupported URL")

	doc := document(t, h.post(t, "/ui/formats", url.Values{"url": {"https://example.com/x"}}))
	assert.Equal(t, "error", doc.Find("#results [data-kind]").AttrOr("data-kind", ""))
	assert.Equal(t, "Unsupported URL", doc.Find("#results .message").Text())
}

func TestDownloadStreamsAttachment(t *testing.T) {
	h := newHarness(t)
	resp := h.post(t, "/ui/download", url.Values{"url": {"https://youtu.be/x"}, "format": {"best[height<=480]"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake-video-bytes", string(body))
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Never Gonna Give You Up.mp4", vidapi.FilenameFromDisposition(resp.Header.Get("Content-Disposition")))
	assert.Equal(t, "best[height<=480]", h.mock.LastDownload().Format)
	assert.False(t, h.mock.LastDownload().AudioOnly)

	doc := document(t, h.get(t, "/"))
	assert.Equal(t, render.HeadingDownload, doc.Find("#results .heading").Text())
	assert.Zero(t, doc.Find("#results .saved-as").Length(), "web downloads are never written to disk")
}

func TestDownloadSanitizesAttachmentName(t *testing.T) {
	h := newHarness(t)
	h.mock.SetDownload(`../../etc/pass"wd.mp4`, "video/mp4", []byte("x"))

	resp := h.post(t, "/ui/download", url.Values{"url": {"https://youtu.be/x"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "_.._etc_pass_wd.mp4", vidapi.FilenameFromDisposition(resp.Header.Get("Content-Disposition")))
}

func TestDownloadFailureRendersPage(t *testing.T) {
	h := newHarness(t)
	h.mock.SetFailure(vidapi.PathDownload, http.StatusInternalServerError, "")

	doc := document(t, h.post(t, "/ui/download", url.Values{"url": {"https://youtu.be/x"}}))
	assert.Equal(t, "Download failed", doc.Find("#results .message").Text())
}

func TestAudioOnlyToggle(t *testing.T) {
	h := newHarness(t)

	doc := document(t, h.post(t, "/ui/audio-only", url.Values{"on": {"1"}, "url": {"https://youtu.be/x"}}))
	_, disabled := doc.Find("#format").Attr("disabled")
	assert.True(t, disabled)
	_, checked := doc.Find("#audio-only").Attr("checked")
	assert.True(t, checked)
	assert.Equal(t, view.AudioFormat, doc.Find("#format option[selected]").AttrOr("value", ""))
	assert.Equal(t, "https://youtu.be/x", doc.Find("#url").AttrOr("value", ""))
	assert.Equal(t, "0", doc.Find(".audio-toggle").AttrOr("value", ""))

	doc = document(t, h.post(t, "/ui/audio-only", url.Values{"on": {"0"}, "audio_only": {"on"}}))
	_, disabled = doc.Find("#format").Attr("disabled")
	assert.False(t, disabled)
	assert.Equal(t, view.DefaultFormat, doc.Find("#format option[selected]").AttrOr("value", ""))
}

func TestAudioOnlyToggleNeedsSameOriginPost(t *testing.T) {
	h := newHarness(t)

	resp := h.get(t, "/ui/audio-only?on=1")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, h.ts.URL+"/ui/audio-only", strings.NewReader("on=1"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = h.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	doc := document(t, h.get(t, "/"))
	_, checked := doc.Find("#audio-only").Attr("checked")
	assert.False(t, checked)
}

func TestAudioOnlyDownloadForcesAudioSelector(t *testing.T) {
	h := newHarness(t)
	// A disabled select is not submitted, so no format is posted.
	resp := h.post(t, "/ui/download", url.Values{"url": {"https://youtu.be/x"}, "audio_only": {"on"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	q := h.mock.LastDownload()
	assert.True(t, q.AudioOnly)
	assert.Equal(t, view.AudioFormat, q.Format)
}

func TestCrossOriginPostRejected(t *testing.T) {
	h := newHarness(t)
	req, err := http.NewRequest(http.MethodPost, h.ts.URL+"/ui/info", strings.NewReader("url=x"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, h.mock.TotalRequests())
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	h.post(t, "/ui/info", url.Values{"url": {"https://youtu.be/x"}})

	other := &http.Client{}
	resp, err := other.Get(h.ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	doc := document(t, resp)
	assert.Zero(t, doc.Find("#results [data-kind]").Length())
	assert.Empty(t, doc.Find("#url").AttrOr("value", ""))
}

func TestHealthEndpointsAndMetrics(t *testing.T) {
	h := newHarness(t)

	resp := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = h.get(t, "/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.get(t, "/metrics")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "vidgrab_http_requests_in_flight")
}

func TestReconfigureSwitchesBackend(t *testing.T) {
	h := newHarness(t)
	second := vidapi.NewMockServer()
	defer second.Close()

	srv := New(Config{}, vidapi.New(h.mock.URL))
	defer srv.Close()
	srv.Reconfigure(vidapi.New(second.URL))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 1, second.Requests(vidapi.PathPlatforms))
	assert.Zero(t, h.mock.Requests(vidapi.PathPlatforms))
}

func TestServeShutsDownWithoutLeaks(t *testing.T) {
	mock := vidapi.NewMockServer()
	defer mock.Close()
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	// The platforms load is still in flight at shutdown.
	mock.SetDelay(vidapi.PathPlatforms, time.Minute)

	srv := New(Config{ShutdownTimeout: time.Second}, vidapi.New(mock.URL))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	for _, path := range []string{"/metrics", "/"} {
		resp, err := client.Get("http://" + ln.Addr().String() + path)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSecureCookies(t *testing.T) {
	for _, secure := range []bool{false, true} {
		srv := New(Config{SecureCookies: secure}, vidapi.New("http://127.0.0.1:1"))
		w := httptest.NewRecorder()
		srv.sessions.get(w, httptest.NewRequest(http.MethodGet, "/", nil))
		srv.Close()

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookie, cookies[0].Name)
		assert.Equal(t, secure, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
	}
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newSessionStore(func(d view.Display) *view.Controller {
		return view.NewController(nil, d, nil)
	})
	store.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	first := store.get(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := w.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	assert.Same(t, first, store.get(httptest.NewRecorder(), req))

	now = now.Add(sessionTTL)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	assert.NotSame(t, first, store.get(httptest.NewRecorder(), req))
	assert.Equal(t, 1, store.len())
}

func TestBrowserSaverHandsPayloadToRequest(t *testing.T) {
	res := vidapi.DownloadResult{Filename: "clip.mp4", Data: []byte("x")}

	_, err := browserSaver{}.Save(context.Background(), res)
	assert.ErrorIs(t, err, errNoBrowser)

	h := &handoff{}
	savedAs, err := browserSaver{}.Save(withHandoff(context.Background(), h), res)
	require.NoError(t, err)
	assert.Empty(t, savedAs)
	assert.True(t, h.ok)
	assert.Equal(t, res, h.res)
}
