// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package vidapi

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockServer provides a configurable backend for tests.
type MockServer struct {
	*httptest.Server
	mu            sync.Mutex
	metadata      VideoMetadata
	presets       []FormatPreset
	title         string
	formats       []FormatDescriptor
	platforms     []string
	payload       []byte
	filename      string
	contentType   string
	raw           map[string]cannedResponse
	delays        map[string]time.Duration
	requests      map[string]int
	lastQuery     VideoQuery
	lastRequestID string
}

type cannedResponse struct {
	status int
	body   string
}

// NewMockServer starts a mock backend with realistic default data.
func NewMockServer() *MockServer {
	m := &MockServer{}
	m.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc(PathInfo, m.handleInfo)
	mux.HandleFunc(PathFormats, m.handleFormats)
	mux.HandleFunc(PathDownload, m.handleDownload)
	mux.HandleFunc(PathPlatforms, m.handlePlatforms)
	mux.HandleFunc(PathHealth, m.handleHealth)

	m.Server = httptest.NewServer(mux)
	return m
}

// Reset restores the default data and clears failures, delays and counters.
func (m *MockServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := 213.0
	views := int64(1_234_567)
	date := "20091025"
	thumb := "https://i.example.com/dQw4w9WgXcQ/hq.jpg"
	desc := "The official video."
	page := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	m.metadata = VideoMetadata{
		Title:            "Never Gonna Give You Up",
		Uploader:         "Rick Astley",
		Duration:         &duration,
		ViewCount:        &views,
		UploadDate:       &date,
		Thumbnail:        &thumb,
		Description:      &desc,
		Platform:         "Youtube",
		FormatsAvailable: 3,
		WebpageURL:       &page,
	}
	m.presets = []FormatPreset{
		{Name: "Best Quality", Selector: "best", Description: "Best available quality"},
		{Name: "Audio Only", Selector: "bestaudio", Description: "Best audio quality only"},
	}

	size := int64(5_242_880)
	fps := 30.0
	m.title = m.metadata.Title
	m.formats = []FormatDescriptor{
		{FormatID: "18", Ext: "mp4", Resolution: "640x360", Filesize: &size, FPS: &fps, VCodec: "avc1", ACodec: "mp4a", FormatNote: "360p"},
		{FormatID: "22", Ext: "mp4", Resolution: "1280x720", FPS: &fps, VCodec: "avc1", ACodec: "mp4a", FormatNote: "720p"},
		{FormatID: "140", Ext: "m4a", Resolution: "audio only", ACodec: "mp4a", FormatNote: "medium"},
	}
	m.platforms = []string{"YouTube", "Vimeo", "TikTok", "SoundCloud"}
	m.payload = []byte("fake-video-bytes")
	m.filename = "Never Gonna Give You Up.mp4"
	m.contentType = "video/mp4"
	m.raw = make(map[string]cannedResponse)
	m.delays = make(map[string]time.Duration)
	m.requests = make(map[string]int)
	m.lastQuery = VideoQuery{}
	m.lastRequestID = ""
}

// SetFailure makes endpoint answer with status and {"error": message}.
// An empty message sends a body without an error member.
func (m *MockServer) SetFailure(endpoint string, status int, message string) {
	body := `{"success": false}`
	if message != "" {
		b, _ := json.Marshal(map[string]any{"success": false, "error": message})
		body = string(b)
	}
	m.SetRawResponse(endpoint, status, body)
}

// SetRawResponse makes endpoint answer with a fixed status and body.
func (m *MockServer) SetRawResponse(endpoint string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw[endpoint] = cannedResponse{status: status, body: body}
}

// SetDelay holds responses for endpoint until d passes or the client gives up.
func (m *MockServer) SetDelay(endpoint string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[endpoint] = d
}

// SetMetadata replaces the video returned by /api/info.
func (m *MockServer) SetMetadata(md VideoMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata = md
}

// SetFormats replaces the formats returned by /api/formats.
func (m *MockServer) SetFormats(title string, formats []FormatDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
	m.formats = formats
}

// SetPlatforms replaces the supported platforms list.
func (m *MockServer) SetPlatforms(platforms []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.platforms = platforms
}

// SetDownload replaces the download payload. An empty filename omits the
// Content-Disposition header.
func (m *MockServer) SetDownload(filename, contentType string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filename = filename
	m.contentType = contentType
	m.payload = data
}

// Requests returns how many requests reached endpoint.
func (m *MockServer) Requests(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[endpoint]
}

// TotalRequests returns the number of requests across all endpoints.
func (m *MockServer) TotalRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.requests {
		n += c
	}
	return n
}

// LastDownload returns the last query posted to /api/download.
func (m *MockServer) LastDownload() VideoQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery
}

// LastRequestID returns the X-Request-ID of the latest request.
func (m *MockServer) LastRequestID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequestID
}

// begin records the request, applies delays and canned responses. It returns
// false when the response has already been written.
func (m *MockServer) begin(w http.ResponseWriter, r *http.Request, endpoint string) bool {
	m.mu.Lock()
	m.requests[endpoint]++
	m.lastRequestID = r.Header.Get(HeaderRequestID)
	delay := m.delays[endpoint]
	canned, hasCanned := m.raw[endpoint]
	m.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			return false
		}
	}
	if hasCanned {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(canned.status)
		_, _ = w.Write([]byte(canned.body))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeURL(w http.ResponseWriter, r *http.Request, into any) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "error": "Method not allowed"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid JSON"})
		return false
	}
	return true
}

func (m *MockServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	if !m.begin(w, r, PathInfo) {
		return
	}
	var req urlRequest
	if !decodeURL(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "URL is required"})
		return
	}
	m.mu.Lock()
	md, presets := m.metadata, m.presets
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"metadata":          md,
		"supported_formats": presets,
	})
}

func (m *MockServer) handleFormats(w http.ResponseWriter, r *http.Request) {
	if !m.begin(w, r, PathFormats) {
		return
	}
	var req urlRequest
	if !decodeURL(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "URL is required"})
		return
	}
	m.mu.Lock()
	title, formats := m.title, m.formats
	m.mu.Unlock()
	if formats == nil {
		formats = []FormatDescriptor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"title":   title,
		"formats": formats,
	})
}

func (m *MockServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !m.begin(w, r, PathDownload) {
		return
	}
	var q VideoQuery
	if !decodeURL(w, r, &q) {
		return
	}
	if strings.TrimSpace(q.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "URL is required"})
		return
	}
	m.mu.Lock()
	m.lastQuery = q
	filename, contentType, payload := m.filename, m.contentType, m.payload
	m.mu.Unlock()

	if filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (m *MockServer) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	if !m.begin(w, r, PathPlatforms) {
		return
	}
	m.mu.Lock()
	platforms := m.platforms
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"platforms": platforms,
		"total":     len(platforms),
	})
}

func (m *MockServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !m.begin(w, r, PathHealth) {
		return
	}
	writeJSON(w, http.StatusOK, HealthStatus{Status: "healthy", Service: "yt-dlp API", Version: "1.0.0"})
}
