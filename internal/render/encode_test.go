// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vidgrab/internal/vidapi"
)

func renderDoc(t *testing.T, p Panel) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, p))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestWriteHTMLErrorPanel(t *testing.T) {
	doc := renderDoc(t, Error(&vidapi.RemoteError{Op: vidapi.OpInfo, Status: 500, Message: "boom"}))

	alert := doc.Find(`[data-kind="error"]`)
	require.Equal(t, 1, alert.Length())
	assert.Equal(t, "boom", alert.Find(".message").Text())
	assert.Contains(t, alert.Text(), "Error:")
	assert.Zero(t, doc.Find(`[data-kind="success"]`).Length())
}

func TestWriteHTMLEscapesBackendStrings(t *testing.T) {
	desc := `<img src=x onerror=alert(1)>`
	thumb := "javascript:alert(1)"
	doc := renderDoc(t, Info(vidapi.VideoMetadata{
		Title:       `<script>alert("x")</script>`,
		Uploader:    "u",
		Description: &desc,
		Thumbnail:   &thumb,
	}))

	assert.Zero(t, doc.Find("script").Length())
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find("h5.title").Text())
	assert.Equal(t, desc, doc.Find(".description small").Text())
	src, _ := doc.Find("img").Attr("src")
	assert.NotContains(t, src, "javascript:")
}

func TestWriteHTMLInfoPanel(t *testing.T) {
	views := int64(1000)
	doc := renderDoc(t, Info(vidapi.VideoMetadata{Title: "Clip", Uploader: "Someone", ViewCount: &views, FormatsAvailable: 4}))

	assert.Equal(t, "Video Information Retrieved", doc.Find(".heading").Text())
	assert.Equal(t, "1.0K views", doc.Find(".views").Text())
	assert.Equal(t, "Unknown", doc.Find(".duration").Text())
	assert.Equal(t, "4 formats available", doc.Find(".formats-available").Text())
	assert.Zero(t, doc.Find("img").Length())
}

func TestWriteHTMLFormatsTable(t *testing.T) {
	size := int64(1 << 20)
	doc := renderDoc(t, Formats("Clip", []vidapi.FormatDescriptor{
		{FormatID: "18", Ext: "mp4", Resolution: "640x360", Filesize: &size, FormatNote: "360p"},
		{FormatID: "140", Ext: "m4a", Resolution: "audio only", FormatNote: "medium"},
	}))

	rows := doc.Find("table.formats tbody tr")
	require.Equal(t, 2, rows.Length())
	cells := rows.First().Find("td").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"18", "mp4", "640x360", "1 MB", "N/A", "360p"}, cells)
	assert.Equal(t, "140", rows.Eq(1).Find("td").First().Text())
	assert.Equal(t, "Available formats for: Clip", doc.Find(".formats-title").Text())
}

func TestWriteHTMLDownloadPanel(t *testing.T) {
	doc := renderDoc(t, Download(vidapi.DownloadResult{Filename: "clip.mp4", Data: []byte("x")}, ""))

	assert.Equal(t, "Download Started", doc.Find(".heading").Text())
	assert.Equal(t, "clip.mp4", doc.Find(".filename").Text())
	assert.Contains(t, doc.Text(), "Your download should start automatically")
}

func TestWritePlatformsHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlatformsHTML(&buf, Platforms([]string{"YouTube", "<b>Vimeo</b>"}, nil)))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	badges := doc.Find(".platform").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"YouTube", "<b>Vimeo</b>"}, badges)

	buf.Reset()
	require.NoError(t, WritePlatformsHTML(&buf, Platforms(nil, errors.New("down"))))
	doc, err = goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Unable to load platforms", doc.Find(".placeholder").Text())
	assert.Zero(t, doc.Find(".platform").Length())
}

func TestWriteTextFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Formats("Clip", []vidapi.FormatDescriptor{
		{FormatID: "18", Ext: "mp4", Resolution: "640x360", FormatNote: "360p"},
	})))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Available Formats", lines[0])
	assert.Equal(t, "Available formats for: Clip", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "FORMAT ID"))
	assert.Equal(t, []string{"18", "mp4", "640x360", "Unknown", "N/A", "360p"}, strings.Fields(lines[3]))
}

func TestWriteTextError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Error(&vidapi.ValidationError{Op: "info", Field: "url", Message: vidapi.MsgMissingURL})))
	assert.Equal(t, "Error: Please enter a video URL\n", buf.String())
}

func TestWriteTextDownload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Download(vidapi.DownloadResult{Filename: "a.mp4", Data: make([]byte, 1024)}, "/out/a.mp4")))
	assert.Contains(t, buf.String(), "Saved to: /out/a.mp4 (1 KB)")
}

func TestWritePlatformsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlatformsText(&buf, Platforms(nil, errors.New("down"))))
	assert.Equal(t, "Unable to load platforms\n", buf.String())
}
