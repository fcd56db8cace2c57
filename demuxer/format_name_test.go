package demuxer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatNameFromURL(t *testing.T) {
	t.Parallel()

	for url, expected := range map[string]string{
		"video.h264":                 "h264",
		"/data/clip.265":             "hevc",
		"file:///data/Clip.HEVC":     "hevc",
		"stream.ivf":                 "ivf",
		"av1.obu":                    "obu",
		"old.m2v":                    "mpegvideo",
		"movie.mp4":                  "",
		"movie.mkv":                  "",
		"rtsp://camera/stream.h264":  "",
		"srt://127.0.0.1:9000":       "",
		"https://example.org/a.hevc": "",
	} {
		require.Equal(t, expected, FormatNameFromURL(url), url)
	}
}

func TestIsFileURL(t *testing.T) {
	t.Parallel()

	require.True(t, IsFileURL("/tmp/a.mp4"))
	require.True(t, IsFileURL("file:///tmp/a.mp4"))
	require.True(t, IsFileURL("relative/a.mp4"))
	require.False(t, IsFileURL("rtmp://host/app/key"))
	require.False(t, IsFileURL("udp://239.0.0.1:1234"))
}
