package demuxer

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// FormatNameFromURL guesses the libav input format for inputs that probing
// handles poorly: elementary video streams without a container. Empty
// means "let libav probe".
func FormatNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !isFileScheme(u.Scheme) {
		return ""
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	return FormatNameFromFileExtension(path)
}

func FormatNameFromFileExtension(path string) string {
	switch {
	case hasFileExtension(path, ".h264", ".264", ".avc"):
		return "h264"
	case hasFileExtension(path, ".h265", ".265", ".hevc"):
		return "hevc"
	case hasFileExtension(path, ".ivf"):
		return "ivf"
	case hasFileExtension(path, ".obu"):
		return "obu"
	case hasFileExtension(path, ".m1v", ".m2v"):
		return "mpegvideo"
	case hasFileExtension(path, ".mjpeg", ".mjpg"):
		return "mjpeg"
	default:
		return ""
	}
}

// IsFileURL tells whether the URL points to a local file.
func IsFileURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return isFileScheme(u.Scheme)
}

func isFileScheme(scheme string) bool {
	switch scheme {
	case "file", "":
		return true
	case "rtmp", "rtmps", "srt", "udp", "tcp", "http", "https", "rtsp":
		return false
	default:
		// single-letter schemes are Windows drive letters
		return len(scheme) == 1
	}
}

func hasFileExtension(path string, exts ...string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}
