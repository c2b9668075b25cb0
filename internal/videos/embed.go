package videos

import (
	"regexp"
	"strings"
)

// Host identifies a recognised video host.
type Host string

const (
	HostUnknown Host = ""
	HostDrive   Host = "drive"
	HostYouTube Host = "youtube"
)

var (
	driveFileID = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	youtubeID   = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)
)

// Link is a video URL resolved to its host and the host's identifier.
type Link struct {
	Host Host
	ID   string
}

// ParseLink recognises Google Drive file links and YouTube watch or short links.
func ParseLink(raw string) (Link, bool) {
	if strings.Contains(raw, "drive.google.com") {
		if m := driveFileID.FindStringSubmatch(raw); m != nil {
			return Link{Host: HostDrive, ID: m[1]}, true
		}
	}
	if m := youtubeID.FindStringSubmatch(raw); m != nil {
		return Link{Host: HostYouTube, ID: m[1]}, true
	}
	return Link{}, false
}

// EmbedURL returns the embeddable player URL for a video link. Unrecognised links are
// returned unchanged.
func EmbedURL(raw string) string {
	link, ok := ParseLink(raw)
	if !ok {
		return raw
	}
	switch link.Host {
	case HostDrive:
		return "https://drive.google.com/file/d/" + link.ID + "/preview"
	case HostYouTube:
		return "https://www.youtube.com/embed/" + link.ID
	}
	return raw
}

// cacheKey collapses the many spellings of one hosted video to a single key.
func cacheKey(raw string) string {
	if link, ok := ParseLink(raw); ok {
		return string(link.Host) + ":" + link.ID
	}
	return strings.TrimSpace(raw)
}
