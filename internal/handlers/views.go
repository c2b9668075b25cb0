package handlers

import (
	"encoding/json"

	"github.com/reelzone/backend/internal/models"
	"github.com/reelzone/backend/internal/videos"
)

// videoView is the wire form of a video: the stored fields plus the resolved player URL.
type videoView struct {
	models.Video
}

func (v videoView) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(v.Video)
	if err != nil {
		return nil, err
	}
	extra, err := json.Marshal(struct {
		EmbedURL string `json:"embedUrl"`
	}{EmbedURL: videos.EmbedURL(v.URL)})
	if err != nil {
		return nil, err
	}
	// Splice the extra object's members into the video object.
	out := append(raw[:len(raw)-1:len(raw)-1], ',')
	return append(out, extra[1:]...), nil
}

func viewsOf(list []models.Video) []videoView {
	out := make([]videoView, 0, len(list))
	for _, v := range list {
		out = append(out, videoView{Video: v})
	}
	return out
}
