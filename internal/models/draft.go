package models

import (
	"encoding/json"
	"time"
)

// Draft is the authoring input for a new Video: everything except the identifier,
// creation time and click counter.
type Draft struct {
	Title       string
	Description string
	URL         string
	Cover       string
	Tags        []string
	Kind        Kind
}

// Materialize turns the draft into a Video with the assigned identity fields.
func (d Draft) Materialize(id string, createdAt time.Time) Video {
	v := Video{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		URL:         d.URL,
		Cover:       d.Cover,
		Tags:        append([]string(nil), d.Tags...),
		CreatedAt:   createdAt,
		Kind:        d.Kind,
	}
	if v.Kind == nil {
		v.Kind = Movie{}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v.Clone()
}

// UnmarshalJSON accepts the same flat shape as a stored Video.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var v Video
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Draft{
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		Cover:       v.Cover,
		Tags:        v.Tags,
		Kind:        v.Kind,
	}
	return nil
}

// SeriesPatch replaces series-only fields. Nil fields keep their prior values.
type SeriesPatch struct {
	Season             *int       `json:"season,omitempty"`
	Episode            *int       `json:"episode,omitempty"`
	EpisodeTitle       *string    `json:"episodeTitle,omitempty"`
	EpisodeCover       *string    `json:"episodeCover,omitempty"`
	EpisodeDescription *string    `json:"episodeDescription,omitempty"`
	Episodes           *[]Episode `json:"episodes,omitempty"`
}

// Patch is a partial update. Nil fields keep their prior values.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Cover       *string   `json:"cover,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	SeriesPatch
}

// Apply merges the patch into v. Moving a video into the Series category starts with
// empty series data; moving it out drops the series data. Series fields in the patch
// are ignored unless the resulting video is a series. The id, creation time and click
// counter are never touched.
func (p Patch) Apply(v Video) (Video, error) {
	out := v.Clone()

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.URL != nil {
		out.URL = *p.URL
	}
	if p.Cover != nil {
		out.Cover = *p.Cover
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Category != nil {
		category, err := ParseCategory(string(*p.Category))
		if err != nil {
			return v, err
		}
		if category != out.Category() {
			out.Kind, _ = KindFor(category)
		}
	}

	if s, ok := out.Series(); ok {
		sp := p.SeriesPatch
		if sp.Season != nil {
			s.Season = *sp.Season
		}
		if sp.Episode != nil {
			s.Episode = *sp.Episode
		}
		if sp.EpisodeTitle != nil {
			s.EpisodeTitle = *sp.EpisodeTitle
		}
		if sp.EpisodeCover != nil {
			s.EpisodeCover = *sp.EpisodeCover
		}
		if sp.EpisodeDescription != nil {
			s.EpisodeDescription = *sp.EpisodeDescription
		}
		if sp.Episodes != nil {
			s.Episodes = append([]Episode{}, (*sp.Episodes)...)
		}
	}

	return out, nil
}
