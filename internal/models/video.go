package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Kind carries the category-specific part of a Video. Only *Series holds extra data, so
// series fields cannot exist on a movie or documentary value.
type Kind interface {
	Category() Category
}

// Movie is the Kind of a feature film.
type Movie struct{}

// Category implements Kind.
func (Movie) Category() Category { return CategoryMovie }

// Documentary is the Kind of a documentary.
type Documentary struct{}

// Category implements Kind.
func (Documentary) Category() Category { return CategoryDocumentary }

// Series is the Kind of an episodic show. The flat Season/Episode fields describe the
// headline episode; Episodes lists every episode known for the show.
type Series struct {
	Season             int       `json:"season,omitempty"`
	Episode            int       `json:"episode,omitempty"`
	EpisodeTitle       string    `json:"episodeTitle,omitempty"`
	EpisodeCover       string    `json:"episodeCover,omitempty"`
	EpisodeDescription string    `json:"episodeDescription,omitempty"`
	Episodes           []Episode `json:"episodes,omitempty"`
}

// Category implements Kind.
func (*Series) Category() Category { return CategorySeries }

// Seasons returns the distinct season numbers found in Episodes, ascending.
func (s *Series) Seasons() []int {
	if s == nil {
		return nil
	}
	seen := make(map[int]struct{})
	var seasons []int
	for _, ep := range s.Episodes {
		if _, ok := seen[ep.Season]; ok {
			continue
		}
		seen[ep.Season] = struct{}{}
		seasons = append(seasons, ep.Season)
	}
	sort.Ints(seasons)
	return seasons
}

// EpisodesIn returns the episodes of one season ordered by episode number.
func (s *Series) EpisodesIn(season int) []Episode {
	if s == nil {
		return nil
	}
	var out []Episode
	for _, ep := range s.Episodes {
		if ep.Season == season {
			out = append(out, ep)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Episode < out[j].Episode })
	return out
}

// Episode is one playable episode of a series.
type Episode struct {
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Cover       string `json:"cover,omitempty"`
	URL         string `json:"url"`
}

// DisplayTitle renders the episode as "T<season>E<episode> - <title>".
func (e Episode) DisplayTitle() string {
	if e.Title == "" {
		return fmt.Sprintf("T%dE%d", e.Season, e.Episode)
	}
	return fmt.Sprintf("T%dE%d - %s", e.Season, e.Episode, e.Title)
}

// KindFor returns an empty Kind for the category, or an error for unknown categories.
func KindFor(c Category) (Kind, error) {
	switch c {
	case CategoryMovie:
		return Movie{}, nil
	case CategorySeries:
		return &Series{}, nil
	case CategoryDocumentary:
		return Documentary{}, nil
	default:
		return nil, fmt.Errorf("unknown category %q", c)
	}
}

// Video is a catalog item.
type Video struct {
	ID          string
	Title       string
	Description string
	URL         string
	Cover       string
	Tags        []string
	CreatedAt   time.Time
	Clicks      int
	Kind        Kind
}

// Category derives the category from the video's Kind.
func (v Video) Category() Category {
	if v.Kind == nil {
		return CategoryMovie
	}
	return v.Kind.Category()
}

// Series returns the series data when the video is a series.
func (v Video) Series() (*Series, bool) {
	s, ok := v.Kind.(*Series)
	return s, ok && s != nil
}

// Clone returns a deep copy so callers cannot mutate stored slices.
func (v Video) Clone() Video {
	out := v
	out.Tags = append([]string(nil), v.Tags...)
	if s, ok := v.Series(); ok {
		cp := *s
		cp.Episodes = append([]Episode(nil), s.Episodes...)
		out.Kind = &cp
	}
	return out
}

// videoRecord is the flat wire shape of a Video.
type videoRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Cover       string    `json:"cover"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	Clicks      int       `json:"clicks"`
	Series
}

// MarshalJSON writes the flat record; series fields appear only for series.
func (v Video) MarshalJSON() ([]byte, error) {
	rec := videoRecord{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		Cover:       v.Cover,
		Category:    v.Category(),
		Tags:        v.Tags,
		CreatedAt:   v.CreatedAt,
		Clicks:      v.Clicks,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if s, ok := v.Series(); ok {
		rec.Series = *s
	}
	return json.Marshal(rec)
}

// UnmarshalJSON reads the flat record. Series fields on a non-series record are ignored.
func (v *Video) UnmarshalJSON(data []byte) error {
	var rec videoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	category, err := ParseCategory(string(rec.Category))
	if err != nil {
		return err
	}

	*v = Video{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		URL:         rec.URL,
		Cover:       rec.Cover,
		Tags:        rec.Tags,
		CreatedAt:   rec.CreatedAt,
		Clicks:      rec.Clicks,
	}
	if category == CategorySeries {
		s := rec.Series
		v.Kind = &s
	} else {
		v.Kind, _ = KindFor(category)
	}
	return nil
}
