package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{in: "Movie", want: CategoryMovie},
		{in: " series ", want: CategorySeries},
		{in: "DOCUMENTARY", want: CategoryDocumentary},
		{in: "Filme", want: CategoryMovie},
		{in: "Série", want: CategorySeries},
		{in: "Documentário", want: CategoryDocumentary},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCategory(%q) = %q want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCategory("Podcast"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestVideoJSONSeries(t *testing.T) {
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	v := Video{
		ID:        "vid-1",
		Title:     "Harbor Lights",
		URL:       "https://youtu.be/abc",
		Tags:      []string{"Drama", "Drama"},
		CreatedAt: created,
		Clicks:    3,
		Kind: &Series{
			Season:       1,
			Episode:      2,
			EpisodeTitle: "Low Tide",
			Episodes: []Episode{
				{Season: 1, Episode: 1, Title: "Pilot", URL: "https://youtu.be/p"},
			},
		},
	}

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"category":"Series"`) || !strings.Contains(string(raw), `"episodeTitle":"Low Tide"`) {
		t.Fatalf("unexpected wire form %s", raw)
	}

	var decoded Video
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, v) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, v)
	}
}

func TestVideoJSONIgnoresSeriesFieldsOnMovie(t *testing.T) {
	raw := []byte(`{"id":"m1","title":"Nightfall","category":"Movie","tags":["Action"],"season":4,"episodeTitle":"stray","clicks":0}`)

	var v Video
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal should accept series fields on a movie: %v", err)
	}
	if v.Category() != CategoryMovie {
		t.Fatalf("expected movie got %s", v.Category())
	}
	if _, ok := v.Series(); ok {
		t.Fatal("movie must not carry series data")
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "episodeTitle") || strings.Contains(string(out), "season") {
		t.Fatalf("series fields leaked into movie wire form: %s", out)
	}
}

func TestVideoJSONRejectsUnknownCategory(t *testing.T) {
	var v Video
	if err := json.Unmarshal([]byte(`{"id":"x","category":"Podcast"}`), &v); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSeriesSeasonsAndEpisodes(t *testing.T) {
	s := &Series{Episodes: []Episode{
		{Season: 2, Episode: 2, Title: "b"},
		{Season: 1, Episode: 3, Title: "c"},
		{Season: 1, Episode: 1, Title: "a"},
		{Season: 2, Episode: 1, Title: "d"},
	}}

	if got := s.Seasons(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("unexpected seasons %v", got)
	}

	eps := s.EpisodesIn(1)
	if len(eps) != 2 || eps[0].Title != "a" || eps[1].Title != "c" {
		t.Fatalf("unexpected season 1 episodes %+v", eps)
	}

	if got := eps[0].DisplayTitle(); got != "T1E1 - a" {
		t.Fatalf("unexpected display title %q", got)
	}
	if got := (Episode{Season: 3, Episode: 4}).DisplayTitle(); got != "T3E4" {
		t.Fatalf("unexpected untitled display title %q", got)
	}
}

func TestPatchApply(t *testing.T) {
	base := Draft{Title: "Nightfall", Tags: []string{"Action"}, Kind: Movie{}}.Materialize("id-1", time.Unix(0, 0).UTC())
	base.Clicks = 7

	title := "Nightfall (Director's Cut)"
	series := CategorySeries
	season := 2
	patched, err := Patch{Title: &title, Category: &series, SeriesPatch: SeriesPatch{Season: &season}}.Apply(base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if patched.Title != title || patched.ID != "id-1" || patched.Clicks != 7 {
		t.Fatalf("unexpected patched video %+v", patched)
	}
	if !reflect.DeepEqual(patched.Tags, []string{"Action"}) {
		t.Fatalf("tags should be untouched, got %v", patched.Tags)
	}
	s, ok := patched.Series()
	if !ok || s.Season != 2 {
		t.Fatalf("expected series with season 2, got %+v", patched.Kind)
	}

	movie := CategoryMovie
	back, err := Patch{Category: &movie}.Apply(patched)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := back.Series(); ok {
		t.Fatal("series data should be dropped when leaving the Series category")
	}

	if _, ok := base.Series(); ok {
		t.Fatal("patch must not mutate its input")
	}

	bad := Category("Podcast")
	if _, err := (Patch{Category: &bad}).Apply(base); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSeriesPatchIgnoredOnMovie(t *testing.T) {
	base := Draft{Title: "Nightfall", Kind: Movie{}}.Materialize("id-1", time.Now())
	season := 3
	patched, err := Patch{SeriesPatch: SeriesPatch{Season: &season}}.Apply(base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := patched.Series(); ok {
		t.Fatal("series patch must not turn a movie into a series")
	}
}

func TestSessionValidity(t *testing.T) {
	now := time.Now()
	expired := AdminSession{Token: "t", ExpiresAt: NewTimestamp(now.Add(-time.Millisecond))}
	if expired.Valid(now) {
		t.Fatal("expected expired session to be invalid")
	}
	live := UserSession{Token: "t", ExpiresAt: NewTimestamp(now.Add(time.Minute))}
	if !live.Valid(now) {
		t.Fatal("expected live session to be valid")
	}
}
