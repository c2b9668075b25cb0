package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelzone/backend/internal/models"
)

func TestFeaturedLifecycle(t *testing.T) {
	s := newTestServer(t)
	v := s.seed(t, models.Draft{Title: "Nightfall", Kind: models.Movie{}})[0]

	rec := s.do(t, http.MethodGet, "/api/v1/featured", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/featured", `{"id":"`+v.ID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.asAdmin(t, http.MethodPut, "/api/v1/featured", `{"id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.asAdmin(t, http.MethodPut, "/api/v1/featured", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.asAdmin(t, http.MethodPut, "/api/v1/featured", `{"id":"`+v.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/featured", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Video
	decodeBody(t, rec, &got)
	assert.Equal(t, v.ID, got.ID)

	rec = s.asAdmin(t, http.MethodPatch, "/api/v1/featured", `{"title":"Nightfall Returns"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &got)
	assert.Equal(t, "Nightfall Returns", got.Title)

	rec = s.asAdmin(t, http.MethodPatch, "/api/v1/featured", `{"category":"Podcast"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.asAdmin(t, http.MethodDelete, "/api/v1/featured", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/featured", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, ok := s.catalog.Get(t.Context(), v.ID)
	assert.True(t, ok, "clearing the spotlight keeps the video")

	rec = s.asAdmin(t, http.MethodPatch, "/api/v1/featured", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFeatured(t *testing.T) {
	s := newTestServer(t)

	rec := s.asAdmin(t, http.MethodPost, "/api/v1/featured",
		`{"title":"Deep Blue","url":"https://drive.google.com/file/d/abc_DEF-1/view","category":"Documentary"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var raw map[string]any
	decodeBody(t, rec, &raw)
	assert.Equal(t, "https://drive.google.com/file/d/abc_DEF-1/preview", raw["embedUrl"])

	featured, ok := s.featured.Get(t.Context())
	require.True(t, ok)
	assert.Equal(t, raw["id"], featured.ID)
	assert.Len(t, s.catalog.List(t.Context()), 1)
}

func TestFeaturedClearedWhenVideoDeleted(t *testing.T) {
	s := newTestServer(t)
	v := s.seed(t, models.Draft{Title: "Nightfall", Kind: models.Movie{}})[0]
	ok, err := s.featured.Set(t.Context(), v.ID)
	require.NoError(t, err)
	require.True(t, ok)

	rec := s.asAdmin(t, http.MethodDelete, "/api/v1/videos/"+v.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/featured", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
