package videos

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/reelzone/backend/internal/models"
)

func TestAutofillFillsBlanksOnly(t *testing.T) {
	provider := ProviderFunc(func(context.Context, string) (Metadata, error) {
		return Metadata{Title: "Remote title", Description: "Remote desc", Cover: "remote.jpg", Tags: []string{"remote"}}, nil
	})

	draft := models.Draft{URL: "https://youtu.be/abc", Title: "Mine", Kind: models.Movie{}}
	got := Autofill(context.Background(), provider, draft)

	if got.Title != "Mine" {
		t.Fatalf("author title overwritten: %q", got.Title)
	}
	if got.Description != "Remote desc" || got.Cover != "remote.jpg" {
		t.Fatalf("blank fields not filled: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"remote"}) {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
}

func TestAutofillLeavesDraftOnFailure(t *testing.T) {
	draft := models.Draft{URL: "https://youtu.be/abc"}
	failing := ProviderFunc(func(context.Context, string) (Metadata, error) {
		return Metadata{}, errors.New("offline")
	})

	if got := Autofill(context.Background(), failing, draft); !reflect.DeepEqual(got, draft) {
		t.Fatalf("draft changed on failure: %+v", got)
	}
	if got := Autofill(context.Background(), nil, draft); !reflect.DeepEqual(got, draft) {
		t.Fatalf("draft changed without provider: %+v", got)
	}

	called := false
	spy := ProviderFunc(func(context.Context, string) (Metadata, error) {
		called = true
		return Metadata{}, nil
	})
	Autofill(context.Background(), spy, models.Draft{Title: "No URL"})
	if called {
		t.Fatal("lookup must be skipped for a blank url")
	}
}
