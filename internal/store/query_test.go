// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/research-atlas/pkg/types"
)

func seedListing(t *testing.T, s *Store) {
	t.Helper()
	mustSave(t, s,
		pub("Coral Reef Recovery After Bleaching", 2021,
			types.AuthorRef{Name: "Siti Rahma", Affiliation: "IPB"}),
		pub("Volcanic Ash Dispersion Over Java", 2022,
			types.AuthorRef{Name: "Budi Santoso", Affiliation: "UGM"}),
		pub("Peatland Fire Detection From Satellites", 2022,
			types.AuthorRef{Name: "Dewi Lestari", Affiliation: "BRIN"}),
	)
}

func TestListPublicationsOrderAndPaging(t *testing.T) {
	s := testStore(t)
	seedListing(t, s)

	page, err := s.ListPublications(context.Background(), ListOptions{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.TotalPages != 2 {
		t.Fatalf("page meta = %+v", page)
	}
	if !page.HasNext || page.HasPrev {
		t.Errorf("HasNext/HasPrev = %v/%v", page.HasNext, page.HasPrev)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items", len(page.Items))
	}
	// Year DESC, then id DESC: the later-inserted 2022 row first.
	if page.Items[0].Title != "Peatland Fire Detection From Satellites" {
		t.Errorf("first item = %q", page.Items[0].Title)
	}
	if page.Items[1].Title != "Volcanic Ash Dispersion Over Java" {
		t.Errorf("second item = %q", page.Items[1].Title)
	}

	page2, err := s.ListPublications(context.Background(), ListOptions{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Items) != 1 || page2.Items[0].Year != 2021 {
		t.Fatalf("page 2 = %+v", page2.Items)
	}
	if page2.HasNext || !page2.HasPrev {
		t.Errorf("page 2 HasNext/HasPrev = %v/%v", page2.HasNext, page2.HasPrev)
	}
}

func TestListPublicationsFilters(t *testing.T) {
	s := testStore(t)
	seedListing(t, s)
	ctx := context.Background()

	byYear, err := s.ListPublications(ctx, ListOptions{Year: 2022})
	if err != nil {
		t.Fatal(err)
	}
	if byYear.Total != 2 {
		t.Errorf("year filter total = %d, want 2", byYear.Total)
	}

	bySearch, err := s.ListPublications(ctx, ListOptions{Search: "Coral"})
	if err != nil {
		t.Fatal(err)
	}
	if bySearch.Total != 1 || bySearch.Items[0].Year != 2021 {
		t.Errorf("search results = %+v", bySearch.Items)
	}

	none, err := s.ListPublications(ctx, ListOptions{Search: "quantum chromodynamics"})
	if err != nil {
		t.Fatal(err)
	}
	if none.Total != 0 || len(none.Items) != 0 {
		t.Errorf("expected empty result, got %+v", none)
	}
}

func TestListPublicationsByTopic(t *testing.T) {
	s := testStore(t)
	seedListing(t, s)
	ctx := context.Background()

	err := s.ReplaceTopics(ctx, []DiscoveredTopic{
		{
			Name:     "Fire / Peatland / Detection",
			Keywords: []string{"fire", "peatland", "detection"},
			Assignments: []Assignment{
				{PublicationID: 3, Weight: 0.8},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	topics, err := s.Topics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 1 {
		t.Fatalf("topics = %+v", topics)
	}

	page, err := s.ListPublications(ctx, ListOptions{TopicID: topics[0].ID})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != 3 {
		t.Errorf("topic filter results = %+v", page.Items)
	}
}

func TestGetPublication(t *testing.T) {
	s := testStore(t)
	seedListing(t, s)
	ctx := context.Background()

	detail, err := s.GetPublication(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Title != "Coral Reef Recovery After Bleaching" {
		t.Errorf("Title = %q", detail.Title)
	}
	if len(detail.Authors) != 1 || detail.Authors[0].Name != "Siti Rahma" {
		t.Errorf("Authors = %+v", detail.Authors)
	}

	_, err = s.GetPublication(ctx, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing lookup error = %v, want ErrNotFound", err)
	}
}

func TestReplaceTopicsIsFullReplace(t *testing.T) {
	s := testStore(t)
	seedListing(t, s)
	ctx := context.Background()

	err := s.ReplaceTopics(ctx, []DiscoveredTopic{
		{Name: "Old Topic One", Keywords: []string{"old"}, Assignments: []Assignment{{PublicationID: 1, Weight: 0.5}}},
		{Name: "Old Topic Two", Keywords: []string{"older"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	firstRun, err := s.Topics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(firstRun) != 2 {
		t.Fatalf("first run topics = %+v", firstRun)
	}
	oldIDs := map[int64]bool{firstRun[0].ID: true, firstRun[1].ID: true}

	err = s.ReplaceTopics(ctx, []DiscoveredTopic{
		{Name: "New Topic", Keywords: []string{"new", "fresh"}, Assignments: []Assignment{{PublicationID: 2, Weight: 0.9}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	secondRun, err := s.Topics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(secondRun) != 1 {
		t.Fatalf("second run topics = %+v", secondRun)
	}
	if oldIDs[secondRun[0].ID] {
		t.Error("old topic identity survived the replace")
	}
	if secondRun[0].PublicationCount != 1 {
		t.Errorf("PublicationCount = %d", secondRun[0].PublicationCount)
	}

	trends, err := s.TopicTrends(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(trends) != 1 || trends[0].Year != 2022 || trends[0].Count != 1 {
		t.Errorf("trends = %+v", trends)
	}
}

func TestQualifyingDocuments(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	long := pub("Long Abstract Publication Here", 2022, types.AuthorRef{Name: "A"})
	short := pub("Short Abstract Publication Here", 2022, types.AuthorRef{Name: "B"})
	short.Abstract = "Too short to model."
	sentinel := pub("Sentinel Abstract Publication Here", 2022, types.AuthorRef{Name: "C"})
	sentinel.Abstract = types.NoAbstract
	mustSave(t, s, long, short, sentinel)

	docs, err := s.QualifyingDocuments(ctx, 100, types.NoAbstract)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Title != "Long Abstract Publication Here" {
		t.Errorf("docs = %+v", docs)
	}
}
