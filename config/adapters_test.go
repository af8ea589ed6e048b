package config

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildSearchURL_DefaultSpaceEncoding(t *testing.T) {
	a := &Adapter{SearchURL: "https://example.com/search?q={query}"}
	got := a.BuildSearchURL("iphone 13 pro")
	want := "https://example.com/search?q=iphone%2013%20pro"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestBuildSearchURL_PlusEncoding(t *testing.T) {
	a := &Adapter{SearchURL: "https://example.com/search?q={query}", SpaceEncoding: "+"}
	got := a.BuildSearchURL("iphone 13")
	want := "https://example.com/search?q=iphone+13"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestBuildSearchURL_TrimsQuery(t *testing.T) {
	a := &Adapter{SearchURL: "https://example.com/search?q={query}", SpaceEncoding: "+"}
	got := a.BuildSearchURL("  iphone 13  ")
	want := "https://example.com/search?q=iphone+13"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestAdapterValidate(t *testing.T) {
	valid := &Adapter{
		Name:          "Example",
		SearchURL:     "https://example.com/search?q={query}",
		Strategy:      StrategyGeneric,
		PriceSelector: ".price",
		TitleSelector: ".title",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid adapter, got %v", err)
	}

	missingQuery := *valid
	missingQuery.SearchURL = "https://example.com/search"
	if err := missingQuery.Validate(); err == nil {
		t.Fatalf("expected error for search_url without {query}")
	}

	cardsWithoutCardSelector := *valid
	cardsWithoutCardSelector.Strategy = StrategyCards
	if err := cardsWithoutCardSelector.Validate(); err == nil {
		t.Fatalf("expected error for cards strategy without card_selector")
	}

	noName := *valid
	noName.Name = ""
	if err := noName.Validate(); err == nil {
		t.Fatalf("expected error for adapter without name")
	}
}

func TestFindAdapter_Unknown(t *testing.T) {
	cfg := &Config{Adapters: builtinAdapters()}
	_, err := cfg.FindAdapter("nope")
	if err == nil {
		t.Fatalf("expected error for unknown competitor")
	}
	if !errors.Is(err, ErrUnknownCompetitor) {
		t.Fatalf("expected ErrUnknownCompetitor, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected error to name the competitor, got %v", err)
	}
}

func TestBuiltinAdapters_AllValid(t *testing.T) {
	for name, a := range builtinAdapters() {
		if err := a.Validate(); err != nil {
			t.Fatalf("builtin adapter %s invalid: %v", name, err)
		}
	}
}

func TestBuiltinAdapters_EbayUsesCards(t *testing.T) {
	cfg := &Config{Adapters: builtinAdapters()}
	a, err := cfg.FindAdapter("eBay")
	if err != nil {
		t.Fatalf("expected eBay adapter: %v", err)
	}
	if a.Strategy != StrategyCards {
		t.Fatalf("expected cards strategy for eBay, got %s", a.Strategy)
	}
	if a.CardSelector == "" {
		t.Fatalf("expected a card selector for eBay")
	}
}
