package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestAdapterYAMLUnmarshal(t *testing.T) {
	doc := `
name: Example
base_url: https://example.com
search_url: https://example.com/search?q={query}
space_encoding: "+"
strategy: generic
price_selector: .price
title_selector: .title
store_selector: .store
detail_selectors:
  description: .description
`
	var a Adapter
	if err := yaml.Unmarshal([]byte(doc), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.Name != "Example" {
		t.Fatalf("expected name Example, got %s", a.Name)
	}
	if a.SpaceEncoding != "+" {
		t.Fatalf("expected + space encoding, got %s", a.SpaceEncoding)
	}
	if a.DetailSelectors.Description != ".description" {
		t.Fatalf("expected detail description selector, got %s", a.DetailSelectors.Description)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid adapter, got %v", err)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("PRICEWATCH_TEST_INT", "42")
	if got := getEnvInt("PRICEWATCH_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := getEnvInt("PRICEWATCH_TEST_MISSING", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	t.Setenv("PRICEWATCH_TEST_INT", "not a number")
	if got := getEnvInt("PRICEWATCH_TEST_INT", 7); got != 7 {
		t.Fatalf("expected default for malformed value, got %d", got)
	}
}
