package model_test

import (
	"errors"
	"testing"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/model"
)

func TestNewPlayerTag(t *testing.T) {
	t.Run("accepts canonical tag", func(t *testing.T) {
		tag, err := model.NewPlayerTag("#2PP0VC90")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tag.String() != "#2PP0VC90" {
			t.Errorf("String() = %q, want %q", tag.String(), "#2PP0VC90")
		}
		if tag.Value() != "2PP0VC90" {
			t.Errorf("Value() = %q, want %q", tag.Value(), "2PP0VC90")
		}
	})

	t.Run("normalizes lowercase and missing marker", func(t *testing.T) {
		tag, err := model.NewPlayerTag("  2pp0vc90 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tag.String() != "#2PP0VC90" {
			t.Errorf("String() = %q, want %q", tag.String(), "#2PP0VC90")
		}
	})

	t.Run("maps letter O to zero", func(t *testing.T) {
		tag, err := model.NewPlayerTag("#2PPOVC9O")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tag.Value() != "2PP0VC90" {
			t.Errorf("Value() = %q, want %q", tag.Value(), "2PP0VC90")
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := map[string]string{
			"empty":              "",
			"only marker":        "#",
			"too short":          "#2P",
			"too long":           "#2PP0VC902PP0VC9",
			"illegal characters": "#2PP0VC9Z",
			"unicode":            "#2PP0VC9Ω",
		}
		for name, raw := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := model.NewPlayerTag(raw)
				if !errors.Is(err, domainerror.ErrPlayerTagInvalid) {
					t.Errorf("NewPlayerTag(%q): expected ErrPlayerTagInvalid, got %v", raw, err)
				}
			})
		}
	})

	t.Run("equality ignores input form", func(t *testing.T) {
		a, _ := model.NewPlayerTag("#2pp0vc90")
		b, _ := model.NewPlayerTag("2PP0VC90")
		if !a.Equals(b) {
			t.Error("expected normalized tags to be equal")
		}
	})
}
