package model

import (
	"strings"

	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// tagAlphabet is the character set Supercell uses for player tags.
const tagAlphabet = "0289PYLQGRJCUV"

const (
	tagMinLength = 3
	tagMaxLength = 14
)

// PlayerTag is the normalized, validated identifier of a claimed game account.
// Immutable; equality is by canonical form. The only construction path is
// NewPlayerTag, so an inhabited PlayerTag is always valid.
type PlayerTag struct {
	value string
}

// NewPlayerTag normalizes and validates a raw tag. Normalization uppercases,
// strips one leading '#', and maps the commonly mistyped 'O' to '0'.
func NewPlayerTag(raw string) (PlayerTag, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "#")
	normalized = strings.ReplaceAll(normalized, "O", "0")

	if len(normalized) < tagMinLength || len(normalized) > tagMaxLength {
		return PlayerTag{}, domainerror.ErrPlayerTagInvalid
	}
	for _, r := range normalized {
		if !strings.ContainsRune(tagAlphabet, r) {
			return PlayerTag{}, domainerror.ErrPlayerTagInvalid
		}
	}

	return PlayerTag{value: normalized}, nil
}

// ReconstructPlayerTag rebuilds a tag from persisted canonical form.
// The stored value is trusted to have passed NewPlayerTag at write time.
func ReconstructPlayerTag(canonical string) PlayerTag {
	return PlayerTag{value: strings.TrimPrefix(canonical, "#")}
}

// String returns the canonical form with the leading marker, e.g. "#2PP0VC90".
func (t PlayerTag) String() string { return "#" + t.value }

// Value returns the canonical form without the leading marker.
func (t PlayerTag) Value() string { return t.value }

func (t PlayerTag) IsEmpty() bool { return t.value == "" }

func (t PlayerTag) Equals(other PlayerTag) bool { return t.value == other.value }
