package scripture

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ref identifies a verse by chapter and verse number.
type Ref struct {
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// NewRef builds a Ref, rejecting non-positive numbers.
func NewRef(chapter, verse int) (Ref, error) {
	ref := Ref{Chapter: chapter, Verse: verse}
	if err := ref.Validate(); err != nil {
		return Ref{}, err
	}
	return ref, nil
}

// ParseRef parses the "chapter.verse" form produced by String.
func ParseRef(s string) (Ref, error) {
	chapterStr, verseStr, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Ref{}, NewValidationError("ref", "must be in chapter.verse form")
	}
	chapter, err := strconv.Atoi(chapterStr)
	if err != nil {
		return Ref{}, NewValidationError("chapter", "must be a number")
	}
	verse, err := strconv.Atoi(verseStr)
	if err != nil {
		return Ref{}, NewValidationError("verse", "must be a number")
	}
	return NewRef(chapter, verse)
}

// Validate reports whether both numbers are positive.
func (r Ref) Validate() error {
	if r.Chapter <= 0 {
		return NewValidationError("chapter", "must be a positive number")
	}
	if r.Verse <= 0 {
		return NewValidationError("verse", "must be a positive number")
	}
	return nil
}

func (r Ref) String() string {
	return fmt.Sprintf("%d.%d", r.Chapter, r.Verse)
}

// Label is the human-readable reference shown in the UI and matched by search.
func (r Ref) Label() string {
	return fmt.Sprintf("Chapter %d, Verse %d", r.Chapter, r.Verse)
}

// ReadEvent records that a user finished reading a verse.
type ReadEvent struct {
	Ref    Ref       `json:"ref"`
	ReadAt time.Time `json:"read_at"`
}
