package enums

import "fmt"

// CommentCategory classifies a piece of feedback. Purely descriptive; no
// behavior hangs off the value.
type CommentCategory string

const (
	CommentCategoryVideo      CommentCategory = "video"
	CommentCategoryImage      CommentCategory = "image"
	CommentCategoryEffect     CommentCategory = "effect"
	CommentCategorySubtitles  CommentCategory = "subtitles"
	CommentCategoryTransition CommentCategory = "transition"
	CommentCategoryMusic      CommentCategory = "music"
	CommentCategorySound      CommentCategory = "sound"
	CommentCategoryAI         CommentCategory = "ai"
	CommentCategoryBug        CommentCategory = "bug"
)

var validCommentCategories = []CommentCategory{
	CommentCategoryVideo,
	CommentCategoryImage,
	CommentCategoryEffect,
	CommentCategorySubtitles,
	CommentCategoryTransition,
	CommentCategoryMusic,
	CommentCategorySound,
	CommentCategoryAI,
	CommentCategoryBug,
}

// String implements fmt.Stringer.
func (c CommentCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CommentCategory.
func (c CommentCategory) IsValid() bool {
	for _, candidate := range validCommentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCommentCategory converts raw input into a CommentCategory.
func ParseCommentCategory(value string) (CommentCategory, error) {
	for _, candidate := range validCommentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid comment category %q", value)
}
