package enums

import "fmt"

// CommentPriority ranks feedback urgency.
type CommentPriority string

const (
	CommentPriorityLow    CommentPriority = "low"
	CommentPriorityMedium CommentPriority = "medium"
	CommentPriorityHigh   CommentPriority = "high"
)

var validCommentPriorities = []CommentPriority{
	CommentPriorityLow,
	CommentPriorityMedium,
	CommentPriorityHigh,
}

// String implements fmt.Stringer.
func (c CommentPriority) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CommentPriority.
func (c CommentPriority) IsValid() bool {
	for _, candidate := range validCommentPriorities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCommentPriority converts raw input into a CommentPriority.
func ParseCommentPriority(value string) (CommentPriority, error) {
	for _, candidate := range validCommentPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid comment priority %q", value)
}
