package enums

import "testing"

func TestParseAuthorRole(t *testing.T) {
	role, err := ParseAuthorRole("editor")
	if err != nil {
		t.Fatalf("ParseAuthorRole: %v", err)
	}
	if role != AuthorRoleEditor {
		t.Fatalf("unexpected role %s", role)
	}

	if _, err := ParseAuthorRole("admin"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
	if AuthorRole("owner").IsValid() {
		t.Fatal("owner should not be a valid role")
	}
}

func TestParseCommentCategory(t *testing.T) {
	for _, raw := range []string{"video", "image", "effect", "subtitles", "transition", "music", "sound", "ai", "bug"} {
		category, err := ParseCommentCategory(raw)
		if err != nil {
			t.Fatalf("ParseCommentCategory(%q): %v", raw, err)
		}
		if !category.IsValid() {
			t.Fatalf("parsed category %q should be valid", raw)
		}
	}

	if _, err := ParseCommentCategory("color"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestParseCommentPriority(t *testing.T) {
	priority, err := ParseCommentPriority("high")
	if err != nil {
		t.Fatalf("ParseCommentPriority: %v", err)
	}
	if priority != CommentPriorityHigh {
		t.Fatalf("unexpected priority %s", priority)
	}

	if _, err := ParseCommentPriority("urgent"); err == nil {
		t.Fatal("expected unknown priority to fail")
	}
}
