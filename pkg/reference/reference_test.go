package reference

import (
	"errors"
	"strings"
	"testing"
)

func TestResourcesReadable(t *testing.T) {
	list := Resources()
	if len(list) != 5 {
		t.Fatalf("expected 5 resources, got %d", len(list))
	}
	for _, r := range list {
		if !strings.HasPrefix(r.URI, URIPrefix) {
			t.Fatalf("unexpected uri %q", r.URI)
		}
		content, err := Read(r.URI)
		if err != nil {
			t.Fatalf("Read(%s): %v", r.URI, err)
		}
		if !strings.HasPrefix(content, "# ") {
			t.Fatalf("%s should start with a heading", r.URI)
		}
		if r.MIMEType != "text/markdown" {
			t.Fatalf("%s mime = %q", r.URI, r.MIMEType)
		}
	}
}

func TestReadUnknown(t *testing.T) {
	_, err := Read(URIPrefix + "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPromptsCatalog(t *testing.T) {
	list, err := Prompts()
	if err != nil {
		t.Fatalf("Prompts: %v", err)
	}
	var names []string
	for _, p := range list {
		names = append(names, p.Name)
	}
	want := "audit_inactive_users,group_membership_review,offboard_user,onboard_user"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("prompt names = %s, want %s", got, want)
	}
}

func TestRenderOffboard(t *testing.T) {
	out, err := Render("offboard_user", map[string]string{"email": "jane@example.com", "archive_ou": "/Former"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "email=jane@example.com and archive_ou=/Former") {
		t.Fatalf("unexpected prompt: %s", out)
	}

	out, err = Render("offboard_user", map[string]string{"email": "jane@example.com"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "archive_ou") || strings.Contains(out, "<no value>") {
		t.Fatalf("optional argument leaked: %s", out)
	}
}

func TestRenderDefaultsAndErrors(t *testing.T) {
	out, err := Render("audit_inactive_users", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "inactive_days=90") {
		t.Fatalf("expected default threshold: %s", out)
	}

	if _, err := Render("onboard_user", map[string]string{"email": "jane@example.com"}); err == nil {
		t.Fatalf("expected missing argument error")
	}
	if _, err := Render("nope", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
