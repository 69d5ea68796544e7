package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

func testUser(role string) domain.User {
	return domain.User{
		ID:       uuid.New(),
		Username: "gopher",
		Role:     role,
	}
}

func TestIssueParseRoundtrip(t *testing.T) {
	m := New("test-secret", "book-review-service", time.Hour)
	u := testUser(domain.RoleUser)

	raw, issued, err := m.Issue(context.Background(), u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if raw == "" {
		t.Fatal("Issue returned empty token")
	}

	parsed, err := m.Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.UserID != u.ID {
		t.Errorf("UserID = %s, want %s", parsed.UserID, u.ID)
	}
	if parsed.Username != u.Username {
		t.Errorf("Username = %q, want %q", parsed.Username, u.Username)
	}
	if parsed.Role != domain.RoleUser {
		t.Errorf("Role = %q, want %q", parsed.Role, domain.RoleUser)
	}
	if parsed.JTI != issued.JTI {
		t.Errorf("JTI = %q, want %q", parsed.JTI, issued.JTI)
	}
}

func TestAdminRoleSurvivesRoundtrip(t *testing.T) {
	m := New("test-secret", "book-review-service", time.Hour)

	raw, _, err := m.Issue(context.Background(), testUser(domain.RoleAdmin))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parsed, err := m.Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want %q", parsed.Role, domain.RoleAdmin)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := New("test-secret", "book-review-service", -time.Minute)

	raw, _, err := m.Issue(context.Background(), testUser(domain.RoleUser))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Parse(context.Background(), raw); err == nil {
		t.Fatal("Parse accepted an expired token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := New("secret-a", "book-review-service", time.Hour)
	verifier := New("secret-b", "book-review-service", time.Hour)

	raw, _, err := issuer.Issue(context.Background(), testUser(domain.RoleUser))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Parse(context.Background(), raw); err == nil {
		t.Fatal("Parse accepted a token signed with a different secret")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	m := New("test-secret", "book-review-service", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := m.Parse(context.Background(), domain.Token(raw)); err == nil {
			t.Errorf("Parse(%q) accepted garbage", raw)
		}
	}
}
