package auth

import (
	"context"
	"testing"

	"github.com/codeGROOVE-dev/socialite/profile"
)

func TestForPlatform(t *testing.T) {
	cookies := ForPlatform(profile.Twitter, map[string]string{
		"auth_token": "abc123",
		"ct0":        "xyz789",
		"empty":      "",
	})
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2 (empty values dropped)", len(cookies))
	}
	for _, c := range cookies {
		if c.Domain != ".x.com" {
			t.Errorf("Domain = %q, want .x.com", c.Domain)
		}
		if c.Path != "/" {
			t.Errorf("Path = %q, want /", c.Path)
		}
	}
}

func TestForPlatformUnknown(t *testing.T) {
	if got := ForPlatform(profile.Platform("myspace"), map[string]string{"a": "b"}); got != nil {
		t.Errorf("ForPlatform unknown = %v, want nil", got)
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		platform profile.Platform
		want     string
	}{
		{profile.Instagram, "instagram.com"},
		{profile.Twitter, "x.com"},
		{profile.Snapchat, "snapchat.com"},
		{profile.Platform("myspace"), ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			if got := Domain(tt.platform); got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.platform, got, tt.want)
			}
		})
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("LINKEDIN_LI_AT", "test-li-at")
	t.Setenv("LINKEDIN_JSESSIONID", "test-jsessionid")

	src := EnvSource{}
	cookies, err := src.Cookies(context.Background(), profile.LinkedIn)
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if cookies["li_at"] != "test-li-at" {
		t.Errorf("li_at = %q, want %q", cookies["li_at"], "test-li-at")
	}
	if cookies["JSESSIONID"] != "test-jsessionid" {
		t.Errorf("JSESSIONID = %q, want %q", cookies["JSESSIONID"], "test-jsessionid")
	}
}

func TestEnvSourceUnknownPlatform(t *testing.T) {
	src := EnvSource{}
	cookies, err := src.Cookies(context.Background(), profile.Platform("myspace"))
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if cookies != nil {
		t.Error("cookies should be nil for unknown platform")
	}
}

func TestEnvSourceNoCookies(t *testing.T) {
	t.Setenv("SNAPCHAT_SC_AT", "")

	src := EnvSource{}
	cookies, err := src.Cookies(context.Background(), profile.Snapchat)
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if cookies != nil {
		t.Error("cookies should be nil when env vars not set")
	}
}

func TestStaticSource(t *testing.T) {
	input := map[string]string{
		"session": "abc123",
		"token":   "xyz789",
	}

	src := NewStaticSource(input)
	cookies, err := src.Cookies(context.Background(), profile.Instagram)
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if len(cookies) != 2 {
		t.Errorf("got %d cookies, want 2", len(cookies))
	}
	if cookies["session"] != "abc123" {
		t.Errorf("session = %q, want %q", cookies["session"], "abc123")
	}

	// Verify it's a copy
	cookies["session"] = "modified"
	cookies2, err := src.Cookies(context.Background(), profile.Instagram)
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}
	if cookies2["session"] != "abc123" {
		t.Error("StaticSource should return copies")
	}
}

func TestStaticSourceEmpty(t *testing.T) {
	src := NewStaticSource(nil)
	cookies, err := src.Cookies(context.Background(), profile.Instagram)
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}

	if cookies != nil {
		t.Error("cookies should be nil for empty source")
	}
}

func TestChainSources(t *testing.T) {
	// First source returns nil
	src1 := NewStaticSource(nil)

	// Second source returns cookies
	src2 := NewStaticSource(map[string]string{"token": "from-src2"})

	// Third source also has cookies (should not be reached)
	src3 := NewStaticSource(map[string]string{"token": "from-src3"})

	cookies, err := ChainSources(context.Background(), profile.Twitter, src1, src2, src3)
	if err != nil {
		t.Fatalf("ChainSources failed: %v", err)
	}

	if cookies["token"] != "from-src2" {
		t.Errorf("token = %q, want %q", cookies["token"], "from-src2")
	}
}

func TestChainSourcesAllEmpty(t *testing.T) {
	src1 := NewStaticSource(nil)
	src2 := NewStaticSource(nil)

	cookies, err := ChainSources(context.Background(), profile.Twitter, src1, src2)
	if err != nil {
		t.Fatalf("ChainSources failed: %v", err)
	}

	if cookies != nil {
		t.Error("cookies should be nil when all sources empty")
	}
}

func TestEnvVarsForPlatform(t *testing.T) {
	vars := EnvVarsForPlatform(profile.LinkedIn)
	if len(vars) == 0 {
		t.Error("should return env vars for linkedin")
	}

	varSet := make(map[string]bool)
	for _, v := range vars {
		varSet[v] = true
	}

	if !varSet["LINKEDIN_LI_AT"] {
		t.Error("should include LINKEDIN_LI_AT")
	}
}

func TestEnvVarsForUnknownPlatform(t *testing.T) {
	vars := EnvVarsForPlatform(profile.Platform("myspace"))
	if vars != nil {
		t.Error("should return nil for unknown platform")
	}
}
