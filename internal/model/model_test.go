package model

import (
	"testing"
	"time"
)

func TestUser_ToProfile(t *testing.T) {
	t.Parallel()

	u := &User{
		ID:          "01HV0000000000000000000000",
		Username:    "abebe",
		DisplayName: "Abebe B.",
		CreatedAt:   time.Now(),
		UsageCount:  7,
	}

	p := u.ToProfile()
	if p.ID != u.ID || p.Username != "abebe" || p.DisplayName != "Abebe B." {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.UsageCount != 7 {
		t.Errorf("UsageCount = %d, want 7", p.UsageCount)
	}

	r := u.ToResponse()
	if r.ID != u.ID || r.Username != "abebe" || r.DisplayName != "Abebe B." {
		t.Errorf("unexpected response: %+v", r)
	}
}

func TestArtifactKind_Extension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ArtifactKind
		want string
	}{
		{ArtifactImage, ".png"},
		{ArtifactAudio, ".wav"},
		{ArtifactKind("video"), ".bin"},
	}

	for _, tt := range tests {
		if got := tt.kind.Extension(); got != tt.want {
			t.Errorf("%s.Extension() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewArtifactResponse(t *testing.T) {
	t.Parallel()

	r := NewArtifactResponse("abc.png")
	if r.URL != "/api/files/abc.png" {
		t.Errorf("URL = %q, want /api/files/abc.png", r.URL)
	}
	if r.Filename != "abc.png" {
		t.Errorf("Filename = %q, want abc.png", r.Filename)
	}
}
