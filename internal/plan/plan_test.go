package plan

import (
	"errors"
	"testing"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
)

func testDefaults() Defaults {
	return Defaults{
		Binary:     "/opt/MTProxy/mtproto-proxy",
		RunUser:    "nobody",
		StatPort:   8888,
		Workers:    1,
		SecretFile: "/var/lib/mtpulse/proxy-secret",
		ConfigFile: "/var/lib/mtpulse/proxy-multi.conf",
	}
}

func TestInstallPlansValidVector(t *testing.T) {
	v, err := Install(testDefaults(), 8443)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("planned vector invalid: %v", err)
	}
	if v.Port != 8443 {
		t.Errorf("port = %d, want 8443", v.Port)
	}
	if v.Tag != "" {
		t.Errorf("fresh install planned a tag: %q", v.Tag)
	}
	if !argv.ValidHex32(v.Secret) {
		t.Errorf("secret %q is not 32 lowercase hex", v.Secret)
	}
	if v.User != "nobody" || v.StatPort != 8888 || v.Workers != 1 {
		t.Errorf("defaults not carried: %+v", v)
	}
}

func TestInstallGeneratesFreshSecrets(t *testing.T) {
	a, err := Install(testDefaults(), 443)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Install(testDefaults(), 443)
	if err != nil {
		t.Fatal(err)
	}
	if a.Secret == b.Secret {
		t.Error("two installs produced the same secret")
	}
}

func TestInstallRejectsInvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 65536, 99999} {
		if _, err := Install(testDefaults(), port); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("port %d: expected ErrInvalidPort, got %v", port, err)
		}
	}
}

func TestSetTagRequiresExisting(t *testing.T) {
	_, err := SetTag(nil, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if !errors.Is(err, ErrNoExistingConfiguration) {
		t.Fatalf("expected ErrNoExistingConfiguration, got %v", err)
	}
}

func TestSetTagReplacesOnlyTag(t *testing.T) {
	existing, err := Install(testDefaults(), 443)
	if err != nil {
		t.Fatal(err)
	}
	existing.Tag = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	next, err := SetTag(&existing, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if err != nil {
		t.Fatalf("SetTag failed: %v", err)
	}
	if next.Tag != "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" {
		t.Errorf("tag = %q, want bbbb...", next.Tag)
	}

	// All other fields unchanged.
	want := existing
	want.Tag = next.Tag
	if next != want {
		t.Errorf("SetTag mutated more than the tag:\n got %+v\nwant %+v", next, want)
	}
}

func TestSetTagEmptyClearsTag(t *testing.T) {
	existing, err := Install(testDefaults(), 443)
	if err != nil {
		t.Fatal(err)
	}
	existing.Tag = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	next, err := SetTag(&existing, "")
	if err != nil {
		t.Fatalf("SetTag failed: %v", err)
	}
	if next.Tag != "" {
		t.Errorf("tag = %q, want absent", next.Tag)
	}
}

func TestSetTagRejectsBadFormat(t *testing.T) {
	existing, err := Install(testDefaults(), 443)
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range []string{"short", "0123456789ABCDEF0123456789ABCDEF", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := SetTag(&existing, tag); !errors.Is(err, ErrInvalidTag) {
			t.Errorf("tag %q: expected ErrInvalidTag, got %v", tag, err)
		}
	}
}

func TestGenerateSecret(t *testing.T) {
	s, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	if !argv.ValidHex32(s) {
		t.Errorf("secret %q is not 32 lowercase hex", s)
	}
}
