package status

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		installed, active bool
		want              State
	}{
		{false, false, StateNotInstalled},
		{false, true, StateNotInstalled},
		{true, false, StateInactive},
		{true, true, StateActive},
	}
	for _, tc := range cases {
		if got := Detect(tc.installed, tc.active); got != tc.want {
			t.Errorf("Detect(%v, %v) = %v, want %v", tc.installed, tc.active, got, tc.want)
		}
	}
}

func TestShareLinks(t *testing.T) {
	links := ShareLinks("203.0.113.7", 8443, "0123456789abcdef0123456789abcdef")

	want := "port=8443&secret=0123456789abcdef0123456789abcdef&server=203.0.113.7"
	if links.TG != "tg://proxy?"+want {
		t.Errorf("TG link = %q", links.TG)
	}
	if links.Web != "https://t.me/proxy?"+want {
		t.Errorf("Web link = %q", links.Web)
	}
}

// fakeStore, fakeSupervisor, and fakeAddress are minimal read-side fakes.

type fakeStore struct {
	args *argv.ArgVector
	err  error
}

func (f *fakeStore) Read(string) (*argv.ArgVector, error) { return f.args, f.err }
func (f *fakeStore) Exists(string) bool                   { return f.args != nil }

type fakeSupervisor struct {
	active, enabled bool
}

func (f *fakeSupervisor) IsActive(string) bool  { return f.active }
func (f *fakeSupervisor) IsEnabled(string) bool { return f.enabled }

type fakeAddress struct {
	addr string
	err  error
}

func (f *fakeAddress) PublicIP(context.Context) (string, error) { return f.addr, f.err }

func sampleArgs() *argv.ArgVector {
	return &argv.ArgVector{
		Binary:     "/opt/MTProxy/mtproto-proxy",
		User:       "nobody",
		StatPort:   8888,
		Port:       8443,
		Secret:     "0123456789abcdef0123456789abcdef",
		Workers:    1,
		SecretFile: "/var/lib/mtpulse/proxy-secret",
		ConfigFile: "/var/lib/mtpulse/proxy-multi.conf",
	}
}

func TestReportNotInstalled(t *testing.T) {
	r := &Reporter{
		Unit:       "mtpulse.service",
		BinaryPath: filepath.Join(t.TempDir(), "missing"),
		Store:      &fakeStore{},
		Supervisor: &fakeSupervisor{},
		Address:    &fakeAddress{addr: "203.0.113.7"},
	}
	view, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if view.State != StateNotInstalled {
		t.Errorf("state = %v", view.State)
	}
}

func TestReportInactiveSkipsDescriptorRead(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "mtproto-proxy")
	if err := os.WriteFile(bin, []byte("elf"), 0755); err != nil {
		t.Fatal(err)
	}

	r := &Reporter{
		Unit:       "mtpulse.service",
		BinaryPath: bin,
		Store:      &fakeStore{err: errors.New("should not be read")},
		Supervisor: &fakeSupervisor{active: false, enabled: true},
		Address:    &fakeAddress{addr: "203.0.113.7"},
	}
	view, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if view.State != StateInactive {
		t.Errorf("state = %v", view.State)
	}
	if !view.Enabled {
		t.Error("enabled not reported")
	}
}

func TestReportActiveReadsBackConfiguration(t *testing.T) {
	args := sampleArgs()
	args.Tag = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	r := &Reporter{
		Unit:       "mtpulse.service",
		BinaryPath: filepath.Join(t.TempDir(), "missing"),
		Store:      &fakeStore{args: args},
		Supervisor: &fakeSupervisor{active: true, enabled: true},
		Address:    &fakeAddress{addr: "203.0.113.7"},
	}
	view, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if view.State != StateActive {
		t.Fatalf("state = %v", view.State)
	}
	if view.Port != 8443 || view.Secret != args.Secret || view.Tag != args.Tag {
		t.Errorf("view lost configuration: %+v", view)
	}
	if view.Address != "203.0.113.7" {
		t.Errorf("address = %q", view.Address)
	}
	if view.Links.TG == "" || view.Links.Web == "" {
		t.Error("share links missing")
	}
}

func TestReportDegradesWithoutAddress(t *testing.T) {
	r := &Reporter{
		Unit:       "mtpulse.service",
		BinaryPath: filepath.Join(t.TempDir(), "missing"),
		Store:      &fakeStore{args: sampleArgs()},
		Supervisor: &fakeSupervisor{active: true},
		Address:    &fakeAddress{err: errors.New("lookup down")},
	}
	view, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if view.Address != "" || view.Links.TG != "" {
		t.Errorf("expected degraded view, got %+v", view)
	}
	if view.Port != 8443 {
		t.Error("configuration read-back missing in degraded view")
	}
}
