package engine

import (
	"testing"

	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

func TestExtractIdentity_Email(t *testing.T) {
	p := profile.NewClientProfile("s1")
	extractIdentity(p, "you can reach me at dana.smith+leads@acme-corp.io thanks")

	if p.Email != "dana.smith+leads@acme-corp.io" {
		t.Fatalf("Email = %q", p.Email)
	}
}

func TestExtractIdentity_DoesNotOverwrite(t *testing.T) {
	p := profile.NewClientProfile("s1")
	p.Email = "existing@acme.com"
	extractIdentity(p, "new address other@acme.com")

	if p.Email != "existing@acme.com" {
		t.Fatalf("Email overwritten: %q", p.Email)
	}
}

func TestExtractIdentity_Phone(t *testing.T) {
	p := profile.NewClientProfile("s1")
	extractIdentity(p, "call me at +1 (555) 010-4477")

	if p.Phone == "" {
		t.Fatal("expected phone to be extracted")
	}
}

func TestExtractIdentity_ShortNumberIgnored(t *testing.T) {
	p := profile.NewClientProfile("s1")
	extractIdentity(p, "we need about 250 fixtures")

	if p.Phone != "" {
		t.Fatalf("quantity mistaken for phone: %q", p.Phone)
	}
}

func TestExtractIdentity_Name(t *testing.T) {
	p := profile.NewClientProfile("s1")
	extractIdentity(p, "Hi, my name is Dana Smith and I manage facilities")

	if p.Name != "Dana Smith" {
		t.Fatalf("Name = %q", p.Name)
	}
}
