package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseParticlesVanDerVlist(t *testing.T) {
	in := PersonName{Family: "van der Vlist", Given: "Eric"}
	got := ParseParticles(in)
	want := PersonName{Family: "Vlist", NonDroppingParticle: "van der", Given: "Eric"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseParticles() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseParticlesNoOpWhenPreSupplied(t *testing.T) {
	in := PersonName{Family: "van der Vlist", Given: "Eric", NonDroppingParticle: "van"}
	got := ParseParticles(in)
	if got.Family != "van der Vlist" {
		t.Fatalf("expected family left untouched, got %q", got.Family)
	}
}

func TestParseParticlesStaticParticles(t *testing.T) {
	in := PersonName{Family: "van der Vlist", Given: "Eric", StaticParticles: true}
	got := ParseParticles(in)
	if got.Family != "van der Vlist" || got.NonDroppingParticle != "" {
		t.Fatalf("StaticParticles should disable extraction, got %+v", got)
	}
}

func TestParseParticlesTrailingGivenParticle(t *testing.T) {
	in := PersonName{Family: "Silva", Given: "Jean de"}
	got := ParseParticles(in)
	if got.Given != "Jean" || got.DroppingParticle != "de" {
		t.Fatalf("got given=%q dropping=%q", got.Given, got.DroppingParticle)
	}
}

func TestParseParticlesApostropheNormalized(t *testing.T) {
	in := PersonName{Family: "O'Brien", Given: "Pat"}
	got := ParseParticles(in)
	if got.Family != "O’Brien" {
		t.Fatalf("expected normalized apostrophe, got %q", got.Family)
	}
}

func TestParseParticlesSingleWordFamilyUntouched(t *testing.T) {
	in := PersonName{Family: "van", Given: "Eric"}
	got := ParseParticles(in)
	if got.Family != "van" || got.NonDroppingParticle != "" {
		t.Fatalf("single-word family should not be split, got %+v", got)
	}
}

func TestParseParticlesLiteralUntouched(t *testing.T) {
	in := PersonName{Literal: "van der Vlist Foundation"}
	got := ParseParticles(in)
	if got.Family != "" || got.NonDroppingParticle != "" {
		t.Fatalf("literal name should not be decomposed, got %+v", got)
	}
}
