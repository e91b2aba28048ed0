package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-kudos-backend/internal/config"
	"github.com/tbourn/go-kudos-backend/internal/domain"
)

func TestCompose_PrivateHidesBodyAndSender(t *testing.T) {
	c := Composer{Mode: config.VisibilityWith}
	m, err := c.Compose("U1", "U2", "Leadership ☄️", "Great work", true)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	for _, want := range []string{"<@U2>", "<@U1>", "Leadership ☄️", "Great work", privateMarker} {
		if !strings.Contains(m.Primary, want) {
			t.Fatalf("primary missing %q:\n%s", want, m.Primary)
		}
	}
	pub := m.Public()
	if !strings.Contains(pub, "Leadership ☄️") {
		t.Fatalf("public message should name the category: %q", pub)
	}
	for _, banned := range []string{"Great work", "<@U1>", "<@U2>"} {
		if strings.Contains(pub, banned) {
			t.Fatalf("public message leaks %q: %q", banned, pub)
		}
	}
}

func TestCompose_PublicOrAbsentIsSingleMessage(t *testing.T) {
	c := Composer{Mode: config.VisibilityWith}
	m, err := c.Compose("U1", "U2", "Team player ⚽️", "Thanks", false)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if m.Secondary != "" || m.Public() != m.Primary {
		t.Fatalf("expected public == primary, got %+v", m)
	}
	if strings.Contains(m.Primary, privateMarker) {
		t.Fatalf("public recognition must not carry the private marker")
	}
}

func TestCompose_WithoutVisibilityIgnoresPrivateFlag(t *testing.T) {
	c := Composer{Mode: config.VisibilityWithout}
	m, err := c.Compose("U1", "U2", "Customer driven", "Nice", true)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if m.Secondary != "" || strings.Contains(m.Primary, privateMarker) {
		t.Fatalf("private flag should be ignored: %+v", m)
	}
	if !strings.Contains(m.Primary, "Customer driven 🫂") {
		t.Fatalf("bare category name should render as its label: %q", m.Primary)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	c := Composer{Mode: config.VisibilityWith}
	a, _ := c.Compose("U1", "U2", "Innovation champion 🏆", "x", true)
	b, _ := c.Compose("U1", "U2", "Innovation champion 🏆", "x", true)
	if a != b {
		t.Fatalf("compose is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestCompose_ContractViolations(t *testing.T) {
	c := Composer{Mode: config.VisibilityWith}

	_, err := c.Compose("U1", "U2", "Best dancer", "x", false)
	if !errors.Is(err, ErrComposition) || !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("unknown category: got %v", err)
	}
	if _, err := c.Compose(" ", "U2", "Leadership", "x", false); !errors.Is(err, ErrComposition) {
		t.Fatalf("blank sender: got %v", err)
	}
	if _, err := c.Compose("U1", "", "Leadership", "x", false); !errors.Is(err, ErrComposition) {
		t.Fatalf("blank receiver: got %v", err)
	}
}
