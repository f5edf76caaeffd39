package knowledge

import (
	"strings"
	"testing"
)

func TestCatalogIsWellFormed(t *testing.T) {
	if len(FAQ) == 0 {
		t.Fatal("FAQ catalog is empty")
	}
	for i, e := range FAQ {
		if e.Question == "" || e.Answer == "" {
			t.Errorf("entry %d has an empty question or answer", i)
		}
	}
	if len(GenericResponses) < 2 {
		t.Error("the fallback rotation needs more than one response")
	}
}

func TestWelcomeForRole(t *testing.T) {
	for _, role := range []string{"job_seeker", "employer", "trainer", "trainee", ""} {
		if WelcomeForRole(role) == "" {
			t.Errorf("empty welcome for role %q", role)
		}
	}

	if !strings.Contains(WelcomeForRole("employer"), "vacancies") {
		t.Error("employer welcome should mention vacancies")
	}
	// Unknown roles get the anonymous greeting.
	if WelcomeForRole("astronaut") != WelcomeForRole("") {
		t.Error("unknown roles should fall back to the default welcome")
	}
}
