package scoring

import (
	"strings"
	"testing"
)

func TestEngine_Recommend_FullyCompliant(t *testing.T) {
	engine := testEngine()

	recommendations, err := engine.Recommend(fullProfile(), CategoryConstruction)
	if err != nil {
		t.Fatalf("Failed to generate recommendations: %v", err)
	}
	if len(recommendations) != 0 {
		t.Errorf("Expected no recommendations for compliant profile, got %v", recommendations)
	}
}

func TestEngine_Recommend_EmptyProfile(t *testing.T) {
	engine := testEngine()
	profile := fullProfile()
	profile.CIDBGrade = nil
	profile.BEELevel = nil
	profile.TaxClearance = false
	profile.CompanyRegistrationNumber = ""

	recommendations, err := engine.Recommend(profile, CategoryConstruction)
	if err != nil {
		t.Fatalf("Failed to generate recommendations: %v", err)
	}

	// One message per missing item
	if len(recommendations) != 4 {
		t.Fatalf("Expected 4 recommendations, got %d: %v", len(recommendations), recommendations)
	}
}

// A credential emits at most one message; an expired credential reports the
// renewal, suppressing the upgrade-quality advice for the same credential.
func TestEngine_Recommend_ExpiredSuppressesUpgrade(t *testing.T) {
	engine := testEngine()
	profile := fullProfile()
	profile.CIDBGrade = intPtr(8) // poor standing
	profile.CIDBExpiryDate = timePtr(testNow.AddDate(0, -2, 0))

	recommendations, err := engine.Recommend(profile, CategoryConstruction)
	if err != nil {
		t.Fatalf("Failed to generate recommendations: %v", err)
	}

	var cidbMessages []string
	for _, msg := range recommendations {
		if strings.Contains(msg, "CIDB") {
			cidbMessages = append(cidbMessages, msg)
		}
	}
	if len(cidbMessages) != 1 {
		t.Fatalf("Expected exactly one CIDB message, got %v", cidbMessages)
	}
	if !strings.Contains(cidbMessages[0], "Renew expired") {
		t.Errorf("Expected renewal message to win over upgrade advice, got %q", cidbMessages[0])
	}
}

func TestEngine_Recommend_PoorStanding(t *testing.T) {
	engine := testEngine()
	profile := fullProfile()
	profile.CIDBGrade = intPtr(7)
	profile.BEELevel = intPtr(6)

	recommendations, err := engine.Recommend(profile, CategoryConstruction)
	if err != nil {
		t.Fatalf("Failed to generate recommendations: %v", err)
	}

	if len(recommendations) != 2 {
		t.Fatalf("Expected 2 upgrade recommendations, got %v", recommendations)
	}
	if !strings.Contains(recommendations[0], "upgrading your CIDB grade") {
		t.Errorf("Unexpected first recommendation: %q", recommendations[0])
	}
	if !strings.Contains(recommendations[1], "B-BBEE level") {
		t.Errorf("Unexpected second recommendation: %q", recommendations[1])
	}
}

// Services rubrics carry no CIDB criterion, so grading gaps are not
// reported for them.
func TestEngine_Recommend_CategoryScopesCriteria(t *testing.T) {
	engine := testEngine()
	profile := fullProfile()
	profile.CIDBGrade = nil

	recommendations, err := engine.Recommend(profile, CategoryServices)
	if err != nil {
		t.Fatalf("Failed to generate recommendations: %v", err)
	}
	for _, msg := range recommendations {
		if strings.Contains(msg, "CIDB") {
			t.Errorf("Did not expect CIDB advice for a services tender: %q", msg)
		}
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	engine := testEngine()
	profile := fullProfile()
	profile.BEELevel = intPtr(7)
	profile.TaxClearance = false

	first, err := engine.Recommend(profile, CategoryConstruction)
	if err != nil {
		t.Fatalf("Failed to generate recommendations: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.Recommend(profile, CategoryConstruction)
		if err != nil {
			t.Fatalf("Failed to generate recommendations: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("Expected stable recommendation count, got %v then %v", first, again)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("Expected deterministic ordering, got %v then %v", first, again)
			}
		}
	}
}

func TestEngine_Recommend_UnknownCategory(t *testing.T) {
	engine := testEngine()

	if _, err := engine.Recommend(fullProfile(), TenderCategory("Mining")); err == nil {
		t.Fatal("Expected error for unknown category")
	}
}
