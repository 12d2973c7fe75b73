package features

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

func TestAgeGroupForBoundaries(t *testing.T) {
	tests := []struct {
		age  int
		want domain.AgeGroup
	}{
		{1, domain.AgeGroupYoung},
		{25, domain.AgeGroupYoung},
		{26, domain.AgeGroupAdult},
		{45, domain.AgeGroupAdult},
		{46, domain.AgeGroupMiddleAged},
		{60, domain.AgeGroupMiddleAged},
		{61, domain.AgeGroupSenior},
		{119, domain.AgeGroupSenior},
	}
	for _, tt := range tests {
		if got := AgeGroupFor(tt.age); got != tt.want {
			t.Fatalf("AgeGroupFor(%d) = %s, want %s", tt.age, got, tt.want)
		}
	}
}

func TestAgeGroupForIsMonotonic(t *testing.T) {
	rank := map[domain.AgeGroup]int{
		domain.AgeGroupYoung:      0,
		domain.AgeGroupAdult:      1,
		domain.AgeGroupMiddleAged: 2,
		domain.AgeGroupSenior:     3,
	}
	prev := -1
	for age := 1; age <= 119; age++ {
		r, ok := rank[AgeGroupFor(age)]
		if !ok {
			t.Fatalf("age %d mapped outside the known groups", age)
		}
		if r < prev {
			t.Fatalf("age group decreased at age %d", age)
		}
		prev = r
	}
}

func TestLifestyleRiskFor(t *testing.T) {
	tests := []struct {
		smoker bool
		bmi    float64
		want   domain.LifestyleRisk
	}{
		{true, 31, domain.LifestyleRiskHigh},
		{true, 30.01, domain.LifestyleRiskHigh},
		{true, 30, domain.LifestyleRiskLow},
		{true, 28, domain.LifestyleRiskLow},
		{true, 27, domain.LifestyleRiskMedium},
		{true, 22, domain.LifestyleRiskMedium},
		{false, 27.5, domain.LifestyleRiskMedium},
		{false, 35, domain.LifestyleRiskMedium},
		{false, 27, domain.LifestyleRiskLow},
		{false, 20, domain.LifestyleRiskLow},
	}
	for _, tt := range tests {
		if got := LifestyleRiskFor(tt.smoker, tt.bmi); got != tt.want {
			t.Fatalf("LifestyleRiskFor(%v, %v) = %s, want %s", tt.smoker, tt.bmi, got, tt.want)
		}
	}
}

func TestLifestyleRiskMatchesDefinition(t *testing.T) {
	for _, smoker := range []bool{false, true} {
		for bmi := 10.0; bmi <= 45; bmi += 0.25 {
			var want domain.LifestyleRisk
			switch {
			case smoker && bmi > 30:
				want = domain.LifestyleRiskHigh
			case smoker != (bmi > 27):
				want = domain.LifestyleRiskMedium
			default:
				want = domain.LifestyleRiskLow
			}
			if got := LifestyleRiskFor(smoker, bmi); got != want {
				t.Fatalf("LifestyleRiskFor(%v, %v) = %s, want %s", smoker, bmi, got, want)
			}
		}
	}
}

func TestBMIIsPure(t *testing.T) {
	first := BMI(70.5, 1.75)
	second := BMI(70.5, 1.75)
	if first != second {
		t.Fatalf("expected identical values, got %v and %v", first, second)
	}
	if want := 70.5 / (1.75 * 1.75); first != want {
		t.Fatalf("expected %v, got %v", want, first)
	}
}

func TestDeriveReferenceInput(t *testing.T) {
	d := NewDeriver(DefaultCityTiers())
	got := d.Derive(domain.RawUserInput{
		Age:        35,
		Weight:     70.5,
		Height:     1.75,
		IncomeLPA:  12.5,
		Smoker:     false,
		City:       "Mumbai",
		Occupation: domain.OccupationPrivateJob,
	})

	if math.Abs(got.BMI-23.02) > 0.005 {
		t.Fatalf("expected bmi ~23.02, got %v", got.BMI)
	}
	if got.AgeGroup != domain.AgeGroupAdult {
		t.Fatalf("expected adult, got %s", got.AgeGroup)
	}
	if got.LifestyleRisk != domain.LifestyleRiskLow {
		t.Fatalf("expected low risk, got %s", got.LifestyleRisk)
	}
	if got.CityTier != domain.CityTier1 {
		t.Fatalf("expected tier 1, got %d", got.CityTier)
	}
	if got.IncomeLPA != 12.5 || got.Occupation != domain.OccupationPrivateJob {
		t.Fatalf("expected passthrough features, got %+v", got)
	}
	if err := got.Check(); err != nil {
		t.Fatalf("derived features out of domain: %v", err)
	}
}

func TestDefaultCityTiers(t *testing.T) {
	tiers := DefaultCityTiers()
	tests := map[string]int{
		"Mumbai":    domain.CityTier1,
		"Pune":      domain.CityTier1,
		"Jaipur":    domain.CityTier2,
		"Siliguri":  domain.CityTier2,
		"mumbai":    domain.CityTier3,
		"Timbuktu":  domain.CityTier3,
		"":          domain.CityTier3,
		" Mumbai ":  domain.CityTier3,
	}
	for city, want := range tests {
		if got := tiers.Tier(city); got != want {
			t.Fatalf("Tier(%q) = %d, want %d", city, got, want)
		}
	}
}

func TestLoadCityTiersFromYAML(t *testing.T) {
	tiers, err := LoadCityTiers(filepath.Join("testdata", "city_tiers.yaml"))
	if err != nil {
		t.Fatalf("LoadCityTiers() error = %v", err)
	}
	if got := tiers.Tier("Springfield"); got != domain.CityTier1 {
		t.Fatalf("expected Springfield tier 1, got %d", got)
	}
	if got := tiers.Tier("Shelbyville"); got != domain.CityTier2 {
		t.Fatalf("expected Shelbyville tier 2, got %d", got)
	}
	if got := tiers.Tier("Mumbai"); got != domain.CityTier1 {
		t.Fatalf("expected city listed twice to resolve to tier 1, got %d", got)
	}
	if got := tiers.Tier("Delhi"); got != domain.CityTier3 {
		t.Fatalf("expected cities outside the file to be tier 3, got %d", got)
	}
	if _, tier2 := tiers.Size(); tier2 != 2 {
		t.Fatalf("expected blank entries to be skipped, got %d tier-2 cities", tier2)
	}
}

func TestNewCityTiersRejectsEmptyTier1(t *testing.T) {
	if _, err := NewCityTiers(nil, []string{"Jaipur"}); err == nil {
		t.Fatalf("expected error for empty tier 1")
	}
}

func TestLoadCityTiersMissingFile(t *testing.T) {
	if _, err := LoadCityTiers(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestShippedTierFileMatchesBuiltinTable(t *testing.T) {
	shipped, err := LoadCityTiers("../../../configs/city_tiers.yaml")
	if err != nil {
		t.Fatalf("LoadCityTiers() error = %v", err)
	}
	builtin := DefaultCityTiers()
	s1, s2 := shipped.Size()
	b1, b2 := builtin.Size()
	if s1 != b1 || s2 != b2 {
		t.Fatalf("shipped table sizes %d/%d differ from builtin %d/%d", s1, s2, b1, b2)
	}
	for _, city := range append(append([]string{}, defaultTier1Cities...), defaultTier2Cities...) {
		if shipped.Tier(city) != builtin.Tier(city) {
			t.Fatalf("city %q: shipped tier %d, builtin tier %d", city, shipped.Tier(city), builtin.Tier(city))
		}
	}
}
