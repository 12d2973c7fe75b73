package features

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

var defaultTier1Cities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata", "Hyderabad", "Pune",
}

var defaultTier2Cities = []string{
	"Jaipur", "Chandigarh", "Indore", "Lucknow", "Patna", "Ranchi", "Visakhapatnam", "Coimbatore",
	"Bhopal", "Nagpur", "Vadodara", "Surat", "Rajkot", "Jodhpur", "Raipur", "Amritsar", "Varanasi",
	"Agra", "Dehradun", "Mysore", "Jabalpur", "Guwahati", "Thiruvananthapuram", "Ludhiana", "Nashik",
	"Allahabad", "Udaipur", "Aurangabad", "Hubli", "Belgaum", "Salem", "Vijayawada", "Tiruchirappalli",
	"Bhavnagar", "Gwalior", "Dhanbad", "Bareilly", "Aligarh", "Gaya", "Kozhikode", "Warangal",
	"Kolhapur", "Bilaspur", "Jalandhar", "Noida", "Guntur", "Asansol", "Siliguri",
}

// CityTiers is the membership table used to resolve city_tier.
type CityTiers struct {
	tier1 map[string]struct{}
	tier2 map[string]struct{}
}

type cityTiersFile struct {
	Tier1 []string `yaml:"tier_1"`
	Tier2 []string `yaml:"tier_2"`
}

func NewCityTiers(tier1, tier2 []string) (CityTiers, error) {
	t := CityTiers{
		tier1: toSet(tier1),
		tier2: toSet(tier2),
	}
	if len(t.tier1) == 0 {
		return CityTiers{}, errors.New("city tiers: tier_1 list is empty")
	}
	return t, nil
}

// DefaultCityTiers returns the built-in tier table.
func DefaultCityTiers() CityTiers {
	t, _ := NewCityTiers(defaultTier1Cities, defaultTier2Cities)
	return t
}

// LoadCityTiers reads a YAML table with tier_1 and tier_2 lists.
func LoadCityTiers(path string) (CityTiers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CityTiers{}, fmt.Errorf("read city tiers: %w", err)
	}
	var file cityTiersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return CityTiers{}, fmt.Errorf("decode city tiers %s: %w", path, err)
	}
	return NewCityTiers(file.Tier1, file.Tier2)
}

// Tier resolves a city by exact, case-sensitive match. Tier 1 wins when a city
// is listed twice.
func (t CityTiers) Tier(city string) int {
	if _, ok := t.tier1[city]; ok {
		return domain.CityTier1
	}
	if _, ok := t.tier2[city]; ok {
		return domain.CityTier2
	}
	return domain.CityTier3
}

func (t CityTiers) Size() (tier1, tier2 int) {
	return len(t.tier1), len(t.tier2)
}

func toSet(cities []string) map[string]struct{} {
	set := make(map[string]struct{}, len(cities))
	for _, city := range cities {
		city = strings.TrimSpace(city)
		if city == "" {
			continue
		}
		set[city] = struct{}{}
	}
	return set
}
