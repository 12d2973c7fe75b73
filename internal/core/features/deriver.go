// Package features turns validated user input into the feature set consumed by
// the premium classifier.
package features

import "github.com/kirillkom/premium-predictor/internal/core/domain"

type Deriver struct {
	tiers CityTiers
}

func NewDeriver(tiers CityTiers) *Deriver {
	return &Deriver{tiers: tiers}
}

func (d *Deriver) Derive(in domain.RawUserInput) domain.DerivedFeatures {
	bmi := BMI(in.Weight, in.Height)
	return domain.DerivedFeatures{
		BMI:           bmi,
		AgeGroup:      AgeGroupFor(in.Age),
		LifestyleRisk: LifestyleRiskFor(in.Smoker, bmi),
		CityTier:      d.tiers.Tier(in.City),
		IncomeLPA:     in.IncomeLPA,
		Occupation:    in.Occupation,
	}
}

// BMI is weight in kilograms over height in meters squared, unrounded.
func BMI(weight, height float64) float64 {
	return weight / (height * height)
}

// AgeGroupFor brackets are inclusive upper bounds: 25, 45 and 60 fall in the
// lower bracket.
func AgeGroupFor(age int) domain.AgeGroup {
	switch {
	case age <= 25:
		return domain.AgeGroupYoung
	case age <= 45:
		return domain.AgeGroupAdult
	case age <= 60:
		return domain.AgeGroupMiddleAged
	default:
		return domain.AgeGroupSenior
	}
}

// LifestyleRiskFor gives high precedence over the smoker/overweight xor rule.
func LifestyleRiskFor(smoker bool, bmi float64) domain.LifestyleRisk {
	switch {
	case smoker && bmi > 30:
		return domain.LifestyleRiskHigh
	case smoker != (bmi > 27):
		return domain.LifestyleRiskMedium
	default:
		return domain.LifestyleRiskLow
	}
}
