package domain

import (
	"fmt"
	"math"
)

type AgeGroup string

const (
	AgeGroupYoung      AgeGroup = "young"
	AgeGroupAdult      AgeGroup = "adult"
	AgeGroupMiddleAged AgeGroup = "middle_aged"
	AgeGroupSenior     AgeGroup = "senior"
)

type LifestyleRisk string

const (
	LifestyleRiskLow    LifestyleRisk = "low"
	LifestyleRiskMedium LifestyleRisk = "medium"
	LifestyleRiskHigh   LifestyleRisk = "high"
)

const (
	CityTier1 = 1
	CityTier2 = 2
	CityTier3 = 3
)

const (
	FeatureBMI           = "bmi"
	FeatureAgeGroup      = "age_group"
	FeatureLifestyleRisk = "lifestyle_risk"
	FeatureCityTier      = "city_tier"
	FeatureIncomeLPA     = "income_lpa"
	FeatureOccupation    = "occupation"
)

// FeatureNames is the canonical feature order consumed by the classifier.
func FeatureNames() []string {
	return []string{
		FeatureBMI,
		FeatureAgeGroup,
		FeatureLifestyleRisk,
		FeatureCityTier,
		FeatureIncomeLPA,
		FeatureOccupation,
	}
}

type DerivedFeatures struct {
	BMI           float64       `json:"bmi"`
	AgeGroup      AgeGroup      `json:"age_group"`
	LifestyleRisk LifestyleRisk `json:"lifestyle_risk"`
	CityTier      int           `json:"city_tier"`
	IncomeLPA     float64       `json:"income_lpa"`
	Occupation    Occupation    `json:"occupation"`
}

// Numeric returns the value of a numeric feature by name.
func (f DerivedFeatures) Numeric(name string) (float64, bool) {
	switch name {
	case FeatureBMI:
		return f.BMI, true
	case FeatureCityTier:
		return float64(f.CityTier), true
	case FeatureIncomeLPA:
		return f.IncomeLPA, true
	default:
		return 0, false
	}
}

// Categorical returns the value of a categorical feature by name.
func (f DerivedFeatures) Categorical(name string) (string, bool) {
	switch name {
	case FeatureAgeGroup:
		return string(f.AgeGroup), true
	case FeatureLifestyleRisk:
		return string(f.LifestyleRisk), true
	case FeatureOccupation:
		return string(f.Occupation), true
	default:
		return "", false
	}
}

// Check reports the first field holding a value outside its domain.
func (f DerivedFeatures) Check() error {
	if !(f.BMI > 0) || math.IsInf(f.BMI, 0) {
		return fmt.Errorf("bmi %v is not a positive finite number", f.BMI)
	}
	switch f.AgeGroup {
	case AgeGroupYoung, AgeGroupAdult, AgeGroupMiddleAged, AgeGroupSenior:
	default:
		return fmt.Errorf("unknown age_group %q", f.AgeGroup)
	}
	switch f.LifestyleRisk {
	case LifestyleRiskLow, LifestyleRiskMedium, LifestyleRiskHigh:
	default:
		return fmt.Errorf("unknown lifestyle_risk %q", f.LifestyleRisk)
	}
	if f.CityTier < CityTier1 || f.CityTier > CityTier3 {
		return fmt.Errorf("city_tier %d out of range", f.CityTier)
	}
	if !(f.IncomeLPA > 0) || math.IsInf(f.IncomeLPA, 0) {
		return fmt.Errorf("income_lpa %v is not a positive finite number", f.IncomeLPA)
	}
	if !f.Occupation.Valid() {
		return fmt.Errorf("unknown occupation %q", f.Occupation)
	}
	return nil
}
