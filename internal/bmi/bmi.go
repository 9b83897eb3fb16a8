// Package bmi computes the derived body mass index shown on the data
// surface. Values are computed on render and never persisted.
package bmi

import (
	"fmt"
	"math"
)

// Category is a BMI bucket. Thresholds follow the Asian-Pacific
// classification used by the backend.
type Category struct {
	Label  string
	Korean string
}

var (
	Underweight   = Category{Label: "underweight", Korean: "저체중"}
	Normal        = Category{Label: "normal", Korean: "정상"}
	Overweight    = Category{Label: "overweight", Korean: "과체중"}
	Obese         = Category{Label: "obese", Korean: "비만"}
	SeverelyObese = Category{Label: "severely obese", Korean: "고도비만"}
)

// Bmi is a computed index value with its category.
type Bmi struct {
	Value    float64
	Category Category
}

// String renders the value the way the data surface displays it,
// e.g. "22.5 (정상/normal)".
func (b Bmi) String() string {
	return fmt.Sprintf("%.1f (%s/%s)", b.Value, b.Category.Korean, b.Category.Label)
}

// Compute derives the BMI from height in centimeters and weight in
// kilograms, rounded to one decimal. It reports false when either input
// is missing or non-positive; no value is displayed in that case.
func Compute(heightCm, weightKg float64) (Bmi, bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return Bmi{}, false
	}
	heightM := heightCm / 100
	value := math.Round(weightKg/(heightM*heightM)*10) / 10
	return Bmi{Value: value, Category: Categorize(value)}, true
}

// Categorize buckets a BMI value. Boundaries are closed below and open
// above: 18.5 is normal, 23.0 is overweight, 25.0 is obese, 30.0 is
// severely obese.
func Categorize(value float64) Category {
	switch {
	case value < 18.5:
		return Underweight
	case value < 23:
		return Normal
	case value < 25:
		return Overweight
	case value < 30:
		return Obese
	default:
		return SeverelyObese
	}
}
