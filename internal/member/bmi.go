package member

import "math"

// CalculateBMI takes weight in kilograms and height in centimetres and
// returns the body mass index rounded to two decimals.
func CalculateBMI(weightKG, heightCM float64) float64 {
	if weightKG <= 0 || heightCM <= 0 {
		return 0
	}
	heightM := heightCM / 100
	bmi := weightKG / (heightM * heightM)
	return math.Round(bmi*100) / 100
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
