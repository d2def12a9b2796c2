// Package units provides shared constants and conversions for temperature
// and map distances
package units

// Unit constants
const (
	Celsius = "celsius"
	Kelvin  = "kelvin"
)

// ValidUnits contains all valid temperature unit values
var ValidUnits = []string{Celsius, Kelvin}

// MODIS MOD11A1 land-surface-temperature radiometric constants. Raw
// samples are Kelvin scaled by the gain.
const (
	ModisLSTGain = 0.02
	KelvinOffset = 273.15
)

// MetersPerDegree is the approximate ground length of one degree of
// latitude (and of longitude at the equator) in meters.
const MetersPerDegree = 111320.0

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "celsius, kelvin"
}

// KelvinToCelsius converts a temperature in Kelvin to degrees Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - KelvinOffset
}

// CelsiusToKelvin converts a temperature in degrees Celsius to Kelvin.
func CelsiusToKelvin(c float64) float64 {
	return c + KelvinOffset
}

// ModisLSTToCelsius converts a raw MOD11A1 LST sample to degrees Celsius.
func ModisLSTToCelsius(raw float64) float64 {
	return raw*ModisLSTGain - KelvinOffset
}

// ConvertTemperature converts a temperature in Kelvin to the target units
// Grids computed from MODIS products carry Kelvin unless rescaled
func ConvertTemperature(kelvin float64, targetUnits string) float64 {
	switch targetUnits {
	case Celsius:
		return KelvinToCelsius(kelvin)
	case Kelvin:
		return kelvin
	default:
		return kelvin // default to Kelvin if unknown unit
	}
}

// MetersToDegrees converts a ground distance in meters to approximate
// degrees of latitude.
func MetersToDegrees(m float64) float64 {
	return m / MetersPerDegree
}

// DegreesToMeters converts degrees of latitude to approximate meters.
func DegreesToMeters(d float64) float64 {
	return d * MetersPerDegree
}
