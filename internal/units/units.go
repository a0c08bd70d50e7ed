// Package units provides shared constants and conversion for the speed and
// acceleration columns of an enriched trajectory. The engine and the
// database always work in metres and seconds; units are applied only at the
// API boundary when a caller asks for them.
package units

// Unit names accepted in the ?units= query parameter. MPS is the storage
// unit and the default; KMPH and KPH are spellings of the same unit.
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits lists every accepted unit name.
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid reports whether unit names an accepted speed unit.
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns the accepted unit names for error messages.
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// SpeedFactor returns the multiplier taking a speed in m/s to the target
// units. Unknown units convert by 1 (values stay in m/s).
func SpeedFactor(targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return 2.2369362920544
	case KMPH, KPH:
		return 3.6
	default:
		return 1
	}
}

// ConvertSpeed converts a speed from metres per second to the target units.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	return speedMPS * SpeedFactor(targetUnits)
}

// ConvertAccel converts an acceleration from m/s² to (target speed unit)/s,
// e.g. mph per second. The linear factor is the same as for speed.
func ConvertAccel(accelMPS2 float64, targetUnits string) float64 {
	return accelMPS2 * SpeedFactor(targetUnits)
}
