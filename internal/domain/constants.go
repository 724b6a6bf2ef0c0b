// Package domain implements the seawater equations of state, sound speed,
// gravity, freezing point and absorption formulas, and the two TS-profile
// integrators built on top of them.
package domain

// Physical constants shared by the formulas and by callers.
const (
	// FreshWaterDensityKgM3 is the density of fresh water at 20°C.
	FreshWaterDensityKgM3 = 998.02
	// SeaWaterDensityKgM3 is the mean density of sea water.
	SeaWaterDensityKgM3 = 1023.6

	// DefaultSoundSpeedMps is the default speed of sound in water.
	DefaultSoundSpeedMps = 1500.0
	// MinSoundSpeedMps is the lowest plausible speed of sound in water.
	MinSoundSpeedMps = 1300.0
	// MaxSoundSpeedMps is the highest plausible speed of sound in water.
	MaxSoundSpeedMps = 1600.0

	// DefaultSalinityPSU is the salinity assumed when none is known.
	DefaultSalinityPSU = 0.0

	// StandardGravityMps2 is standard gravity (ISO 80000-3:2006).
	StandardGravityMps2 = 9.80665

	// AtmPressureMbar is the average atmospheric pressure at sea level.
	AtmPressureMbar = 1013.25
)

// WGS84 normal gravity parameters.
const (
	wgs84GravityEquator = 9.7803253359
	wgs84SomiglianaK    = 0.00193185265241
	wgs84EccentricitySq = 0.00669437999013
)
