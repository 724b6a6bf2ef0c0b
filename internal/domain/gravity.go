package domain

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Gravity returns the normal gravity acceleration at sea level in m/s²
// using the WGS84 ellipsoid gravity formula:
//
//	g = Ge · (1 + k·sin²φ) / sqrt(1 − e²·sin²φ)
//
// latRad is the geodetic latitude in radians.
func Gravity(latRad float64) float64 {
	sinSq := math.Sin(latRad)
	sinSq *= sinSq
	return wgs84GravityEquator * ((1.0 + wgs84SomiglianaK*sinSq) / math.Sqrt(1.0-wgs84EccentricitySq*sinSq))
}

// GravityDeg is Gravity for a latitude given in signed degrees.
func GravityDeg(latDeg float64) float64 {
	return Gravity(Deg2Rad(latDeg))
}
