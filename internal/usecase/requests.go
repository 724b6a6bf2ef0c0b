package usecase

import (
	"errors"
	"fmt"
	"math"

	"go.ngs.io/seawater/internal/domain"
)

// ErrInvalidRequest marks request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// MaxSteps bounds the integration step count a caller may request.
const MaxSteps = 1_000_000

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkFinite(name string, v float64) error {
	if !finite(v) {
		return invalidf("%s must be a finite number", name)
	}
	return nil
}

func checkOptional(name string, v *float64, valid func(float64) bool, rule string) error {
	if v == nil {
		return nil
	}
	if !finite(*v) || !valid(*v) {
		return invalidf("%s %s", name, rule)
	}
	return nil
}

func positive(v float64) bool { return v > 0 }

func latitude(v float64) bool { return v >= -90 && v <= 90 }

func longitude(v float64) bool { return v >= -180 && v <= 360 }

// ProfileRef selects the TS profile of a request. Exactly one of ID, the
// Lat/Lon pair or Inline must be set.
type ProfileRef struct {
	ID     string
	Lat    *float64
	Lon    *float64
	Inline domain.TSProfile
	// InlineLat is the latitude an inline profile was taken at.
	InlineLat *float64
}

// Validate checks that the reference selects exactly one profile source.
func (r *ProfileRef) Validate() error {
	hasID := r.ID != ""
	hasLatLon := r.Lat != nil && r.Lon != nil
	hasInline := len(r.Inline) > 0

	if (r.Lat == nil) != (r.Lon == nil) {
		return invalidf("lat and lon must be given together")
	}
	n := 0
	for _, set := range []bool{hasID, hasLatLon, hasInline} {
		if set {
			n++
		}
	}
	if n == 0 {
		return invalidf("one of profile, lat/lon or an inline profile must be provided")
	}
	if n > 1 {
		return invalidf("profile, lat/lon and inline profile are mutually exclusive")
	}
	if r.InlineLat != nil && !hasInline {
		return invalidf("an inline latitude requires an inline profile")
	}
	if err := checkOptional("latitude", r.Lat, latitude, "must be between -90 and 90"); err != nil {
		return err
	}
	if err := checkOptional("latitude", r.InlineLat, latitude, "must be between -90 and 90"); err != nil {
		return err
	}
	return checkOptional("longitude", r.Lon, longitude, "must be between -180 and 360")
}

func checkSteps(steps int) error {
	if steps > MaxSteps {
		return invalidf("steps must be at most %d", MaxSteps)
	}
	return nil
}

// PropertiesRequest asks for the seawater properties at one (t, p, s) point.
type PropertiesRequest struct {
	Temperature float64 // °C.
	Pressure    float64 // Absolute pressure, mBar.
	Salinity    float64 // PSU.

	// Optional.
	Lat          *float64 // Enables gravity.
	FrequencyKHz *float64 // Enables absorption.
	DepthM       *float64 // Absorption depth; derived from pressure when nil.
	PH           *float64 // Absorption pH; defaults to DefaultPH.
}

// DefaultPH is the sea water pH assumed for absorption.
const DefaultPH = 8.0

// Validate checks the request.
func (r *PropertiesRequest) Validate() error {
	if err := checkFinite("temperature", r.Temperature); err != nil {
		return err
	}
	if err := checkFinite("pressure", r.Pressure); err != nil {
		return err
	}
	if err := checkFinite("salinity", r.Salinity); err != nil {
		return err
	}
	if err := checkOptional("latitude", r.Lat, latitude, "must be between -90 and 90"); err != nil {
		return err
	}
	if err := checkOptional("frequency", r.FrequencyKHz, positive, "must be positive"); err != nil {
		return err
	}
	if err := checkOptional("depth", r.DepthM, func(v float64) bool { return v >= 0 }, "must be non-negative"); err != nil {
		return err
	}
	return checkOptional("pH", r.PH, func(v float64) bool { return v > 0 && v <= 14 }, "must be in (0, 14]")
}

// PropertiesResponse holds the point properties.
type PropertiesResponse struct {
	Temperature         float64  `json:"temperature_c"`
	Pressure            float64  `json:"pressure_mbar"`
	Salinity            float64  `json:"salinity_psu"`
	Density             float64  `json:"density_kg_m3"`
	SoundSpeed          float64  `json:"sound_speed_mps"`
	SoundSpeedPlausible bool     `json:"sound_speed_plausible"`
	FreezingPoint       float64  `json:"freezing_point_c"`
	Gravity             *float64 `json:"gravity_mps2,omitempty"`
	Absorption          *float64 `json:"absorption_db_per_km,omitempty"`
	AbsorptionDepthM    *float64 `json:"absorption_depth_m,omitempty"`
}

// DepthRequest asks for the depth at which pressure reaches PressureMbar.
type DepthRequest struct {
	PressureMbar        float64
	SurfacePressureMbar *float64 // Defaults to domain.AtmPressureMbar.
	Gravity             *float64 // Derived from latitude when nil.
	Steps               int      // 0 selects the default.
	Profile             ProfileRef
}

// Validate checks the request.
func (r *DepthRequest) Validate() error {
	if err := checkFinite("pressure", r.PressureMbar); err != nil {
		return err
	}
	if err := checkOptional("p0", r.SurfacePressureMbar, func(float64) bool { return true }, "must be finite"); err != nil {
		return err
	}
	if err := checkOptional("g", r.Gravity, func(float64) bool { return true }, "must be finite"); err != nil {
		return err
	}
	if err := checkSteps(r.Steps); err != nil {
		return err
	}
	return r.Profile.Validate()
}

// SoundPathRequest asks for the distance a vertical ping covers in
// TimeOfFlightS seconds.
type SoundPathRequest struct {
	TimeOfFlightS float64
	Gravity       *float64
	Steps         int
	Profile       ProfileRef
}

// Validate checks the request.
func (r *SoundPathRequest) Validate() error {
	if err := checkFinite("tof", r.TimeOfFlightS); err != nil {
		return err
	}
	if err := checkOptional("g", r.Gravity, func(float64) bool { return true }, "must be finite"); err != nil {
		return err
	}
	if err := checkSteps(r.Steps); err != nil {
		return err
	}
	return r.Profile.Validate()
}

// ProfileInfo describes the profile an integration ran against.
type ProfileInfo struct {
	ID            string   `json:"id,omitempty"`
	Source        string   `json:"source"`
	Station       string   `json:"station,omitempty"`
	StationDistKm *float64 `json:"station_distance_km,omitempty"`
	Points        int      `json:"points"`
	MaxDepthM     float64  `json:"max_depth_m"`
	SeabedDepthM  *float64 `json:"seabed_depth_m,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// DepthResponse is the result of DepthByPressure.
type DepthResponse struct {
	DepthM              float64     `json:"depth_m"`
	PressureMbar        float64     `json:"pressure_mbar"`
	SurfacePressureMbar float64     `json:"surface_pressure_mbar"`
	Gravity             float64     `json:"gravity_mps2"`
	GravitySource       string      `json:"gravity_source"`
	Steps               int         `json:"steps"`
	Profile             ProfileInfo `json:"profile"`
}

// SoundPathResponse is the result of SoundPath.
type SoundPathResponse struct {
	DistanceM      float64     `json:"distance_m"`
	TimeOfFlightS  float64     `json:"tof_s"`
	MeanSoundSpeed *float64    `json:"mean_sound_speed_mps,omitempty"`
	Gravity        float64     `json:"gravity_mps2"`
	GravitySource  string      `json:"gravity_source"`
	Steps          int         `json:"steps"`
	Profile        ProfileInfo `json:"profile"`
}

// ConversionRequest converts between depth and pressure at constant density.
type ConversionRequest struct {
	Value               float64 // Depth in m or pressure in mBar.
	SurfacePressureMbar *float64
	Density             *float64 // Defaults to domain.SeaWaterDensityKgM3.
	Gravity             *float64
	Lat                 *float64
}

// Validate checks the request.
func (r *ConversionRequest) Validate() error {
	if err := checkFinite("value", r.Value); err != nil {
		return err
	}
	if err := checkOptional("p0", r.SurfacePressureMbar, func(float64) bool { return true }, "must be finite"); err != nil {
		return err
	}
	if err := checkOptional("rho", r.Density, positive, "must be positive"); err != nil {
		return err
	}
	if err := checkOptional("g", r.Gravity, positive, "must be positive"); err != nil {
		return err
	}
	return checkOptional("latitude", r.Lat, latitude, "must be between -90 and 90")
}

// ConversionResponse carries both ends of a conversion.
type ConversionResponse struct {
	DepthM              float64 `json:"depth_m"`
	PressureMbar        float64 `json:"pressure_mbar"`
	SurfacePressureMbar float64 `json:"surface_pressure_mbar"`
	Density             float64 `json:"density_kg_m3"`
	Gravity             float64 `json:"gravity_mps2"`
}

// ProfileSummary lists one known profile.
type ProfileSummary struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// ProfileDetail is a profile with its points.
type ProfileDetail struct {
	ProfileInfo
	Data domain.TSProfile `json:"data"`
}
