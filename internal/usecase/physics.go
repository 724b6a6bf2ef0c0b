package usecase

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
)

// DefaultSteps is used when neither the request nor the configuration sets
// an integration step count.
const DefaultSteps = 1000

// Gravity sources reported in responses.
const (
	GravityFromRequest  = "request"
	GravityFromLatitude = "latitude"
	GravityStandard     = "standard"
)

// Seabed returns the water depth at a location.
type Seabed interface {
	SeabedDepth(lat, lon float64) (depth float64, ok bool, err error)
}

// ProfileLister lists the profile ids a source can serve.
type ProfileLister struct {
	Source string
	List   func() ([]string, error)
}

// Config wires the profile sources of a PhysicsUseCase.
type Config struct {
	// Stations resolves profile ids, in priority order.
	Stations store.Chain
	// Locations resolves lat/lon queries not covered by the registry.
	Locations store.Chain
	// Registry maps positions to named stations. May be nil.
	Registry *StationRegistry
	// Seabed clips location profiles at the sea floor. May be nil.
	Seabed Seabed
	// Listers back Profiles().
	Listers []ProfileLister
	// DefaultSteps overrides DefaultSteps when positive.
	DefaultSteps int
}

// PhysicsUseCase orchestrates profile resolution and the seawater library.
type PhysicsUseCase struct {
	stations     store.Chain
	locations    store.Chain
	registry     *StationRegistry
	seabed       Seabed
	listers      []ProfileLister
	defaultSteps int
}

// NewPhysicsUseCase creates a new physics use case.
func NewPhysicsUseCase(cfg Config) *PhysicsUseCase {
	steps := cfg.DefaultSteps
	if steps <= 0 {
		steps = DefaultSteps
	}
	return &PhysicsUseCase{
		stations:     cfg.Stations,
		locations:    cfg.Locations,
		registry:     cfg.Registry,
		seabed:       cfg.Seabed,
		listers:      cfg.Listers,
		defaultSteps: steps,
	}
}

// Constants returns the physical constants of the library by name.
func (uc *PhysicsUseCase) Constants() map[string]float64 {
	return map[string]float64{
		"fresh_water_density_kg_m3": domain.FreshWaterDensityKgM3,
		"sea_water_density_kg_m3":   domain.SeaWaterDensityKgM3,
		"default_sound_speed_mps":   domain.DefaultSoundSpeedMps,
		"min_sound_speed_mps":       domain.MinSoundSpeedMps,
		"max_sound_speed_mps":       domain.MaxSoundSpeedMps,
		"default_salinity_psu":      domain.DefaultSalinityPSU,
		"standard_gravity_mps2":     domain.StandardGravityMps2,
		"atm_pressure_mbar":         domain.AtmPressureMbar,
	}
}

// Properties evaluates the point formulas at (t, p, s).
func (uc *PhysicsUseCase) Properties(req PropertiesRequest) (*PropertiesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, p, s := req.Temperature, req.Pressure, req.Salinity
	resp := &PropertiesResponse{
		Temperature:   t,
		Pressure:      p,
		Salinity:      s,
		Density:       domain.Density(t, p, s),
		SoundSpeed:    domain.SoundSpeed(t, p, s),
		FreezingPoint: domain.FreezingPoint(p, s),
	}
	resp.SoundSpeedPlausible = domain.SoundSpeedPlausible(resp.SoundSpeed)

	g := domain.StandardGravityMps2
	if req.Lat != nil {
		g = domain.GravityDeg(*req.Lat)
		resp.Gravity = &g
	}

	if req.FrequencyKHz != nil {
		depth := math.Max(0, domain.DepthFromPressure(p, domain.AtmPressureMbar, resp.Density, g))
		if req.DepthM != nil {
			depth = *req.DepthM
		}
		ph := DefaultPH
		if req.PH != nil {
			ph = *req.PH
		}
		a := domain.Absorption(*req.FrequencyKHz, t, s, depth, ph)
		resp.Absorption = &a
		resp.AbsorptionDepthM = &depth
	}
	return resp, nil
}

// DepthByPressure integrates the depth at which req.PressureMbar is reached.
func (uc *PhysicsUseCase) DepthByPressure(req DepthRequest) (*DepthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rp, err := uc.resolveProfile(req.Profile)
	if err != nil {
		return nil, err
	}
	g, gSource := uc.gravity(req.Gravity, rp.info.Latitude)
	p0 := domain.AtmPressureMbar
	if req.SurfacePressureMbar != nil {
		p0 = *req.SurfacePressureMbar
	}
	steps := uc.steps(req.Steps)

	depth, err := domain.DepthByPressure(req.PressureMbar, p0, g, rp.profile, steps)
	if err != nil {
		return nil, fmt.Errorf("depth by pressure: %w", err)
	}

	return &DepthResponse{
		DepthM:              depth,
		PressureMbar:        req.PressureMbar,
		SurfacePressureMbar: p0,
		Gravity:             g,
		GravitySource:       gSource,
		Steps:               steps,
		Profile:             rp.info,
	}, nil
}

// SoundPath integrates the vertical distance a ping covers in the time of flight.
func (uc *PhysicsUseCase) SoundPath(req SoundPathRequest) (*SoundPathResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rp, err := uc.resolveProfile(req.Profile)
	if err != nil {
		return nil, err
	}
	g, gSource := uc.gravity(req.Gravity, rp.info.Latitude)
	steps := uc.steps(req.Steps)

	dist, err := domain.VerticalSoundPath(req.TimeOfFlightS, steps, g, rp.profile)
	if err != nil {
		return nil, fmt.Errorf("vertical sound path: %w", err)
	}

	resp := &SoundPathResponse{
		DistanceM:     dist,
		TimeOfFlightS: req.TimeOfFlightS,
		Gravity:       g,
		GravitySource: gSource,
		Steps:         steps,
		Profile:       rp.info,
	}
	if req.TimeOfFlightS > 0 {
		mean := dist / req.TimeOfFlightS
		resp.MeanSoundSpeed = &mean
	}
	return resp, nil
}

// ConvertDepth converts a depth in meters to pressure at constant density.
func (uc *PhysicsUseCase) ConvertDepth(req ConversionRequest) (*ConversionResponse, error) {
	resp, err := uc.conversion(req)
	if err != nil {
		return nil, err
	}
	resp.DepthM = req.Value
	resp.PressureMbar = domain.PressureFromDepth(req.Value, resp.SurfacePressureMbar, resp.Density, resp.Gravity)
	return resp, nil
}

// ConvertPressure converts a pressure in mBar to depth at constant density.
func (uc *PhysicsUseCase) ConvertPressure(req ConversionRequest) (*ConversionResponse, error) {
	resp, err := uc.conversion(req)
	if err != nil {
		return nil, err
	}
	resp.PressureMbar = req.Value
	resp.DepthM = domain.DepthFromPressure(req.Value, resp.SurfacePressureMbar, resp.Density, resp.Gravity)
	return resp, nil
}

func (uc *PhysicsUseCase) conversion(req ConversionRequest) (*ConversionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp := &ConversionResponse{
		SurfacePressureMbar: domain.AtmPressureMbar,
		Density:             domain.SeaWaterDensityKgM3,
	}
	if req.SurfacePressureMbar != nil {
		resp.SurfacePressureMbar = *req.SurfacePressureMbar
	}
	if req.Density != nil {
		resp.Density = *req.Density
	}
	resp.Gravity, _ = uc.gravity(req.Gravity, req.Lat)
	return resp, nil
}

// Profiles lists the profile ids of every configured source. An id served
// by several sources is reported once, under the first source listing it.
func (uc *PhysicsUseCase) Profiles() ([]ProfileSummary, error) {
	seen := make(map[string]bool)
	out := make([]ProfileSummary, 0)
	for _, l := range uc.listers {
		ids, err := l.List()
		if err != nil {
			return nil, fmt.Errorf("list %s profiles: %w", l.Source, err)
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, ProfileSummary{ID: id, Source: l.Source})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Profile returns a profile by id with its points.
func (uc *PhysicsUseCase) Profile(id string) (*ProfileDetail, error) {
	if id == "" {
		return nil, invalidf("profile id is required")
	}
	rp, err := uc.resolveProfile(ProfileRef{ID: id})
	if err != nil {
		return nil, err
	}
	return &ProfileDetail{ProfileInfo: rp.info, Data: rp.profile}, nil
}

// ProfileAt returns the profile resolved for a location.
func (uc *PhysicsUseCase) ProfileAt(lat, lon float64) (*ProfileDetail, error) {
	rp, err := uc.resolveProfile(ProfileRef{Lat: &lat, Lon: &lon})
	if err != nil {
		return nil, err
	}
	return &ProfileDetail{ProfileInfo: rp.info, Data: rp.profile}, nil
}

// Stations returns the station registry.
func (uc *PhysicsUseCase) Stations() []Station {
	return uc.registry.Stations()
}

func (uc *PhysicsUseCase) steps(requested int) int {
	if requested == 0 {
		return uc.defaultSteps
	}
	// Negative counts reach the library, which rejects them.
	return requested
}

// gravity picks the explicit value, then latitude, then standard gravity.
func (uc *PhysicsUseCase) gravity(explicit, lat *float64) (float64, string) {
	switch {
	case explicit != nil:
		return *explicit, GravityFromRequest
	case lat != nil:
		return domain.GravityDeg(*lat), GravityFromLatitude
	default:
		return domain.StandardGravityMps2, GravityStandard
	}
}

type resolvedProfile struct {
	profile domain.TSProfile
	info    ProfileInfo
}

func (uc *PhysicsUseCase) resolveProfile(ref ProfileRef) (*resolvedProfile, error) {
	switch {
	case len(ref.Inline) > 0:
		info := describe("", "inline", ref.Inline)
		info.Latitude = ref.InlineLat
		return &resolvedProfile{profile: ref.Inline, info: info}, nil
	case ref.ID != "":
		return uc.resolveStation(ref.ID)
	default:
		return uc.resolveLocation(*ref.Lat, *ref.Lon)
	}
}

func (uc *PhysicsUseCase) resolveStation(id string) (*resolvedProfile, error) {
	profile, source, err := uc.stations.FindStation(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
	}
	info := describe(id, source, profile)
	if lat, ok := uc.stations.StationLatitude(id); ok {
		info.Latitude = &lat
	}
	return &resolvedProfile{profile: profile, info: info}, nil
}

func (uc *PhysicsUseCase) resolveLocation(lat, lon float64) (*resolvedProfile, error) {
	var rp *resolvedProfile
	if st, dist, ok := uc.registry.Nearest(lat, lon); ok {
		var err error
		rp, err = uc.resolveStation(st.Profile)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", st.Name, err)
		}
		rp.info.Station = st.Name
		rp.info.StationDistKm = &dist
	} else {
		profile, source, err := uc.locations.FindLocation(lat, lon)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile for location (%.4f, %.4f): %w", lat, lon, err)
		}
		rp = &resolvedProfile{profile: profile, info: describe("", source, profile)}
	}
	rp.info.Latitude = &lat

	uc.clipToSeabed(rp, lat, lon)
	return rp, nil
}

// clipToSeabed truncates a location profile at the sea floor. Seabed
// lookup failures leave the profile untouched and add a warning.
func (uc *PhysicsUseCase) clipToSeabed(rp *resolvedProfile, lat, lon float64) {
	if uc.seabed == nil {
		return
	}
	depth, ok, err := uc.seabed.SeabedDepth(lat, lon)
	if err != nil {
		rp.info.Warnings = append(rp.info.Warnings, fmt.Sprintf("seabed lookup failed: %v", err))
		return
	}
	if !ok {
		return
	}
	rp.info.SeabedDepthM = &depth
	if depth >= rp.profile.MaxDepth() {
		return
	}
	clipped := rp.profile.TruncateAt(depth)
	if err := clipped.Validate(); err != nil {
		rp.info.Warnings = append(rp.info.Warnings,
			fmt.Sprintf("seabed at %.1f m is above the second profile point; profile not clipped", depth))
		return
	}
	rp.profile = clipped
	rp.info.Points = len(clipped)
	rp.info.MaxDepthM = clipped.MaxDepth()
}

func describe(id, source string, profile domain.TSProfile) ProfileInfo {
	return ProfileInfo{
		ID:        id,
		Source:    source,
		Points:    len(profile),
		MaxDepthM: profile.MaxDepth(),
	}
}

// IsNotFound reports whether err means no profile could be found.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// IsInvalidRequest reports whether err is a request validation failure.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
