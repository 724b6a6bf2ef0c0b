package usecase

import (
	"errors"
	"math"
	"testing"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/adapter/store/builtin"
	"go.ngs.io/seawater/internal/domain"
)

var twoPoint = domain.TSProfile{{Z: 0, T: 10, S: 35}, {Z: 1000, T: 4, S: 35}}

type mapLoader map[string]domain.TSProfile

func (m mapLoader) LoadForStation(id string) (domain.TSProfile, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (m mapLoader) LoadForLocation(_, _ float64) (domain.TSProfile, error) {
	if p, ok := m["*"]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

type fakeSeabed struct {
	depth float64
	ok    bool
	err   error
}

func (f fakeSeabed) SeabedDepth(_, _ float64) (float64, bool, error) {
	return f.depth, f.ok, f.err
}

func ptr(v float64) *float64 { return &v }

func newTestUseCase(t *testing.T, seabed Seabed) *PhysicsUseCase {
	t.Helper()
	registry, err := NewStationRegistry([]Station{
		{Name: "Ocean Station P", Lat: 50, Lon: -145, RadiusKm: 100, Profile: "two"},
	})
	if err != nil {
		t.Fatalf("NewStationRegistry: %v", err)
	}
	files := mapLoader{"two": twoPoint}
	return NewPhysicsUseCase(Config{
		Stations: store.Chain{
			{Name: "files", Loader: files},
			{Name: "builtin", Loader: builtin.Store{}},
		},
		Locations: store.Chain{
			{Name: "climatology", Loader: mapLoader{"*": twoPoint}},
		},
		Registry: registry,
		Seabed:   seabed,
		Listers: []ProfileLister{
			{Source: "files", List: func() ([]string, error) { return []string{"two", "arctic"}, nil }},
			{Source: "builtin", List: func() ([]string, error) { return builtin.IDs(), nil }},
		},
	})
}

func TestDepthByPressure_Station(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 50000,
		Gravity:      ptr(domain.StandardGravityMps2),
		Profile:      ProfileRef{ID: "two"},
	})
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	if math.Abs(resp.DepthM-485.7554752) > 1e-6 {
		t.Errorf("depth = %.10f, want 485.7554752", resp.DepthM)
	}
	if resp.Steps != DefaultSteps || resp.GravitySource != GravityFromRequest {
		t.Errorf("steps=%d gravity source=%s", resp.Steps, resp.GravitySource)
	}
	if resp.SurfacePressureMbar != domain.AtmPressureMbar {
		t.Errorf("p0 = %v, want atmospheric", resp.SurfacePressureMbar)
	}
	if resp.Profile.Source != "files" || resp.Profile.Points != 2 || resp.Profile.MaxDepthM != 1000 {
		t.Errorf("profile info = %+v", resp.Profile)
	}
}

func TestDepthByPressure_GravityFromProfileLatitude(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 100000,
		Profile:      ProfileRef{ID: "north_pacific"},
	})
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	if resp.GravitySource != GravityFromLatitude {
		t.Errorf("gravity source = %s, want latitude", resp.GravitySource)
	}
	if math.Abs(resp.Gravity-domain.GravityDeg(39)) > 1e-12 {
		t.Errorf("gravity = %.10f, want g(39°)", resp.Gravity)
	}
	if resp.Profile.Source != "builtin" {
		t.Errorf("source = %s, want builtin", resp.Profile.Source)
	}
}

func TestDepthByPressure_InlineStandardGravity(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 50000,
		Steps:        1000,
		Profile:      ProfileRef{Inline: twoPoint},
	})
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	if resp.GravitySource != GravityStandard || resp.Profile.Source != "inline" {
		t.Errorf("gravity source=%s profile source=%s", resp.GravitySource, resp.Profile.Source)
	}
	if math.Abs(resp.DepthM-485.7554752) > 1e-6 {
		t.Errorf("depth = %.10f, want 485.7554752", resp.DepthM)
	}
}

func TestDepthByPressure_InlineLatitude(t *testing.T) {
	uc := newTestUseCase(t, nil)
	np, _ := builtin.Lookup("north_pacific")

	inline, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 100000,
		Profile:      ProfileRef{Inline: np.Points, InlineLat: ptr(39)},
	})
	if err != nil {
		t.Fatalf("DepthByPressure inline: %v", err)
	}
	if inline.GravitySource != GravityFromLatitude {
		t.Errorf("gravity source = %s, want latitude", inline.GravitySource)
	}
	if inline.Profile.Latitude == nil || *inline.Profile.Latitude != 39 {
		t.Errorf("profile latitude = %v, want 39", inline.Profile.Latitude)
	}

	stored, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 100000,
		Profile:      ProfileRef{ID: "north_pacific"},
	})
	if err != nil {
		t.Fatalf("DepthByPressure stored: %v", err)
	}
	if inline.DepthM != stored.DepthM {
		t.Errorf("inline depth %.10f differs from stored depth %.10f", inline.DepthM, stored.DepthM)
	}
}

func TestDepthByPressure_RegistryStation(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 50000,
		Profile:      ProfileRef{Lat: ptr(50.1), Lon: ptr(-145)},
	})
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	info := resp.Profile
	if info.Station != "Ocean Station P" || info.ID != "two" || info.Source != "files" {
		t.Errorf("profile info = %+v", info)
	}
	if info.StationDistKm == nil || math.Abs(*info.StationDistKm-11.12) > 0.01 {
		t.Errorf("station distance = %v", info.StationDistKm)
	}
	if resp.GravitySource != GravityFromLatitude || math.Abs(resp.Gravity-domain.GravityDeg(50.1)) > 1e-12 {
		t.Errorf("gravity = %v (%s), want g(50.1°)", resp.Gravity, resp.GravitySource)
	}
}

func TestLocationProfile_ClippedAtSeabed(t *testing.T) {
	uc := newTestUseCase(t, fakeSeabed{depth: 600, ok: true})

	resp, err := uc.DepthByPressure(DepthRequest{
		PressureMbar: 50000,
		Gravity:      ptr(domain.StandardGravityMps2),
		Steps:        1000,
		Profile:      ProfileRef{Lat: ptr(0), Lon: ptr(0)},
	})
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	info := resp.Profile
	if info.Source != "climatology" || info.MaxDepthM != 600 || info.Points != 2 {
		t.Errorf("profile info = %+v", info)
	}
	if info.SeabedDepthM == nil || *info.SeabedDepthM != 600 {
		t.Errorf("seabed depth = %v", info.SeabedDepthM)
	}
	// T is linear in depth, so the clip does not change the integral.
	if math.Abs(resp.DepthM-485.7554752) > 1e-6 {
		t.Errorf("depth = %.10f, want 485.7554752", resp.DepthM)
	}

	// 0.5 s at ~1490 m/s is below the clipped sea floor.
	_, err = uc.SoundPath(SoundPathRequest{
		TimeOfFlightS: 0.5,
		Profile:       ProfileRef{Lat: ptr(0), Lon: ptr(0)},
	})
	if !errors.Is(err, domain.ErrTimeOfFlightOutOfRange) || !domain.IsPrecondition(err) {
		t.Errorf("err = %v, want ErrTimeOfFlightOutOfRange precondition", err)
	}
}

func TestLocationProfile_SeabedFailureIsWarning(t *testing.T) {
	uc := newTestUseCase(t, fakeSeabed{err: errors.New("grid unavailable")})

	detail, err := uc.ProfileAt(0, 0)
	if err != nil {
		t.Fatalf("ProfileAt: %v", err)
	}
	if detail.MaxDepthM != 1000 || len(detail.Warnings) != 1 {
		t.Errorf("detail = %+v", detail.ProfileInfo)
	}
}

func TestSoundPath(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.SoundPath(SoundPathRequest{
		TimeOfFlightS: 0.3,
		Gravity:       ptr(domain.StandardGravityMps2),
		Steps:         1000,
		Profile:       ProfileRef{ID: "two"},
	})
	if err != nil {
		t.Fatalf("SoundPath: %v", err)
	}
	if math.Abs(resp.DistanceM-446.6326598) > 1e-6 {
		t.Errorf("distance = %.10f, want 446.6326598", resp.DistanceM)
	}
	if resp.MeanSoundSpeed == nil || math.Abs(*resp.MeanSoundSpeed-resp.DistanceM/0.3) > 1e-9 {
		t.Errorf("mean sound speed = %v", resp.MeanSoundSpeed)
	}

	zero, err := uc.SoundPath(SoundPathRequest{Profile: ProfileRef{ID: "two"}})
	if err != nil {
		t.Fatalf("SoundPath(tof=0): %v", err)
	}
	if zero.DistanceM != 0 || zero.MeanSoundSpeed != nil {
		t.Errorf("tof=0: %+v", zero)
	}
}

func TestRequestErrors(t *testing.T) {
	uc := newTestUseCase(t, nil)

	tests := []struct {
		name string
		call func() error
		want func(error) bool
	}{
		{"no profile", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000})
			return err
		}, IsInvalidRequest},
		{"id and lat/lon", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000, Profile: ProfileRef{ID: "two", Lat: ptr(1), Lon: ptr(1)}})
			return err
		}, IsInvalidRequest},
		{"lat without lon", func() error {
			_, err := uc.SoundPath(SoundPathRequest{TimeOfFlightS: 0.1, Profile: ProfileRef{Lat: ptr(1)}})
			return err
		}, IsInvalidRequest},
		{"latitude out of range", func() error {
			_, err := uc.SoundPath(SoundPathRequest{TimeOfFlightS: 0.1, Profile: ProfileRef{Lat: ptr(91), Lon: ptr(0)}})
			return err
		}, IsInvalidRequest},
		{"inline latitude without inline profile", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000, Profile: ProfileRef{ID: "two", InlineLat: ptr(10)}})
			return err
		}, IsInvalidRequest},
		{"inline latitude out of range", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000, Profile: ProfileRef{Inline: twoPoint, InlineLat: ptr(-95)}})
			return err
		}, IsInvalidRequest},
		{"NaN pressure", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: math.NaN(), Profile: ProfileRef{ID: "two"}})
			return err
		}, IsInvalidRequest},
		{"too many steps", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000, Steps: MaxSteps + 1, Profile: ProfileRef{ID: "two"}})
			return err
		}, IsInvalidRequest},
		{"unknown profile", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000, Profile: ProfileRef{ID: "atlantis"}})
			return err
		}, IsNotFound},
		{"negative steps", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 2000, Steps: -1, Profile: ProfileRef{ID: "two"}})
			return err
		}, domain.IsPrecondition},
		{"pressure beyond profile", func() error {
			_, err := uc.DepthByPressure(DepthRequest{PressureMbar: 200000, Profile: ProfileRef{ID: "two"}})
			return err
		}, domain.IsPrecondition},
		{"invalid inline profile", func() error {
			_, err := uc.SoundPath(SoundPathRequest{TimeOfFlightS: 0.1, Profile: ProfileRef{Inline: twoPoint[:1]}})
			return err
		}, domain.IsPrecondition},
		{"negative frequency", func() error {
			_, err := uc.Properties(PropertiesRequest{Temperature: 10, Pressure: 1013.25, Salinity: 35, FrequencyKHz: ptr(-1)})
			return err
		}, IsInvalidRequest},
		{"zero density", func() error {
			_, err := uc.ConvertDepth(ConversionRequest{Value: 10, Density: ptr(0)})
			return err
		}, IsInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil || !tt.want(err) {
				t.Errorf("unexpected error classification: %v", err)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.Properties(PropertiesRequest{Temperature: 40, Pressure: 1e6, Salinity: 40})
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	if math.Abs(resp.SoundSpeed-1731.995) > 0.001 {
		t.Errorf("sound speed = %.6f, want 1731.995", resp.SoundSpeed)
	}
	if resp.SoundSpeedPlausible {
		t.Error("1732 m/s should be flagged implausible")
	}
	if resp.Density != domain.Density(40, 1e6, 40) || resp.FreezingPoint != domain.FreezingPoint(1e6, 40) {
		t.Errorf("unexpected properties: %+v", resp)
	}
	if resp.Gravity != nil || resp.Absorption != nil {
		t.Errorf("optional fields set without inputs: %+v", resp)
	}

	resp, err = uc.Properties(PropertiesRequest{
		Temperature: 4, Pressure: domain.AtmPressureMbar, Salinity: 35,
		Lat: ptr(45), FrequencyKHz: ptr(10),
	})
	if err != nil {
		t.Fatalf("Properties with absorption: %v", err)
	}
	if resp.Gravity == nil || math.Abs(*resp.Gravity-domain.GravityDeg(45)) > 1e-12 {
		t.Errorf("gravity = %v", resp.Gravity)
	}
	if resp.AbsorptionDepthM == nil || *resp.AbsorptionDepthM != 0 {
		t.Errorf("absorption depth = %v, want 0 at the surface", resp.AbsorptionDepthM)
	}
	if want := domain.Absorption(10, 4, 35, 0, DefaultPH); resp.Absorption == nil || *resp.Absorption != want {
		t.Errorf("absorption = %v, want %v", resp.Absorption, want)
	}
}

func TestConversions(t *testing.T) {
	uc := newTestUseCase(t, nil)

	p, err := uc.ConvertDepth(ConversionRequest{Value: 100})
	if err != nil {
		t.Fatalf("ConvertDepth: %v", err)
	}
	want := 100*domain.SeaWaterDensityKgM3*domain.StandardGravityMps2/100 + domain.AtmPressureMbar
	if math.Abs(p.PressureMbar-want) > 1e-9 {
		t.Errorf("pressure = %.10f, want %.10f", p.PressureMbar, want)
	}

	d, err := uc.ConvertPressure(ConversionRequest{Value: p.PressureMbar, Lat: ptr(0)})
	if err != nil {
		t.Fatalf("ConvertPressure: %v", err)
	}
	// Equatorial gravity is lower than standard gravity, so the depth is larger.
	if d.DepthM <= 100 || d.Gravity != domain.GravityDeg(0) {
		t.Errorf("depth = %.6f with g = %v", d.DepthM, d.Gravity)
	}
}

func TestProfiles(t *testing.T) {
	uc := newTestUseCase(t, nil)

	list, err := uc.Profiles()
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	want := []ProfileSummary{
		{ID: "arctic", Source: "files"},
		{ID: "north_pacific", Source: "builtin"},
		{ID: "south_atlantic", Source: "builtin"},
		{ID: "two", Source: "files"},
	}
	if len(list) != len(want) {
		t.Fatalf("Profiles = %+v", list)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("Profiles[%d] = %+v, want %+v", i, list[i], want[i])
		}
	}

	detail, err := uc.Profile("ARCTIC")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if detail.Source != "builtin" || detail.Latitude == nil || *detail.Latitude != 89 || len(detail.Data) != 9 {
		t.Errorf("detail = %+v", detail)
	}
}
