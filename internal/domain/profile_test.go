package domain

import (
	"errors"
	"math"
	"sync"
	"testing"
)

// North Pacific, 39°N.
var northPacific = TSProfile{
	{0, 12.0, 33.8}, {500, 7.0, 34.0}, {1000, 3.0, 34.25}, {1500, 2.5, 34.5},
	{2000, 2.0, 34.6}, {2500, 1.9, 34.65}, {3000, 1.8, 34.65}, {3500, 1.8, 34.66},
	{4000, 1.8, 34.67}, {4500, 1.8, 34.67}, {5000, 1.8, 34.67}, {5500, 1.9, 34.67},
	{6000, 1.9, 34.67},
}

// Arctic, 89°N.
var arctic = TSProfile{
	{0, -1.8, 32.8}, {100, -1.1, 34.25}, {200, 1.1, 34.8}, {300, 1.3, 34.9},
	{400, 1.1, 34.9}, {500, 0.75, 34.9}, {600, 0.4, 34.9}, {700, 0.2, 34.9},
	{800, -0.1, 34.9},
}

var twoPoint = TSProfile{{0, 10, 35}, {1000, 4, 35}}

func TestTSProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile TSProfile
		wantErr error
	}{
		{"valid", twoPoint, nil},
		{"empty", TSProfile{}, ErrProfileTooShort},
		{"single point", TSProfile{{0, 10, 35}}, ErrProfileTooShort},
		{"decreasing", TSProfile{{0, 10, 35}, {500, 8, 35}, {400, 7, 35}}, ErrProfileNotSorted},
		{"duplicate depth", TSProfile{{0, 10, 35}, {500, 8, 35}, {500, 7, 35}}, ErrDegenerateSegment},
		{"NaN depth", TSProfile{{0, 10, 35}, {math.NaN(), 8, 35}}, ErrProfileNotSorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTSProfile_TruncateAt(t *testing.T) {
	cut := northPacific.TruncateAt(750)
	if len(cut) != 3 {
		t.Fatalf("expected 3 points, got %d", len(cut))
	}
	end := cut[len(cut)-1]
	if end.Z != 750 || math.Abs(end.T-5.0) > 1e-12 || math.Abs(end.S-34.125) > 1e-12 {
		t.Errorf("interpolated end point: got %+v", end)
	}
	if err := cut.Validate(); err != nil {
		t.Errorf("truncated profile invalid: %v", err)
	}

	// Cutting on a profile point keeps it without duplicating it.
	if cut := northPacific.TruncateAt(1000); len(cut) != 3 || cut.MaxDepth() != 1000 {
		t.Errorf("TruncateAt(1000): got %d points to %g m", len(cut), cut.MaxDepth())
	}

	// Below the deepest point the profile is unchanged.
	if cut := arctic.TruncateAt(5000); len(cut) != len(arctic) {
		t.Errorf("TruncateAt(5000): expected %d points, got %d", len(arctic), len(cut))
	}

	if cut := arctic.TruncateAt(-1); len(cut) != 0 {
		t.Errorf("TruncateAt(-1): expected empty profile, got %d points", len(cut))
	}

	// The source profile is left alone.
	if northPacific[2].Z != 1000 {
		t.Errorf("source profile modified")
	}
}

func TestDepthByPressure_Preconditions(t *testing.T) {
	g := StandardGravityMps2
	p0 := AtmPressureMbar

	tests := []struct {
		name    string
		pm      float64
		g       float64
		profile TSProfile
		steps   int
		wantErr error
	}{
		{"zero steps", 50000, g, twoPoint, 0, ErrInvalidStepCount},
		{"negative steps", 50000, g, twoPoint, -10, ErrInvalidStepCount},
		{"short profile", 50000, g, twoPoint[:1], 100, ErrProfileTooShort},
		{"nil profile", 50000, g, nil, 100, ErrProfileTooShort},
		{"unsorted profile", 50000, g, TSProfile{{100, 4, 35}, {0, 10, 35}}, 100, ErrProfileNotSorted},
		{"duplicate depth", 50000, g, TSProfile{{0, 10, 35}, {0, 4, 35}}, 100, ErrDegenerateSegment},
		{"zero gravity", 50000, 0, twoPoint, 100, ErrInvalidGravity},
		{"below surface pressure", p0 - 1, g, twoPoint, 100, ErrPressureOutOfRange},
		{"beyond profile", 200000, g, twoPoint, 100, ErrPressureOutOfRange},
		{"NaN pressure", math.NaN(), g, twoPoint, 100, ErrPressureOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth, err := DepthByPressure(tt.pm, p0, tt.g, tt.profile, tt.steps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v (depth %g)", tt.wantErr, err, depth)
			}
			if !IsPrecondition(err) {
				t.Errorf("expected a precondition error, got %T", err)
			}
			var pe *PreconditionError
			if errors.As(err, &pe) && pe.Op != "DepthByPressure" {
				t.Errorf("unexpected op %q", pe.Op)
			}
			if depth != 0 {
				t.Errorf("expected no partial result, got %g", depth)
			}
		})
	}
}

func TestDepthByPressure_SurfacePressure(t *testing.T) {
	depth, err := DepthByPressure(AtmPressureMbar, AtmPressureMbar, StandardGravityMps2, twoPoint, 1000)
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	if depth != 0 {
		t.Errorf("expected exactly 0, got %.15f", depth)
	}
}

func TestDepthByPressure_TwoPointProfile(t *testing.T) {
	depth, err := DepthByPressure(50000, AtmPressureMbar, StandardGravityMps2, twoPoint, 1000)
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	if math.Abs(depth-485.7554752) > 1e-6 {
		t.Errorf("expected 485.7554752, got %.10f", depth)
	}

	// The end pressure of the profile is inside the range.
	pe := PressureFromDepth(1000, AtmPressureMbar, Density(10, AtmPressureMbar, 35), StandardGravityMps2)
	if _, err := DepthByPressure(pe, AtmPressureMbar, StandardGravityMps2, twoPoint, 1000); err != nil {
		t.Errorf("pm = pe rejected: %v", err)
	}
}

func TestDepthByPressure_NorthPacific(t *testing.T) {
	g := GravityDeg(39)

	tests := []struct {
		pm       float64
		steps    int
		expected float64
	}{
		{100000, 100, 981.6128932},
		{100000, 1000, 981.6395109},
		{100000, 10000, 981.6421733},
		{300000, 100, 2949.66689},
		{300000, 1000, 2949.86851},
		{300000, 10000, 2949.88869},
	}

	for _, tt := range tests {
		got, err := DepthByPressure(tt.pm, AtmPressureMbar, g, northPacific, tt.steps)
		if err != nil {
			t.Fatalf("DepthByPressure(%g, N=%d): %v", tt.pm, tt.steps, err)
		}
		if math.Abs(got-tt.expected) > 1e-4 {
			t.Errorf("DepthByPressure(%g, N=%d): expected %.7f, got %.7f", tt.pm, tt.steps, tt.expected, got)
		}
	}
}

func TestDepthByPressure_Monotonic(t *testing.T) {
	g := GravityDeg(39)
	prev := -1.0
	for pm := AtmPressureMbar; pm <= 500000; pm += 25000 {
		depth, err := DepthByPressure(pm, AtmPressureMbar, g, northPacific, 1000)
		if err != nil {
			t.Fatalf("DepthByPressure(%g): %v", pm, err)
		}
		if depth <= prev {
			t.Errorf("depth at %g mBar (%g) not greater than %g", pm, depth, prev)
		}
		prev = depth
	}
}

func TestVerticalSoundPath_Preconditions(t *testing.T) {
	g := StandardGravityMps2

	tests := []struct {
		name    string
		tof     float64
		steps   int
		g       float64
		profile TSProfile
		wantErr error
	}{
		{"short profile", 0.1, 100, g, twoPoint[:1], ErrProfileTooShort},
		{"unsorted profile", 0.1, 100, g, TSProfile{{0, 10, 35}, {200, 8, 35}, {100, 7, 35}}, ErrProfileNotSorted},
		{"zero steps", 0.1, 0, g, twoPoint, ErrInvalidStepCount},
		{"negative gravity", 0.1, 100, -g, twoPoint, ErrInvalidGravity},
		{"negative time", -0.1, 100, g, twoPoint, ErrInvalidTimeOfFlight},
		{"beyond profile", 1.0, 100, g, twoPoint, ErrTimeOfFlightOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := VerticalSoundPath(tt.tof, tt.steps, tt.g, tt.profile)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v (h %g)", tt.wantErr, err, h)
			}
			if !IsPrecondition(err) {
				t.Errorf("expected a precondition error, got %T", err)
			}
			if h != 0 {
				t.Errorf("expected no partial result, got %g", h)
			}
		})
	}
}

func TestVerticalSoundPath_ZeroTime(t *testing.T) {
	h, err := VerticalSoundPath(0, 100, StandardGravityMps2, twoPoint)
	if err != nil {
		t.Fatalf("VerticalSoundPath: %v", err)
	}
	if h != 0 {
		t.Errorf("expected 0, got %g", h)
	}
}

func TestVerticalSoundPath_Exhausted(t *testing.T) {
	// The surface speed fits within the profile; warmer, saltier water below
	// pushes the path past the last point.
	profile := TSProfile{{0, 0, 30}, {100, 30, 40}}
	v0 := SoundSpeed(0, PressureFromDepth(0, AtmPressureMbar, Density(0, AtmPressureMbar, 30), StandardGravityMps2), 30)
	tof := 99 / v0

	_, err := VerticalSoundPath(tof, 100, StandardGravityMps2, profile)
	if !errors.Is(err, ErrProfileExhausted) {
		t.Fatalf("expected ErrProfileExhausted, got %v", err)
	}
}

func TestVerticalSoundPath_NorthPacific(t *testing.T) {
	g := GravityDeg(39)

	tests := []struct {
		tof      float64
		expected []float64 // N = 10, 100, 1000, 10000
	}{
		{0.5, []float64{744.8937433599, 744.6807751461, 744.6602430116, 744.6581902859}},
		{1.0, []float64{1491.1642908, 1491.7119976, 1491.7766786, 1491.7832278}},
		{2.0, []float64{3047.2389373, 3060.6031495, 3062.0380138, 3062.1826313}},
	}
	steps := []int{10, 100, 1000, 10000}

	for _, tt := range tests {
		for i, n := range steps {
			got, err := VerticalSoundPath(tt.tof, n, g, northPacific)
			if err != nil {
				t.Fatalf("VerticalSoundPath(%g, N=%d): %v", tt.tof, n, err)
			}
			if math.Abs(got-tt.expected[i]) > 1e-4 {
				t.Errorf("VerticalSoundPath(%g, N=%d): expected %.7f, got %.7f", tt.tof, n, tt.expected[i], got)
			}
		}
	}
}

func TestVerticalSoundPath_Converges(t *testing.T) {
	g := GravityDeg(89)
	steps := []int{10, 100, 1000, 10000}

	var results []float64
	for _, n := range steps {
		h, err := VerticalSoundPath(0.3, n, g, arctic)
		if err != nil {
			t.Fatalf("VerticalSoundPath(N=%d): %v", n, err)
		}
		results = append(results, h)
	}

	if math.Abs(results[0]-436.6366325) > 1e-4 || math.Abs(results[1]-437.1284655) > 1e-4 {
		t.Errorf("unexpected Arctic distances: %v", results)
	}

	// Successive refinements move in one direction by shrinking amounts.
	for i := 2; i < len(results); i++ {
		prevDelta := results[i-1] - results[i-2]
		delta := results[i] - results[i-1]
		if math.Signbit(prevDelta) != math.Signbit(delta) {
			t.Errorf("N=%d: direction changed (%g then %g)", steps[i], prevDelta, delta)
		}
		if math.Abs(delta) >= math.Abs(prevDelta) {
			t.Errorf("N=%d: step change %g not smaller than %g", steps[i], delta, prevDelta)
		}
	}
}

func TestIntegrators_Concurrent(t *testing.T) {
	g := GravityDeg(39)
	wantDepth, err := DepthByPressure(200000, AtmPressureMbar, g, northPacific, 2000)
	if err != nil {
		t.Fatalf("DepthByPressure: %v", err)
	}
	wantPath, err := VerticalSoundPath(1.5, 2000, g, northPacific)
	if err != nil {
		t.Fatalf("VerticalSoundPath: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := DepthByPressure(200000, AtmPressureMbar, g, northPacific, 2000)
			if err != nil || d != wantDepth {
				errs <- "DepthByPressure mismatch"
			}
			h, err := VerticalSoundPath(1.5, 2000, g, northPacific)
			if err != nil || h != wantPath {
				errs <- "VerticalSoundPath mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestIntegrators_CoarseSteps(t *testing.T) {
	g := GravityDeg(39)

	// A single step may span several profile segments.
	tests := []struct {
		steps     int
		depth     float64
		soundPath float64
	}{
		{1, 2929.3391528, 2991.0971924},
		{2, 2939.1438285, 3005.7843437},
		{3, 2942.5531500, 3016.4732397},
	}

	for _, tt := range tests {
		depth, err := DepthByPressure(300000, AtmPressureMbar, g, northPacific, tt.steps)
		if err != nil {
			t.Fatalf("DepthByPressure(N=%d): %v", tt.steps, err)
		}
		if math.Abs(depth-tt.depth) > 1e-4 {
			t.Errorf("DepthByPressure(N=%d): expected %.7f, got %.7f", tt.steps, tt.depth, depth)
		}

		h, err := VerticalSoundPath(2.0, tt.steps, g, northPacific)
		if err != nil {
			t.Fatalf("VerticalSoundPath(N=%d): %v", tt.steps, err)
		}
		if math.Abs(h-tt.soundPath) > 1e-4 {
			t.Errorf("VerticalSoundPath(N=%d): expected %.7f, got %.7f", tt.steps, tt.soundPath, h)
		}
	}
}

func TestIntegrators_NonFiniteProfile(t *testing.T) {
	// The surface point is sound, so both integrators get past their range
	// checks before the missing temperature is sampled.
	profile := TSProfile{{0, 10, 35}, {1000, math.NaN(), 35}}

	_, err := DepthByPressure(50000, AtmPressureMbar, StandardGravityMps2, profile, 10)
	if !errors.Is(err, ErrNumericDegeneracy) || !IsPrecondition(err) {
		t.Errorf("DepthByPressure: expected ErrNumericDegeneracy precondition, got %v", err)
	}

	_, err = VerticalSoundPath(0.1, 10, StandardGravityMps2, profile)
	if !errors.Is(err, ErrNumericDegeneracy) || !IsPrecondition(err) {
		t.Errorf("VerticalSoundPath: expected ErrNumericDegeneracy precondition, got %v", err)
	}
}
