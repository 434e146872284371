package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestNewCone_Validation(t *testing.T) {
	origin := core.NewVec3(0, 0, 0)
	up := core.NewVec3(0, 1, 0)

	tests := []struct {
		name       string
		baseRadius float64
		top        core.Vec3
		topRadius  float64
		wantErr    string
	}{
		{"pointed", 1, up, 0, ""},
		{"frustum", 1, up, 0.5, ""},
		{"zero base radius", 0, up, 0, "base radius"},
		{"negative top radius", 1, up, -0.1, "top radius"},
		{"equal radii", 1, up, 1, "cylinder"},
		{"inverted", 0.5, up, 1, "smaller"},
		{"coincident centers", 1, origin, 0, "coincide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cone, err := NewCone(origin, tt.baseRadius, tt.top, tt.topRadius, false, nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if cone == nil {
					t.Fatal("Expected a cone")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCone_Hit(t *testing.T) {
	base := core.NewVec3(0, 0, 0)
	top := core.NewVec3(0, 1, 0)

	tests := []struct {
		name           string
		topRadius      float64
		capped         bool
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "pointed side halfway up",
			ray:            core.NewRay(core.NewVec3(0, 0.5, 5), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      4.5,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 1).Normalize(),
		},
		{
			name: "mirror nappe above the apex is ignored",
			ray:  core.NewRay(core.NewVec3(0, 1.5, 5), core.NewVec3(0, 0, -1)),
		},
		{
			name: "beside the base",
			ray:  core.NewRay(core.NewVec3(0, 0.5, 5), core.NewVec3(1, 0, 0)),
		},
		{
			name:           "capped base from below",
			capped:         true,
			ray:            core.NewRay(core.NewVec3(0.2, -1, 0), core.NewVec3(0, 1, 0)),
			shouldHit:      true,
			expectedT:      1,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, -1, 0),
		},
		{
			name:           "frustum side",
			topRadius:      0.5,
			ray:            core.NewRay(core.NewVec3(0, 0.5, 5), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      4.25,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0.5, 1).Normalize(),
		},
		{
			name:      "open frustum along the axis",
			topRadius: 0.5,
			ray:       core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
		},
		{
			name:           "capped frustum top",
			topRadius:      0.5,
			capped:         true,
			ray:            core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			shouldHit:      true,
			expectedT:      4,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cone, err := NewCone(base, 1, top, tt.topRadius, tt.capped, nil)
			if err != nil {
				t.Fatalf("NewCone failed: %v", err)
			}

			hit, ok := cone.Hit(tt.ray, 0.001, 1000)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v (t=%f)", tt.shouldHit, ok, hit.T)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if !nearlyEqual(hit.GeometryNormal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.GeometryNormal)
			}
		})
	}
}

func TestCone_BoundingBox(t *testing.T) {
	cone, err := NewCone(core.NewVec3(0, 0, 0), 1, core.NewVec3(0, 2, 0), 0.5, true, nil)
	if err != nil {
		t.Fatalf("NewCone failed: %v", err)
	}

	bbox := cone.BoundingBox()
	if !nearlyEqual(bbox.Min, core.NewVec3(-1, 0, -1), 1e-3) || !nearlyEqual(bbox.Max, core.NewVec3(1, 2, 1), 1e-3) {
		t.Errorf("Expected bounds (-1,0,-1)..(1,2,1), got %v..%v", bbox.Min, bbox.Max)
	}
}
