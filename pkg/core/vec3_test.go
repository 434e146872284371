package core

import (
	"math"
	"testing"
)

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		normal   Vec3
		expected Vec3
	}{
		{
			name:     "Head-on",
			v:        NewVec3(0, 1, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(0, 1, 0),
		},
		{
			name:     "45 degrees",
			v:        NewVec3(1, 1, 0).Normalize(),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(-1, 1, 0).Normalize(),
		},
		{
			name:     "Tilted normal",
			v:        NewVec3(0, 0, 1),
			normal:   NewVec3(0, 1, 1).Normalize(),
			expected: NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reflect(tt.v, tt.normal)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, -2, 3).IsFinite() {
		t.Error("expected finite vector")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize of zero vector should stay zero, got %v", got)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	if got := x.Cross(y); !got.Equals(NewVec3(0, 0, 1)) {
		t.Errorf("x × y = %v, expected +z", got)
	}
}
