package frame

import (
	"math"
	"testing"
)

func TestVec3_Norm(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected float64
	}{
		{Vec3{3, 4, 0}, 5.0},
		{Vec3{1, 0, 0}, 1.0},
		{Vec3{0, 0, 0}, 0.0},
		{Vec3{1, 1, 1}, math.Sqrt(3)},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	sum := a.Add(b)
	if sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", scaled)
	}

	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot failed: got %v", got)
	}
}

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"x cross y", Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"y cross z", Vec3{0, 1, 0}, Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{"parallel", Vec3{2, 0, 0}, Vec3{5, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); got != tt.expected {
				t.Errorf("Cross = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVec3_Unit(t *testing.T) {
	u := Vec3{0, 3, 4}.Unit()
	if math.Abs(u.Norm()-1) > 1e-12 {
		t.Errorf("Unit norm = %v, want 1", u.Norm())
	}

	if got := (Vec3{}).Unit(); got != (Vec3{}) {
		t.Errorf("Unit of zero vector = %v, want zero", got)
	}
}

func TestVec3_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec3
		valid bool
	}{
		{"normal", Vec3{1, 2, 3}, true},
		{"zero", Vec3{}, true},
		{"NaN", Vec3{math.NaN(), 0, 0}, false},
		{"+Inf", Vec3{0, math.Inf(1), 0}, false},
		{"-Inf", Vec3{0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec3_Clamp(t *testing.T) {
	v := Vec3{3, 4, 0}

	clamped := v.Clamp(1)
	if math.Abs(clamped.Norm()-1) > 1e-12 {
		t.Errorf("Clamp norm = %v, want 1", clamped.Norm())
	}

	if got := v.Clamp(10); got != v {
		t.Errorf("Clamp below limit changed vector: %v", got)
	}

	if got := v.Clamp(0); got != v {
		t.Errorf("Clamp with zero limit changed vector: %v", got)
	}
}
