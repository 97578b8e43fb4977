package services

import (
	"math"
	"testing"

	"github.com/camden-git/emotionsysbackend/media"
)

func TestEncodingDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0.0},
		{"pythagorean", []float32{0, 0}, []float32{3, 4}, 5.0},
		{"length mismatch reports sentinel", []float32{1, 2}, []float32{1, 2, 3}, media.MaxDistance},
		{"both empty reports sentinel", nil, nil, media.MaxDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodingDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("EncodingDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchEmptyGallery(t *testing.T) {
	m := NewMatcher(0.6)
	got := m.Match([]float32{1, 2, 3}, nil)
	if got.Name != media.UnknownIdentity || got.Distance != media.MaxDistance {
		t.Fatalf("Match with empty gallery = %+v, want Unknown at %v", got, media.MaxDistance)
	}
}

func TestMatchNilEncoding(t *testing.T) {
	m := NewMatcher(0.6)
	gallery := []media.KnownFace{{Name: "alice", Encoding: []float32{1, 2, 3}}}
	got := m.Match(nil, gallery)
	if got.Name != media.UnknownIdentity || got.Distance != media.MaxDistance {
		t.Fatalf("Match with nil encoding = %+v, want Unknown at %v", got, media.MaxDistance)
	}
}

func TestMatchPicksClosestIdentity(t *testing.T) {
	m := NewMatcher(0.6)
	gallery := []media.KnownFace{
		{Name: "alice", Encoding: []float32{0.5, 0}},
		{Name: "bob", Encoding: []float32{0.1, 0}},
	}
	got := m.Match([]float32{0, 0}, gallery)
	if got.Name != "bob" {
		t.Fatalf("Match = %+v, want bob", got)
	}
	if math.Abs(got.Distance-0.1) > 1e-6 {
		t.Fatalf("Distance = %v, want 0.1", got.Distance)
	}
}

func TestMatchAcceptsDistanceEqualToTolerance(t *testing.T) {
	m := NewMatcher(0.5)
	gallery := []media.KnownFace{{Name: "alice", Encoding: []float32{0.5, 0}}}
	got := m.Match([]float32{0, 0}, gallery)
	if got.Name != "alice" {
		t.Fatalf("Match at exact tolerance = %+v, want alice", got)
	}
}

func TestMatchRejectsBeyondToleranceKeepingDistance(t *testing.T) {
	m := NewMatcher(0.6)
	gallery := []media.KnownFace{{Name: "alice", Encoding: []float32{0.75, 0}}}
	got := m.Match([]float32{0, 0}, gallery)
	if got.Name != media.UnknownIdentity {
		t.Fatalf("Match beyond tolerance = %+v, want Unknown", got)
	}
	if math.Abs(got.Distance-0.75) > 1e-6 {
		t.Fatalf("rejected match must keep its computed distance, got %v", got.Distance)
	}
}

func TestNewMatcherDefaultsTolerance(t *testing.T) {
	if m := NewMatcher(0); m.Tolerance != 0.6 {
		t.Fatalf("NewMatcher(0).Tolerance = %v, want 0.6", m.Tolerance)
	}
}
