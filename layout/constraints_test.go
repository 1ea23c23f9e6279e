package layout

import "testing"

func TestConstraintsHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  Constraints
		want Constraints
	}{
		{
			name: "Tight",
			got:  Tight(100, 50),
			want: Constraints{100, 100, 50, 50},
		},
		{
			name: "Loose",
			got:  Loose(100, 50),
			want: Constraints{0, 100, 0, 50},
		},
		{
			name: "Loosen",
			got:  Tight(100, 50).Loosen(),
			want: Constraints{0, 100, 0, 50},
		},
		{
			name: "Deflate",
			got:  Tight(100, 50).Deflate(20, 10),
			want: Constraints{80, 80, 40, 40},
		},
		{
			name: "DeflateBelowZero",
			got:  Tight(10, 10).Deflate(20, 20),
			want: Constraints{0, 0, 0, 0},
		},
		{
			name: "Enforce",
			got:  Loose(500, 500).Enforce(Constraints{50, 100, 50, 100}),
			want: Constraints{50, 100, 50, 100},
		},
		{
			name: "CopyWithMaxWidthClampsMin",
			got:  Tight(100, 50).CopyWithMaxWidth(80),
			want: Constraints{80, 80, 50, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestConstraintsBoundedness(t *testing.T) {
	c := Unbounded()
	if c.HasBoundedWidth() || c.HasBoundedHeight() {
		t.Error("unbounded constraints reported as bounded")
	}
	if !Tight(10, 10).IsTight() {
		t.Error("tight constraints not reported tight")
	}

	deflated := Unbounded().Deflate(10, 10)
	if deflated.HasBoundedWidth() {
		t.Error("deflating an unbounded axis must keep it unbounded")
	}
}

func TestConstrainClamps(t *testing.T) {
	c := Constraints{10, 100, 20, 200}

	tests := []struct {
		w, h         float32
		wantW, wantH float32
	}{
		{0, 0, 10, 20},
		{50, 50, 50, 50},
		{500, 500, 100, 200},
	}
	for _, tt := range tests {
		w, h := c.Constrain(tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("Constrain(%v,%v) = (%v,%v), want (%v,%v)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}
