package progress

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  []Phase
	}{
		{
			name:  "no signals",
			chunk: "Hello, how can I help you today?",
			want:  nil,
		},
		{
			name:  "statutory section",
			chunk: "Looking at Section 420 of the code",
			want:  []Phase{PhaseSections},
		},
		{
			name:  "case insensitive",
			chunk: "THE LANDMARK JUDGMENT in this matter",
			want:  []Phase{PhaseLandmark},
		},
		{
			name:  "multiple phases in one chunk",
			chunk: "This provision was amended by the 2019 act; a recent judgment clarified it",
			want:  []Phase{PhaseSections, PhaseAmendments, PhaseRecent},
		},
		{
			name:  "writing phase",
			chunk: "Now drafting the final opinion",
			want:  []Phase{PhaseWriting},
		},
		{
			name:  "principles",
			chunk: "Under the doctrine of basic structure",
			want:  []Phase{PhasePrinciples},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.chunk)
			if len(got) != len(tt.want) {
				t.Fatalf("Detect(%q) = %v, want %v", tt.chunk, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Detect(%q)[%d] = %v, want %v", tt.chunk, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDetectReturnsSubsetOfKnownPhases(t *testing.T) {
	known := map[Phase]bool{
		PhaseSections: true, PhaseAmendments: true, PhaseLandmark: true,
		PhaseRecent: true, PhasePrinciples: true, PhaseWriting: true,
	}
	chunks := []string{
		"", "plain text", "Section 12 amendment landmark ruling recent judgment doctrine of estoppel drafting",
	}
	for _, c := range chunks {
		seen := map[Phase]bool{}
		for _, p := range Detect(c) {
			if !known[p] {
				t.Errorf("Detect(%q) returned unknown phase %q", c, p)
			}
			if seen[p] {
				t.Errorf("Detect(%q) returned duplicate phase %q", c, p)
			}
			seen[p] = true
		}
	}
}
