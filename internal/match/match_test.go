package match

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Write A Song",
			expected: "write a song",
		},
		{
			name:     "strips punctuation",
			input:    "Write a song, please!",
			expected: "write a song please",
		},
		{
			name:     "collapses whitespace",
			input:    "write   a\t\tsong\n\nplease",
			expected: "write a song please",
		},
		{
			name:     "punctuation acts as token boundary",
			input:    "spotify/apple-music",
			expected: "spotify apple music",
		},
		{
			name:     "trims leading and trailing space",
			input:    "  draft a tweet  ",
			expected: "draft a tweet",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "punctuation only",
			input:    "?!...",
			expected: "",
		},
		{
			name:     "keeps digits",
			input:    "Top 10 fans for 2025!",
			expected: "top 10 fans for 2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		prompt   string
		wantKind Kind
	}{
		{
			name:     "exact after normalization",
			message:  "Write a song about my artist!",
			prompt:   "write a song about my artist",
			wantKind: KindExact,
		},
		{
			name:     "message contains prompt",
			message:  "hey can you draft a release plan for me today",
			prompt:   "draft a release plan",
			wantKind: KindContainment,
		},
		{
			name:     "prompt contains message",
			message:  "segment my fanbase",
			prompt:   "segment my fanbase by listening habits and location",
			wantKind: KindContainment,
		},
		{
			name:     "short strings never match by containment",
			message:  "a plan",
			prompt:   "plan",
			wantKind: KindNone,
		},
		{
			name:     "unrelated strings",
			message:  "what is the weather like",
			prompt:   "write a marketing plan for the new single",
			wantKind: KindNone,
		},
		{
			name:     "empty prompt never matches",
			message:  "write a song",
			prompt:   "",
			wantKind: KindNone,
		},
		{
			name:     "empty message never matches",
			message:  "",
			prompt:   "write a song",
			wantKind: KindNone,
		},
		{
			name:     "punctuation-only message never matches",
			message:  "!!!",
			prompt:   "write a song",
			wantKind: KindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.message, tt.prompt)
			if got.Kind != tt.wantKind {
				t.Errorf("Match(%q, %q) kind = %v, want %v", tt.message, tt.prompt, got.Kind, tt.wantKind)
			}
		})
	}
}

func TestMatchOverlapThreshold(t *testing.T) {
	// 8 shared tokens, 2 unique to the message: 8/10 = 0.8, exactly at threshold
	message := "one two three four five six seven eight nine ten"
	prompt := "one two three four five six seven eight"

	// Containment would short-circuit here, so force the overlap path by
	// reordering the prompt tokens
	prompt = "eight seven six five four three two one"

	got := Match(message, prompt)
	if got.Kind != KindOverlap {
		t.Fatalf("kind = %v, want %v", got.Kind, KindOverlap)
	}
	if got.Score != 0.8 {
		t.Errorf("score = %v, want 0.8", got.Score)
	}

	// Drop one shared token: 7/10 = 0.7, below threshold
	below := Match(message, "eight seven six five four three two")
	if below.Kind != KindNone {
		t.Errorf("below-threshold kind = %v, want %v", below.Kind, KindNone)
	}
	if below.Score != 0.7 {
		t.Errorf("below-threshold score = %v, want 0.7", below.Score)
	}
}

func TestMatchDuplicateTokens(t *testing.T) {
	// Jaccard works on token sets, so repeats collapse
	got := Match("go go go go stop", "stop go")
	if got.Kind != KindOverlap {
		t.Errorf("kind = %v, want %v", got.Kind, KindOverlap)
	}
	if got.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", got.Score)
	}
}

func TestBest(t *testing.T) {
	candidates := []Candidate{
		NewCandidate("t1", "Release Plan", "draft a release plan for my artist"),
		NewCandidate("t2", "Song Writer", "write a song about my artist"),
		NewCandidate("t3", "Fan Segments", "segment my fanbase by listening habits"),
	}

	tests := []struct {
		name     string
		message  string
		wantIdx  int
		wantKind Kind
	}{
		{
			name:     "exact winner",
			message:  "Write a song about my artist",
			wantIdx:  1,
			wantKind: KindExact,
		},
		{
			name:     "containment winner",
			message:  "please segment my fanbase by listening habits right away",
			wantIdx:  2,
			wantKind: KindContainment,
		},
		{
			name:     "no match",
			message:  "what time is it",
			wantIdx:  -1,
			wantKind: KindNone,
		},
		{
			name:     "empty message",
			message:  "",
			wantIdx:  -1,
			wantKind: KindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, result := Best(tt.message, candidates)
			if idx != tt.wantIdx {
				t.Errorf("Best index = %d, want %d", idx, tt.wantIdx)
			}
			if result.Kind != tt.wantKind {
				t.Errorf("Best kind = %v, want %v", result.Kind, tt.wantKind)
			}
		})
	}
}

func TestBestExactBeatsContainment(t *testing.T) {
	// The containment candidate comes first, the exact one later; exact must
	// still win even though both match
	candidates := []Candidate{
		NewCandidate("broad", "Broad", "write a song"),
		NewCandidate("precise", "Precise", "write a song about my artist"),
	}

	idx, result := Best("write a song about my artist", candidates)
	if idx != 1 {
		t.Fatalf("index = %d, want 1", idx)
	}
	if result.Kind != KindExact {
		t.Errorf("kind = %v, want %v", result.Kind, KindExact)
	}
}

func TestBestAtMostOneTemplate(t *testing.T) {
	// Two identical prompts: the first one wins, deterministically
	candidates := []Candidate{
		NewCandidate("a", "A", "write a song about my artist"),
		NewCandidate("b", "B", "write a song about my artist"),
	}

	idx, result := Best("write a song about my artist", candidates)
	if idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
	if result.Kind != KindExact {
		t.Errorf("kind = %v, want %v", result.Kind, KindExact)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindExact, "exact"},
		{KindContainment, "containment"},
		{KindOverlap, "overlap"},
		{KindNone, "none"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}
