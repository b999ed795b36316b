package match

import "strings"

// Kind classifies how a message matched a template prompt
type Kind int

const (
	KindNone Kind = iota
	KindOverlap
	KindContainment
	KindExact
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindContainment:
		return "containment"
	case KindOverlap:
		return "overlap"
	default:
		return "none"
	}
}

const (
	// OverlapThreshold is the token-set Jaccard similarity required when
	// neither string contains the other
	OverlapThreshold = 0.8

	// containmentMinLen guards containment checks against trivially short
	// strings matching everything
	containmentMinLen = 10
)

// Result describes a single message/prompt comparison
type Result struct {
	Kind  Kind
	Score float64 // Jaccard similarity; 1.0 for exact and containment
}

// Matched reports whether the comparison found any match
func (r Result) Matched() bool {
	return r.Kind != KindNone
}

// Match compares a message against a template prompt. Both inputs are raw
// strings; normalization happens here so every caller applies the same
// policy. An empty normalized prompt never matches.
func Match(message, prompt string) Result {
	return matchNormalized(Normalize(message), Normalize(prompt))
}

func matchNormalized(msg, prompt string) Result {
	if msg == "" || prompt == "" {
		return Result{}
	}

	if msg == prompt {
		return Result{Kind: KindExact, Score: 1.0}
	}

	if len(msg) >= containmentMinLen && len(prompt) >= containmentMinLen {
		if strings.Contains(msg, prompt) || strings.Contains(prompt, msg) {
			return Result{Kind: KindContainment, Score: 1.0}
		}
	}

	score := jaccard(Tokens(msg), Tokens(prompt))
	if score >= OverlapThreshold {
		return Result{Kind: KindOverlap, Score: score}
	}

	return Result{Kind: KindNone, Score: score}
}

// jaccard computes token-set Jaccard similarity
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Candidate is a template prompt prepared for repeated matching
type Candidate struct {
	ID         string
	Title      string
	normalized string
}

// NewCandidate pre-normalizes a template prompt
func NewCandidate(id, title, prompt string) Candidate {
	return Candidate{ID: id, Title: title, normalized: Normalize(prompt)}
}

// Best finds the best-matching candidate for a message. A message matches at
// most one template: exact beats containment beats the highest overlap score.
// Returns the candidate index, or -1 when nothing matches.
func Best(message string, candidates []Candidate) (int, Result) {
	msg := Normalize(message)
	if msg == "" {
		return -1, Result{}
	}

	bestIdx := -1
	var best Result
	for i, c := range candidates {
		r := matchNormalized(msg, c.normalized)
		if !r.Matched() {
			continue
		}
		if bestIdx == -1 || r.Kind > best.Kind || (r.Kind == best.Kind && r.Score > best.Score) {
			bestIdx = i
			best = r
		}
		if best.Kind == KindExact {
			break
		}
	}

	return bestIdx, best
}
