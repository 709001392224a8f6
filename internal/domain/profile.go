package domain

// LearningProfile is a caller-supplied set of accessibility and learning
// preferences that steers content adaptation. Treated as a value object;
// the engine only inspects the fields it has adaptation rules for.
type LearningProfile struct {
	PreferredMode Mode   `json:"preferred_mode,omitempty"`
	ReadingLevel  string `json:"reading_level,omitempty"` // e.g. "grade-3", "beginner"
	Pacing        string `json:"pacing,omitempty"`        // e.g. "slow", "standard"
}

// EffectiveMode returns the profile's preferred mode, falling back to the
// detector's recommendation and finally to standard presentation.
func (p *LearningProfile) EffectiveMode(detected Mode) Mode {
	if p != nil && ValidMode(p.PreferredMode) {
		return p.PreferredMode
	}
	if ValidMode(detected) {
		return detected
	}
	return ModeStandard
}
