package content

// defaultValidation holds the engine's completion thresholds per kind.
// A content object's own validation block overrides these field by field.
var defaultValidation = map[Kind]Validation{
	KindLesson:      {RequireInteraction: false},
	KindTranslation: {RequireInteraction: true, MinItems: 1},
	KindQuiz:        {RequireInteraction: true, MinItems: 1},
	KindCards:       {RequireInteraction: true, MinItems: 1},
	KindRoleplay:    {RequireInteraction: true, MinMessages: 2, MinChars: 80},
	KindWriting:     {RequireInteraction: true, MinChars: 50},
	KindChecklist:   {RequireInteraction: true, RequireProof: true, ProofMinChars: 20},
}

// DefaultValidation returns the engine's default thresholds for a kind.
func DefaultValidation(k Kind) Validation {
	return defaultValidation[k]
}

// EffectiveValidation merges a content object's own thresholds over the
// per-kind defaults. Zero-valued fields defer to the default; boolean
// requirements are additive (a kind that requires proof by default keeps
// requiring it even when the content omits the flag).
func EffectiveValidation(k Kind, v Validation) Validation {
	def := DefaultValidation(k)
	out := def
	if v.MinChars > 0 {
		out.MinChars = v.MinChars
	}
	if v.MinItems > 0 {
		out.MinItems = v.MinItems
	}
	if v.MinMessages > 0 {
		out.MinMessages = v.MinMessages
	}
	if v.ProofMinChars > 0 {
		out.ProofMinChars = v.ProofMinChars
	}
	if v.RequireInteraction {
		out.RequireInteraction = true
	}
	if v.RequireProof {
		out.RequireProof = true
	}
	return out
}
