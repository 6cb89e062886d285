package gate

// ConfirmGate implements the two-step completion confirm used by checklist
// items: the first completion attempt arms the gate, the second one is
// accepted. Any interaction change in between disarms it, so stale confirm
// prompts can't complete an item the user has since edited.
type ConfirmGate struct {
	armed bool
}

// Attempt registers one completion attempt. It returns true when the
// attempt should be accepted, false when the gate has only been armed and a
// confirmation prompt should be shown instead.
func (g *ConfirmGate) Attempt() bool {
	if g.armed {
		g.armed = false
		return true
	}
	g.armed = true
	return false
}

// Armed reports whether the next attempt would complete.
func (g *ConfirmGate) Armed() bool {
	return g.armed
}

// Reset disarms the gate. Call it whenever the interaction state changes.
func (g *ConfirmGate) Reset() {
	g.armed = false
}
