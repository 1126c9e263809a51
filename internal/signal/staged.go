package signal

import "c2_console/internal/core"

// StagedSignals is the output of a successful build: an immutable primary
// signal plus optional bracket children. Children do not know their parent's
// platform ID yet; Linked produces the submittable copies once the primary
// has been accepted, so no signal value is ever mutated after construction.
type StagedSignals struct {
	Primary           core.Signal
	StopLossChild     *core.Signal
	ProfitTargetChild *core.Signal
}

// Count returns the total number of signals staged.
func (s *StagedSignals) Count() int {
	n := 1
	if s.StopLossChild != nil {
		n++
	}
	if s.ProfitTargetChild != nil {
		n++
	}
	return n
}

// HasChildren reports whether bracket legs are staged.
func (s *StagedSignals) HasChildren() bool {
	return s.StopLossChild != nil || s.ProfitTargetChild != nil
}

// Linked returns copies of the children carrying the accepted primary's
// signal ID as their parent. The staged originals are left untouched.
func (s *StagedSignals) Linked(parentSignalID int64) []core.Signal {
	var linked []core.Signal
	if s.StopLossChild != nil {
		child := *s.StopLossChild
		child.ParentSignalID = parentSignalID
		linked = append(linked, child)
	}
	if s.ProfitTargetChild != nil {
		child := *s.ProfitTargetChild
		child.ParentSignalID = parentSignalID
		linked = append(linked, child)
	}
	return linked
}
