package models

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRemainingTrial(t *testing.T) {
	c := qt.New(t)

	c.Assert((&User{TrialMax: 5, TrialUsed: 0}).RemainingTrial(), qt.Equals, 5)
	c.Assert((&User{TrialMax: 5, TrialUsed: 3}).RemainingTrial(), qt.Equals, 2)
	c.Assert((&User{TrialMax: 5, TrialUsed: 5}).RemainingTrial(), qt.Equals, 0)

	// Used can exceed max after an admin lowers the cap; remaining must not
	// go negative.
	c.Assert((&User{TrialMax: 3, TrialUsed: 7}).RemainingTrial(), qt.Equals, 0)
}

func TestTrialExhausted(t *testing.T) {
	c := qt.New(t)

	c.Assert((&User{Plan: PlanFree, TrialMax: 5, TrialUsed: 5}).TrialExhausted(), qt.IsTrue)
	c.Assert((&User{Plan: PlanFree, TrialMax: 5, TrialUsed: 4}).TrialExhausted(), qt.IsFalse)
	c.Assert((&User{Plan: PlanPro, TrialMax: 5, TrialUsed: 99}).TrialExhausted(), qt.IsFalse)
}
