package database

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestAdminSeedAction(t *testing.T) {
	c := qt.New(t)

	c.Assert(adminSeedAction(false, ""), qt.Equals, seedCreate)
	c.Assert(adminSeedAction(true, "user"), qt.Equals, seedPromote)
	c.Assert(adminSeedAction(true, ""), qt.Equals, seedPromote)

	// Re-running against an already seeded admin is a no-op, so startup can
	// seed unconditionally without duplicating the account.
	c.Assert(adminSeedAction(true, "admin"), qt.Equals, seedNone)
}
