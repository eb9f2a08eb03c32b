package services

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLinkByEmail(t *testing.T) {
	c := qt.New(t)

	c.Assert((&GoogleClaims{Email: "jane@example.com", EmailVerified: true}).linkByEmail(), qt.IsTrue)

	// An unverified address must never capture an existing account.
	c.Assert((&GoogleClaims{Email: "jane@example.com", EmailVerified: false}).linkByEmail(), qt.IsFalse)
	c.Assert((&GoogleClaims{EmailVerified: true}).linkByEmail(), qt.IsFalse)
}
