package services

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/models"
	"github.com/stripe/stripe-go/v79"
)

func TestPriceForPlan(t *testing.T) {
	c := qt.New(t)

	svc := &PaymentService{cfg: &config.Config{
		StripePriceProMonth: "price_month",
		StripePriceProYear:  "price_year",
	}}

	price, err := svc.priceForPlan(PlanProMonthly)
	c.Assert(err, qt.IsNil)
	c.Assert(price, qt.Equals, "price_month")

	price, err = svc.priceForPlan(PlanProYearly)
	c.Assert(err, qt.IsNil)
	c.Assert(price, qt.Equals, "price_year")

	_, err = svc.priceForPlan("enterprise")
	c.Assert(err, qt.ErrorIs, ErrUnknownPlan)
}

func TestEventTransition(t *testing.T) {
	c := qt.New(t)

	status, plan, handled := eventTransition("checkout.session.completed")
	c.Assert(handled, qt.IsTrue)
	c.Assert(status, qt.Equals, models.PaymentPaid)
	c.Assert(plan, qt.Equals, models.PlanPro)

	status, plan, handled = eventTransition("checkout.session.expired")
	c.Assert(handled, qt.IsTrue)
	c.Assert(status, qt.Equals, models.PaymentFailed)
	c.Assert(plan, qt.Equals, "")

	status, plan, handled = eventTransition("customer.subscription.deleted")
	c.Assert(handled, qt.IsTrue)
	c.Assert(status, qt.Equals, "")
	c.Assert(plan, qt.Equals, models.PlanFree)

	status, plan, handled = eventTransition("charge.refunded")
	c.Assert(handled, qt.IsTrue)
	c.Assert(status, qt.Equals, models.PaymentRefunded)
	c.Assert(plan, qt.Equals, "")

	// Anything else is acknowledged without side effects.
	_, _, handled = eventTransition("invoice.paid")
	c.Assert(handled, qt.IsFalse)
	_, _, handled = eventTransition("")
	c.Assert(handled, qt.IsFalse)
}

func TestProviderPaymentID(t *testing.T) {
	c := qt.New(t)

	c.Assert(providerPaymentID(&stripe.CheckoutSession{}), qt.Equals, "")

	c.Assert(providerPaymentID(&stripe.CheckoutSession{
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_123"},
	}), qt.Equals, "pi_123")

	// Subscription id wins for recurring checkouts.
	c.Assert(providerPaymentID(&stripe.CheckoutSession{
		Subscription:  &stripe.Subscription{ID: "sub_123"},
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_123"},
	}), qt.Equals, "sub_123")
}
