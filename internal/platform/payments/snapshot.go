package payments

import (
	"github.com/stripe/stripe-go/v82"

	"github.com/fieldline/portal/pkg/types"
)

// planCodeMetadataKey is the price metadata entry naming the internal plan.
const planCodeMetadataKey = "plan_code"

// SubscriptionSnapshot converts a Stripe subscription into the provider-
// agnostic snapshot the billing service reconciles from. Stripe's v82 API
// reports the period end per item, so the top-level field stays unset here;
// the billing service resolves across both levels.
func SubscriptionSnapshot(sub *stripe.Subscription) *types.ProviderSubscription {
	if sub == nil {
		return nil
	}

	out := &types.ProviderSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		Customer:          customerRef(sub.Customer),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.CancelAt > 0 {
		v := sub.CancelAt
		out.CancelAt = &v
	}
	if sub.CanceledAt > 0 {
		v := sub.CanceledAt
		out.CanceledAt = &v
	}
	if d := sub.CancellationDetails; d != nil {
		out.CancellationDetails = map[string]any{
			"comment":  d.Comment,
			"feedback": string(d.Feedback),
			"reason":   string(d.Reason),
		}
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item == nil {
				continue
			}
			snap := types.ProviderSubscriptionItem{}
			if item.Price != nil {
				snap.PriceID = item.Price.ID
				snap.PlanCode = item.Price.Metadata[planCodeMetadataKey]
			}
			if item.CurrentPeriodEnd > 0 {
				v := item.CurrentPeriodEnd
				snap.CurrentPeriodEnd = &v
			}
			out.Items = append(out.Items, snap)
		}
	}
	return out
}

// SessionSnapshot converts a Stripe checkout session. When the session was
// retrieved with the subscription expanded, the snapshot embeds it; otherwise
// only the reference id is carried.
func SessionSnapshot(sess *stripe.CheckoutSession) *types.ProviderCheckoutSession {
	if sess == nil {
		return nil
	}

	out := &types.ProviderCheckoutSession{
		ID:       sess.ID,
		Status:   string(sess.Status),
		Customer: customerRef(sess.Customer),
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
		// A bare reference unmarshals with only the ID set.
		if sess.Subscription.Status != "" || sess.Subscription.Items != nil {
			out.Subscription = SubscriptionSnapshot(sess.Subscription)
		}
	}
	return out
}

func customerRef(c *stripe.Customer) types.ProviderCustomerRef {
	if c == nil {
		return types.ProviderCustomerRef{}
	}
	// Expanded objects carry more than the identifier.
	return types.ProviderCustomerRef{ID: c.ID, Expanded: c.Email != "" || c.Name != ""}
}
