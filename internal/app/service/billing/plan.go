package billing

import (
	"time"

	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/types"
)

// Provider statuses that map to an active paid plan. past_due stays paid so a
// failed renewal charge does not cut access before the provider gives up.
var paidProviderStatuses = map[string]struct{}{
	"active":   {},
	"trialing": {},
	"past_due": {},
}

// ResolvePlanStatus maps a raw provider status plus the normalized period end
// to the canonical plan status. Total: every input resolves to exactly one of
// free, pro, or cancelled.
func ResolvePlanStatus(providerStatus *string, currentPeriodEnd *string) types.PlanStatus {
	status := NormalizeStatus(providerStatus)
	if status == nil {
		return types.PlanStatusFree
	}
	if _, ok := paidProviderStatuses[*status]; ok {
		return types.PlanStatusPro
	}
	if *status == "canceled" {
		// Still entitled until a strictly future period end.
		if currentPeriodEnd != nil {
			if t, err := time.Parse(time.RFC3339, *currentPeriodEnd); err == nil && t.After(time.Now()) {
				return types.PlanStatusCancelled
			}
		}
		return types.PlanStatusFree
	}
	return types.PlanStatusFree
}

// ResolvePeriodEnd extracts the subscription's period end in epoch seconds.
// The top-level field wins when present; otherwise the maximum across line
// items is used, because newer provider API versions only report it per item.
// Nil when neither level carries the field.
func ResolvePeriodEnd(sub *types.ProviderSubscription) *int64 {
	if sub == nil {
		return nil
	}
	if sub.CurrentPeriodEnd != nil {
		v := *sub.CurrentPeriodEnd
		return &v
	}
	var latest *int64
	for _, item := range sub.Items {
		if item.CurrentPeriodEnd == nil {
			continue
		}
		if latest == nil || *item.CurrentPeriodEnd > *latest {
			v := *item.CurrentPeriodEnd
			latest = &v
		}
	}
	return latest
}

// resolvePlanCode picks the plan code for the row: the first line item whose
// price carries one, else the catalog default for the canonical status.
func resolvePlanCode(cfg *cfgpkg.Config, sub *types.ProviderSubscription, status types.PlanStatus) string {
	for _, item := range sub.Items {
		if item.PlanCode != "" {
			return item.PlanCode
		}
	}
	if status.Paid() {
		return cfg.PaidPlanCode()
	}
	return cfg.FreePlanCode()
}
