package stripe

import "strings"

// StatusInactive is the cached customer status written after
// customer.subscription.deleted.
const StatusInactive = "inactive"

// NormalizeStatus folds Stripe's subscription statuses into the small set the
// customers.subscription_status cache uses.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "none"
	}
	switch s {
	case "active":
		return "active"
	case "trialing":
		return "trialing"
	case "past_due", "unpaid":
		return "past_due"
	case "canceled", "incomplete_expired":
		return "canceled"
	default:
		return s
	}
}

// IsEntitling reports whether a subscription status grants access to paid
// features.
func IsEntitling(status string) bool {
	switch NormalizeStatus(status) {
	case "active", "trialing":
		return true
	default:
		return false
	}
}
