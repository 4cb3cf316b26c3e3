package constants

// Route constants
const (
	PayStripeRoute   = "/pay/stripe"
	PayPayPalRoute   = "/pay/paypal"
	PayRazorpayRoute = "/pay/razorpay"

	HealthzRoute = "/healthz"
	StatsRoute   = "/stats"
	MetricsRoute = "/metrics"
)
