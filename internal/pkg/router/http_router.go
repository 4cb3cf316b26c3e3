package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adlcare/paygate/app/controllers"
	"github.com/adlcare/paygate/app/models"
	"github.com/adlcare/paygate/internal/pkg/constants"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Initialize payment controller with providers and repositories
	paymentController := controllers.InitializePaymentController()

	app.Post(constants.PayStripeRoute, paymentController.HandlePay(models.PaymentMethodStripe))
	app.Post(constants.PayPayPalRoute, paymentController.HandlePay(models.PaymentMethodPayPal))
	app.Post(constants.PayRazorpayRoute, paymentController.HandlePay(models.PaymentMethodRazorpay))

	app.Get(constants.HealthzRoute, controllers.HandleHealthz)
	app.Get(constants.StatsRoute, paymentController.HandleStats)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
