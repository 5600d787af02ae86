package lib

import (
	"context"
	"os"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	if apiKey == "" {
		return nil
	}
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateCheckoutURL opens a one-off checkout session for an order total.
// VND is a zero-decimal currency so the whole amount is sent as the unit
// amount.
func CreateCheckoutURL(orderCode string, amount decimal.Decimal, currency string) (string, error) {
	sc := GetStripeClient()
	params := stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount.IntPart()),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(orderCode),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(orderCode),
		SuccessURL:        stripe.String(os.Getenv("STRIPE_SUCCESS_URL")),
	}
	session, err := sc.V1CheckoutSessions.Create(context.Background(), &params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}
