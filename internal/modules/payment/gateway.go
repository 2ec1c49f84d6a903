package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const (
	StatusSucceeded = "succeeded"

	simulatedPrefix = "pi_sim_"
)

// Intent is a provider-side payment attempt for one booking.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

func (i *Intent) Succeeded() bool { return i != nil && i.Status == StatusSucceeded }

type Gateway interface {
	Name() string
	CreateIntent(ctx context.Context, bookingID int64, amount float64) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// NewGateway returns a Stripe gateway when a secret key is configured and a
// simulated one otherwise.
func NewGateway(secretKey, currency string, log *zap.Logger) Gateway {
	if strings.TrimSpace(secretKey) == "" {
		log.Warn("STRIPE_SECRET_KEY not set; payments are simulated")
		return SimulatedGateway{}
	}
	return NewStripeGateway(secretKey, currency, nil)
}

type StripeGateway struct {
	api      *client.API
	currency string
}

// NewStripeGateway builds a gateway on the Stripe API. Nil backends use the
// library defaults.
func NewStripeGateway(secretKey, currency string, backends *stripe.Backends) *StripeGateway {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{api: client.New(secretKey, backends), currency: strings.ToLower(currency)}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateIntent(ctx context.Context, bookingID int64, amount float64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", strconv.FormatInt(bookingID, 10))

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.HTTPStatusCode == 404 {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}
}

// SimulatedGateway settles every intent immediately. Used in development and
// whenever Stripe is not configured.
type SimulatedGateway struct{}

func (SimulatedGateway) Name() string { return "simulated" }

func (SimulatedGateway) CreateIntent(_ context.Context, _ int64, _ float64) (*Intent, error) {
	id := simulatedPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Intent{ID: id, ClientSecret: id + "_secret", Status: StatusSucceeded}, nil
}

func (SimulatedGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	if !strings.HasPrefix(id, simulatedPrefix) {
		return nil, ErrIntentNotFound
	}
	return &Intent{ID: id, ClientSecret: id + "_secret", Status: StatusSucceeded}, nil
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
