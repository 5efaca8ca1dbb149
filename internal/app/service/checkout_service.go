package service

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vibeprint/storefront/pkg/logger"
	"github.com/vibeprint/storefront/pkg/payment/mpesa"
	"github.com/vibeprint/storefront/pkg/util"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrCheckoutInvalid    = errors.New("checkout form is invalid")
)

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutValidating CheckoutState = "validating"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSucceeded  CheckoutState = "succeeded"
	CheckoutFailed     CheckoutState = "failed"
)

const (
	MessageFixErrors      = "Please fix the errors before proceeding"
	MessagePaymentStarted = "Payment initiated successfully. Check your phone to complete the transaction."
	messageRequestFailed  = "Request failed: "
)

// CheckoutForm is the customer information collected before payment.
type CheckoutForm struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,emailshape"`
	Phone        string `json:"phone" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Instructions string `json:"instructions"`
}

// CheckoutResult describes where a submission ended up.
type CheckoutResult struct {
	State           CheckoutState     `json:"state"`
	Message         string            `json:"message,omitempty"`
	FieldErrors     map[string]string `json:"errors,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Amount          int64             `json:"amount,omitempty"`
	CheckoutRequest string            `json:"checkout_request_id,omitempty"`
	RedirectTo      string            `json:"redirect_to,omitempty"`
	RedirectAfterMs int64             `json:"redirect_after_ms,omitempty"`
}

// PaymentGateway initiates a payment prompt on the customer's phone.
type PaymentGateway interface {
	Pay(ctx context.Context, req mpesa.PayRequest) (*mpesa.PayResponse, error)
}

type CheckoutOptions struct {
	RedirectPath  string
	RedirectDelay time.Duration
}

// CheckoutService runs the submission state machine:
// idle -> validating -> (idle | submitting -> succeeded | failed).
type CheckoutService interface {
	Submit(ctx context.Context, form CheckoutForm) (*CheckoutResult, error)
	Status() CheckoutResult
}

type checkoutService struct {
	cart     CartService
	gateway  PaymentGateway
	validate *validator.Validate
	opts     CheckoutOptions

	mu         sync.Mutex
	state      CheckoutResult
	generation int
}

func NewCheckoutService(cart CartService, gateway PaymentGateway, opts CheckoutOptions) CheckoutService {
	if opts.RedirectPath == "" {
		opts.RedirectPath = "/"
	}
	return &checkoutService{
		cart:     cart,
		gateway:  gateway,
		validate: newCheckoutValidator(),
		opts:     opts,
		state:    CheckoutResult{State: CheckoutIdle},
	}
}

var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

func newCheckoutValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

var checkoutFieldMessages = map[string]map[string]string{
	"name":    {"required": "Name is required"},
	"email":   {"required": "Email is required", "emailshape": "Email is invalid"},
	"phone":   {"required": "Phone number is required"},
	"address": {"required": "Address is required"},
}

// ValidateForm returns field-level messages keyed by JSON field name; nil
// means the form is acceptable. Blank values count as missing.
func (s *checkoutService) ValidateForm(form CheckoutForm) map[string]string {
	trimmed := CheckoutForm{
		Name:         strings.TrimSpace(form.Name),
		Email:        strings.TrimSpace(form.Email),
		Phone:        strings.TrimSpace(form.Phone),
		Address:      strings.TrimSpace(form.Address),
		Instructions: form.Instructions,
	}

	err := s.validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := checkoutFieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		fields[fe.Field()] = msg
	}
	return fields
}

func (s *checkoutService) Submit(ctx context.Context, form CheckoutForm) (*CheckoutResult, error) {
	s.mu.Lock()
	if s.state.State == CheckoutSubmitting || s.state.State == CheckoutValidating {
		s.mu.Unlock()
		logger.Warn("Checkout submission rejected: already in progress")
		return nil, ErrCheckoutInProgress
	}
	s.generation++
	gen := s.generation
	s.state = CheckoutResult{State: CheckoutValidating}
	s.mu.Unlock()

	if fields := s.ValidateForm(form); fields != nil {
		logger.Info("Checkout form rejected", map[string]interface{}{
			"fields": len(fields),
		})
		result := CheckoutResult{
			State:       CheckoutIdle,
			Message:     MessageFixErrors,
			FieldErrors: fields,
		}
		s.setState(gen, result)
		return &result, ErrCheckoutInvalid
	}

	items := s.cart.Items()
	if len(items) == 0 {
		logger.Info("Checkout attempted with empty cart")
		s.setState(gen, CheckoutResult{State: CheckoutIdle})
		return &CheckoutResult{State: CheckoutIdle}, ErrEmptyCart
	}

	req := mpesa.PayRequest{
		Phone:  util.NormalizePhone(form.Phone),
		Amount: ToPaymentAmount(items),
	}
	s.setState(gen, CheckoutResult{State: CheckoutSubmitting, Phone: req.Phone, Amount: req.Amount})

	logger.Info("Initiating M-Pesa payment", map[string]interface{}{
		"amount": req.Amount,
		"items":  len(items),
	})

	// Once issued, the push and the cart clear outlive the caller.
	ctx = context.WithoutCancel(ctx)

	resp, err := s.gateway.Pay(ctx, req)
	if err != nil {
		result := CheckoutResult{
			State:   CheckoutFailed,
			Message: paymentFailureMessage(err),
			Phone:   req.Phone,
			Amount:  req.Amount,
		}
		logger.Warn("M-Pesa payment initiation failed", map[string]interface{}{
			"amount": req.Amount,
			"error":  err.Error(),
		})
		s.setState(gen, result)
		return &result, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		logger.Error("Failed to clear cart after payment initiation", err)
	}

	result := CheckoutResult{
		State:           CheckoutSucceeded,
		Message:         MessagePaymentStarted,
		Phone:           req.Phone,
		Amount:          req.Amount,
		RedirectTo:      s.opts.RedirectPath,
		RedirectAfterMs: s.opts.RedirectDelay.Milliseconds(),
	}
	if resp != nil {
		result.CheckoutRequest = resp.CheckoutRequestID
	}
	s.setState(gen, result)

	logger.Info("M-Pesa payment initiated", map[string]interface{}{
		"amount":              req.Amount,
		"checkout_request_id": result.CheckoutRequest,
	})

	time.AfterFunc(s.opts.RedirectDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen && s.state.State == CheckoutSucceeded {
			s.state = CheckoutResult{State: CheckoutIdle}
		}
	})

	return &result, nil
}

func (s *checkoutService) Status() CheckoutResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *checkoutService) setState(gen int, result CheckoutResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.state = result
	}
}

// paymentFailureMessage keeps the service's wording when it gave one.
func paymentFailureMessage(err error) string {
	var apiErr *mpesa.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return messageRequestFailed + err.Error()
}
