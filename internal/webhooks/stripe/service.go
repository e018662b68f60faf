package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/hsglabs/launchcopy-backend/internal/accounts"
	"github.com/hsglabs/launchcopy-backend/internal/billing"
	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/logger"
	"github.com/hsglabs/launchcopy-backend/pkg/metrics"
)

type accountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.Account, error)
	LinkStripeCustomer(ctx context.Context, id uuid.UUID, customerID string) error
	ApplyTierLimits(ctx context.Context, id uuid.UUID, tierID string, dailyLimit, monthlyLimit int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	TransactionRunner  txRunner
	AccountRepoFactory func(tx *gorm.DB) accountRepository
	TierRepoFactory    func(tx *gorm.DB) billing.Repository
	Logger             *logger.Logger
}

// Service applies verified billing events to account quota limits.
type Service struct {
	txRunner       txRunner
	accountFactory func(tx *gorm.DB) accountRepository
	tierFactory    func(tx *gorm.DB) billing.Repository
	log            *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.AccountRepoFactory == nil {
		params.AccountRepoFactory = func(tx *gorm.DB) accountRepository {
			return accounts.NewRepository(tx)
		}
	}
	if params.TierRepoFactory == nil {
		params.TierRepoFactory = func(tx *gorm.DB) billing.Repository {
			return billing.NewRepository(tx)
		}
	}
	return &Service{
		txRunner:       params.TransactionRunner,
		accountFactory: params.AccountRepoFactory,
		tierFactory:    params.TierRepoFactory,
		log:            params.Logger,
	}, nil
}

// HandleEvent dispatches an already signature-verified event. Unknown event
// types and unresolvable accounts are acknowledged without mutating anything
// so the provider does not retry them forever.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	eventType := string(event.Type)
	var err error
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		err = s.handleCheckoutCompleted(ctx, event)
	case stripe.EventTypeInvoicePaymentSucceeded:
		err = s.handlePaymentSucceeded(ctx, event)
	default:
		metrics.WebhookEventsTotal.WithLabelValues(eventType, "ignored").Inc()
		return nil
	}

	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(eventType, "error").Inc()
		return err
	}
	metrics.WebhookEventsTotal.WithLabelValues(eventType, "ok").Inc()
	return nil
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
	}

	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	return s.applyTier(ctx, applyTierInput{
		accountRef: session.ClientReferenceID,
		customerID: customerID,
		email:      email,
		productID:  session.Metadata["product_id"],
	})
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode invoice event")
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}

	return s.applyTier(ctx, applyTierInput{
		customerID: customerID,
		email:      invoice.CustomerEmail,
		productID:  invoice.Metadata["product_id"],
	})
}

type applyTierInput struct {
	accountRef string
	customerID string
	email      string
	productID  string
}

func (s *Service) applyTier(ctx context.Context, input applyTierInput) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		accountRepo := s.accountFactory(tx)
		tierRepo := s.tierFactory(tx)

		account, err := s.resolveAccount(ctx, accountRepo, input)
		if err != nil {
			return err
		}
		if account == nil {
			if s.log != nil {
				s.log.Warn(s.log.WithField(ctx, "customer_id", input.customerID),
					"billing event for unknown account")
			}
			return nil
		}

		tier, err := s.resolveTier(ctx, tierRepo, input.productID)
		if err != nil {
			return err
		}
		if tier == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "no billing tier configured")
		}

		if input.customerID != "" {
			current := ""
			if account.StripeCustomerID != nil {
				current = *account.StripeCustomerID
			}
			if current != input.customerID {
				if err := accountRepo.LinkStripeCustomer(ctx, account.ID, input.customerID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link stripe customer")
				}
			}
		}

		if err := accountRepo.ApplyTierLimits(ctx, account.ID, tier.ID, tier.DailyLimit, tier.MonthlyLimit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply tier limits")
		}
		return nil
	})
}

// resolveAccount tries, in order, the checkout client reference id (an
// account uuid), the stored stripe customer id, and finally the customer
// email. A miss on every strategy yields (nil, nil).
func (s *Service) resolveAccount(ctx context.Context, repo accountRepository, input applyTierInput) (*models.Account, error) {
	if ref := strings.TrimSpace(input.accountRef); ref != "" {
		if id, err := uuid.Parse(ref); err == nil {
			account, err := repo.FindByID(ctx, id)
			if err == nil {
				return account, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find account by id")
			}
		}
	}

	if input.customerID != "" {
		account, err := repo.FindByStripeCustomerID(ctx, input.customerID)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find account by customer")
		}
	}

	if email := strings.ToLower(strings.TrimSpace(input.email)); email != "" {
		account, err := repo.FindByEmail(ctx, email)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find account by email")
		}
	}

	return nil, nil
}

func (s *Service) resolveTier(ctx context.Context, repo billing.Repository, productID string) (*models.BillingTier, error) {
	if productID != "" {
		tier, err := repo.FindTierByStripeProductID(ctx, productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find billing tier")
		}
		if tier != nil {
			return tier, nil
		}
	}
	tier, err := repo.FindDefaultTier(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find default billing tier")
	}
	return tier, nil
}
