package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"os"
	"time"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/pkg/mailer"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	"github.com/best200-lab/juristmindchat/pkg/events"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IPaymentService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher EventPublisher
	emailService   mailer.IEmailService
	logger         logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, eventPublisher EventPublisher, emailService mailer.IEmailService, log logger.ILogger) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		logger:         log,
	}
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan not found")
	}

	billingAddr := &entity.BillingAddress{
		Id:           uuid.New(),
		UserId:       userId,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	sub := &entity.UserSubscription{
		Id:                 uuid.New(),
		UserId:             userId,
		PlanId:             plan.Id,
		BillingAddressId:   &billingAddr.Id,
		Status:             entity.SubscriptionStatusInactive,
		PaymentStatus:      entity.PaymentStatusPending,
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().AddDate(0, 1, 0),
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if plan.BillingPeriod == entity.BillingPeriodYearly {
		sub.CurrentPeriodEnd = time.Now().AddDate(1, 0, 0)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.BillingRepository().Create(ctx, billingAddr); err != nil {
		return nil, fmt.Errorf("failed to save billing address: %v", err)
	}
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// External call stays outside the transaction.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("CLIENT_URL")
	finishRedirectURL := fmt.Sprintf("%s/app?payment=success", frontendURL)

	finalAmount := int64(plan.Price + plan.Price*plan.TaxRate)

	midtransPostalCode := req.PostalCode
	if len(midtransPostalCode) > 5 {
		midtransPostalCode = midtransPostalCode[:5]
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  sub.Id.String(),
			GrossAmt: finalAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
			BillAddr: &midtrans.CustomerAddress{
				FName:       req.FirstName,
				LName:       req.LastName,
				Phone:       req.Phone,
				Address:     req.AddressLine1,
				City:        req.City,
				Postcode:    midtransPostalCode,
				CountryCode: "IDN",
			},
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: int64(plan.Price),
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &dto.CheckoutResponse{
		SubscriptionId:  sub.Id,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		s.logger.Warn("Payment", "Webhook signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return fmt.Errorf("invalid signature")
	}

	subId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subId})
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription not found")
	}

	var newStatus entity.SubscriptionStatus
	var newPaymentStatus entity.PaymentStatus

	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.SubscriptionStatusActive
		newPaymentStatus = entity.PaymentStatusPaid
	case "deny", "cancel", "expire":
		newStatus = entity.SubscriptionStatusInactive
		newPaymentStatus = entity.PaymentStatusFailed
	default:
		// "pending" and anything unknown leaves the row untouched.
		return nil
	}

	if sub.Status == newStatus && sub.PaymentStatus == newPaymentStatus {
		return nil
	}

	s.logger.Info("Payment", "Subscription state transition", map[string]interface{}{
		"subscription_id": subId.String(),
		"status":          string(newStatus),
		"payment_status":  string(newPaymentStatus),
	})

	sub.Status = newStatus
	sub.PaymentStatus = newPaymentStatus
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if newPaymentStatus == entity.PaymentStatusPaid {
		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events.NewSubscriptionPaid(sub.Id, sub.UserId)); err != nil {
				s.logger.Warn("Payment", "Failed to publish subscription paid event", map[string]interface{}{"error": err.Error()})
			}
		}
		if s.emailService != nil {
			go s.sendReceipt(context.Background(), sub)
		}
	}

	return nil
}

func (s *paymentService) sendReceipt(ctx context.Context, sub *entity.UserSubscription) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err != nil || user == nil {
		return
	}
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil || plan == nil {
		return
	}
	total := plan.Price + plan.Price*plan.TaxRate
	if err := s.emailService.SendSubscriptionReceipt(user.Email, plan.Name, total); err != nil {
		s.logger.Warn("Payment", "Failed to send receipt", map[string]interface{}{"error": err.Error()})
	}
}

func (s *paymentService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var activeSub *entity.UserSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(time.Now()) {
			activeSub = sub
			break
		}
	}
	if activeSub == nil {
		for _, sub := range subs {
			if sub.PaymentStatus == entity.PaymentStatusPaid && sub.CurrentPeriodEnd.After(time.Now()) {
				activeSub = sub
				break
			}
		}
	}

	if activeSub == nil {
		return &dto.SubscriptionStatusResponse{
			PlanName: "Free Plan",
			Status:   string(entity.SubscriptionStatusInactive),
		}, nil
	}

	planName := ""
	if plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: activeSub.PlanId}); err == nil && plan != nil {
		planName = plan.Name
	}

	return &dto.SubscriptionStatusResponse{
		SubscriptionId:     activeSub.Id,
		PlanName:           planName,
		Status:             string(activeSub.Status),
		PaymentStatus:      string(activeSub.PaymentStatus),
		CurrentPeriodStart: activeSub.CurrentPeriodStart,
		CurrentPeriodEnd:   activeSub.CurrentPeriodEnd,
	}, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("no active subscription")
	}

	sub := subs[0]
	sub.Status = entity.SubscriptionStatusCanceled
	sub.UpdatedAt = time.Now()
	return uow.SubscriptionRepository().UpdateSubscription(ctx, sub)
}
