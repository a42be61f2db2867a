package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubPresigner struct {
	err  error
	keys []string
}

func (s *stubPresigner) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return fmt.Sprintf("https://files.example.com/%s?sig=abc", key), nil
}

func TestIssueBundlePresignsEveryFile(t *testing.T) {
	presigner := &stubPresigner{}
	uc := NewIssueBundleUseCase(presigner, nil)

	out, err := uc.Execute(context.Background(), IssueBundleInput{
		BundleType:    "legal-notice-templates",
		TransactionID: "order_abc",
	})

	assert.NoError(t, err)
	assert.Equal(t, "legal-notice-templates", out.BundleType)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	assert.Len(t, out.Files, 2)
	assert.Equal(t, "legal-notice-templates.zip", out.Files[0].Name)
	assert.Contains(t, out.Files[0].URL, "bundles/legal-notice-templates.zip")
	assert.Len(t, presigner.keys, 2)
}

func TestIssueBundleUnknownType(t *testing.T) {
	uc := NewIssueBundleUseCase(&stubPresigner{}, nil)

	out, err := uc.Execute(context.Background(), IssueBundleInput{
		BundleType:    "tax-filing-pack",
		TransactionID: "order_abc",
	})

	assert.Nil(t, out)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeValidation, domainErr.Code)
}

func TestIssueBundleRequiresTransactionID(t *testing.T) {
	uc := NewIssueBundleUseCase(&stubPresigner{}, nil)

	_, err := uc.Execute(context.Background(), IssueBundleInput{
		BundleType: "rental-agreement-kit",
	})

	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "transactionId", domainErr.Fields[0].Field)
}

func TestIssueBundleWithoutStoreConfigured(t *testing.T) {
	uc := NewIssueBundleUseCase(nil, nil)

	_, err := uc.Execute(context.Background(), IssueBundleInput{
		BundleType:    "rental-agreement-kit",
		TransactionID: "order_abc",
	})

	var techErr *TechnicalError
	assert.ErrorAs(t, err, &techErr)
	assert.Equal(t, CodeConfig, techErr.Code)
}

func TestIssueBundleGatewayFailureDoesNotBlock(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("VerifyPayment", mock.Anything, PaymentReference{OrderID: "order_abc"}).
		Return(nil, errors.New("gateway unreachable"))

	uc := NewIssueBundleUseCase(&stubPresigner{}, gateway)

	out, err := uc.Execute(context.Background(), IssueBundleInput{
		BundleType:    "startup-legal-pack",
		TransactionID: "order_abc",
	})

	assert.NoError(t, err)
	assert.Len(t, out.Files, 2)
	gateway.AssertExpectations(t)
}

func TestIssueBundlePresignFailure(t *testing.T) {
	uc := NewIssueBundleUseCase(&stubPresigner{err: errors.New("access denied")}, nil)

	_, err := uc.Execute(context.Background(), IssueBundleInput{
		BundleType:    "rental-agreement-kit",
		TransactionID: "order_abc",
	})

	var techErr *TechnicalError
	assert.ErrorAs(t, err, &techErr)
	assert.Equal(t, CodeStorage, techErr.Code)
}
