package usecase

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

// DefaultBundleTTL is how long issued download links stay valid.
const DefaultBundleTTL = 3600 * time.Second

// bundleFiles maps each purchasable bundle to its backing object keys.
var bundleFiles = map[string][]string{
	"legal-notice-templates": {
		"bundles/legal-notice-templates.zip",
		"bundles/legal-notice-drafting-guide.pdf",
	},
	"rental-agreement-kit": {
		"bundles/rental-agreement-kit.zip",
	},
	"startup-legal-pack": {
		"bundles/startup-legal-pack.zip",
		"bundles/founders-agreement-template.docx",
	},
}

type IssueBundleUseCase struct {
	Presigner BundlePresigner
	Gateway   PaymentGateway // order-flow gateway, used for best-effort verification
	TTL       time.Duration
}

func NewIssueBundleUseCase(presigner BundlePresigner, gateway PaymentGateway) *IssueBundleUseCase {
	return &IssueBundleUseCase{
		Presigner: presigner,
		Gateway:   gateway,
		TTL:       DefaultBundleTTL,
	}
}

func (uc *IssueBundleUseCase) Execute(ctx context.Context, input IssueBundleInput) (*IssueBundleOutput, error) {
	keys, ok := bundleFiles[input.BundleType]
	if !ok {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "unknown bundle type: " + input.BundleType,
			Fields:  []ValidationError{{"bundleType", "is not a recognized bundle"}},
		}
	}
	if input.TransactionID == "" {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "transactionId is required",
			Fields:  []ValidationError{{"transactionId", "is required"}},
		}
	}

	if uc.Presigner == nil {
		// Don't leak which credential is missing; ops reads the logs.
		logger.L().Error("bundle download requested but object store is not configured")
		return nil, &TechnicalError{
			Code:    CodeConfig,
			Message: "downloads are temporarily unavailable, please contact support",
		}
	}

	// Transaction verification is best-effort: a gateway hiccup must not
	// strand a customer who already paid.
	if uc.Gateway != nil {
		if _, err := uc.Gateway.VerifyPayment(ctx, PaymentReference{OrderID: input.TransactionID}); err != nil {
			logger.L().Warn("bundle transaction verification failed, issuing anyway",
				zap.String("transaction_id", input.TransactionID),
				zap.Error(err),
			)
		}
	}

	out := &IssueBundleOutput{
		BundleType: input.BundleType,
		ExpiresIn:  int64(uc.TTL.Seconds()),
	}
	for _, key := range keys {
		url, err := uc.Presigner.PresignDownload(ctx, key, uc.TTL)
		if err != nil {
			return nil, &TechnicalError{
				Code:    CodeStorage,
				Message: "failed to generate download link: " + err.Error(),
			}
		}
		out.Files = append(out.Files, BundleFile{Name: path.Base(key), URL: url})
	}

	return out, nil
}

// KnownBundleTypes lists the valid bundle identifiers, for the config
// health-check response.
func KnownBundleTypes() []string {
	types := make([]string, 0, len(bundleFiles))
	for t := range bundleFiles {
		types = append(types, t)
	}
	return types
}
