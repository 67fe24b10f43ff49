package usecases

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"blinkpay.backend/internal/domain/entities"
	"blinkpay.backend/internal/domain/repositories"
	"blinkpay.backend/internal/infrastructure/fiat"
	"blinkpay.backend/pkg/jwt"
	"blinkpay.backend/pkg/logger"
)

// FiatBridge is the custodial service that issues deposit addresses and links
// wire accounts.
type FiatBridge interface {
	ListDepositAddresses(ctx context.Context) ([]fiat.DepositAddress, error)
	CreateDepositAddress(ctx context.Context, currency, chain string) (*fiat.DepositAddress, error)
	CreateWireAccount(ctx context.Context, input *entities.LinkBankAccountInput) (*fiat.WireAccount, error)
}

// MerchantFiatUsecase manages a merchant's fiat settlement setup: the
// custodial deposit address it receives on, the wire account payouts go to,
// and the channel tokens its devices use to subscribe for notifications.
type MerchantFiatUsecase struct {
	bindings repositories.MerchantBindingRepository
	bridge   FiatBridge
	tokens   *jwt.ChannelTokenService
}

func NewMerchantFiatUsecase(bindings repositories.MerchantBindingRepository, bridge FiatBridge, tokens *jwt.ChannelTokenService) *MerchantFiatUsecase {
	return &MerchantFiatUsecase{bindings: bindings, bridge: bridge, tokens: tokens}
}

// SetupDeposit binds the merchant to a USD deposit address on chain. An
// existing custodial address on that chain is reused before a new one is
// provisioned; re-binding to a different chain updates the binding in place.
func (u *MerchantFiatUsecase) SetupDeposit(ctx context.Context, merchantID, chain string) (*entities.MerchantDepositBinding, error) {
	existing, err := u.bridge.ListDepositAddresses(ctx)
	if err != nil {
		return nil, err
	}

	var address *fiat.DepositAddress
	for i := range existing {
		if strings.EqualFold(existing[i].Chain, chain) && existing[i].Currency == "USD" {
			address = &existing[i]
			break
		}
	}
	if address == nil {
		address, err = u.bridge.CreateDepositAddress(ctx, "USD", chain)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "provisioned deposit address",
			zap.String("merchant_id", merchantID),
			zap.String("chain", chain))
	}

	binding := &entities.MerchantDepositBinding{
		MerchantID:     merchantID,
		DepositID:      address.ID,
		DepositAddress: address.Address,
		Currency:       address.Currency,
		Chain:          address.Chain,
		FiatEnabled:    true,
	}
	if err := u.bindings.Save(ctx, binding); err != nil {
		return nil, err
	}
	return binding, nil
}

// LinkBankAccount registers the wire account with the fiat bridge and stores
// only the returned account id. Raw bank numbers are never persisted locally.
func (u *MerchantFiatUsecase) LinkBankAccount(ctx context.Context, merchantID string, input *entities.LinkBankAccountInput) (*fiat.WireAccount, error) {
	if _, err := u.bindings.GetByMerchantID(ctx, merchantID); err != nil {
		return nil, err
	}

	account, err := u.bridge.CreateWireAccount(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := u.bindings.SetBankAccount(ctx, merchantID, account.ID); err != nil {
		return nil, err
	}
	return account, nil
}

// GetBinding returns the merchant's current deposit binding.
func (u *MerchantFiatUsecase) GetBinding(ctx context.Context, merchantID string) (*entities.MerchantDepositBinding, error) {
	return u.bindings.GetByMerchantID(ctx, merchantID)
}

// IssueChannelToken mints a short-lived token a merchant device presents when
// opening its notification websocket.
func (u *MerchantFiatUsecase) IssueChannelToken(merchantID string) (string, error) {
	return u.tokens.Issue(merchantID)
}
