package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
)

// KeyedSubmitter signs prepared transactions with a relay key and broadcasts
// them, blocking until the transaction is mined or the context expires.
type KeyedSubmitter struct {
	factory *ClientFactory
	rpcURLs map[string]string
	key     *ecdsa.PrivateKey
	from    common.Address
}

// NewKeyedSubmitter creates a submitter from a hex-encoded private key and a
// network name to RPC URL mapping.
func NewKeyedSubmitter(factory *ClientFactory, rpcURLs map[string]string, privateKeyHex string) (*KeyedSubmitter, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid relay key: %w", err)
	}
	return &KeyedSubmitter{
		factory: factory,
		rpcURLs: rpcURLs,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// From returns the relay account address.
func (s *KeyedSubmitter) From() string {
	return s.from.Hex()
}

// Submit signs and broadcasts tx, then waits for it to be mined.
func (s *KeyedSubmitter) Submit(ctx context.Context, tx *entities.PreparedTx) (*entities.TxResult, error) {
	rpcURL, ok := s.rpcURLs[tx.Network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrUnknownNetwork, tx.Network)
	}

	client, err := s.factory.GetEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	nonce, err := client.PendingNonceAt(ctx, s.from.Hex())
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	to := common.HexToAddress(tx.To)
	value := tx.Value
	if value == nil {
		value = big.NewInt(0)
	}

	gasLimit := tx.GasLimit
	if gasLimit == 0 {
		gasLimit, err = client.EstimateGas(ctx, ethereum.CallMsg{
			From:  s.from,
			To:    &to,
			Value: value,
			Data:  tx.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("estimate gas: %w", err)
		}
	}

	raw := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     tx.Data,
	})

	signed, err := types.SignTx(raw, types.LatestSignerForChainID(client.ChainID()), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcast transaction: %w", err)
	}

	receipt, err := client.WaitMined(ctx, signed.Hash().Hex())
	if err != nil {
		return nil, fmt.Errorf("wait mined: %w", err)
	}

	return &entities.TxResult{
		Hash:        signed.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
	}, nil
}
