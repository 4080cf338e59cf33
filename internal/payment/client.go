package payment

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/blues/cfc/internal/config"
	"github.com/blues/cfc/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// 原生转账的固定gas上限
const transferGasLimit = 21000

// Client 以太坊支付客户端
// 捐款资金先归集到托管账户，再由托管账户转给活动发起人
type Client struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	chainId    *big.Int
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		client:     client,
		privateKey: privateKey,
		chainId:    big.NewInt(cfg.ChainId),
	}, nil
}

// AccountAddress 托管账户地址
func (c *Client) AccountAddress() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// Transfer 从托管账户向收款地址转账并等待上链
// from 是捐款人地址，资金已先行归集到托管账户，这里仅用于日志
func (c *Client) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	nonce, err := c.client.PendingNonceAt(ctx, c.AccountAddress())
	if err != nil {
		return fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, amount, transferGasLimit, gasPrice, nil)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainId), c.privateKey)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	// 等待交易落块后再确认结果
	receipt, err := bind.WaitMined(ctx, c.client, signedTx)
	if err != nil {
		return fmt.Errorf("failed to wait for transaction: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.New("转账交易执行失败")
	}

	logger.Info("转账完成: from=%s to=%s amount=%s tx=%s",
		from.Hex(), to.Hex(), amount.String(), signedTx.Hash().Hex())

	return nil
}
