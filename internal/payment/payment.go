package payment

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transferer 资金划转接口
// 捐款核心只依赖这一个方法，链上实现见 Client
type Transferer interface {
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error
}
