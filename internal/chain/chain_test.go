package chain

import (
	"context"
	"math/big"
	"swapflow/conf"
	"swapflow/internal/model"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// 模拟backend，测试不连任何RPC节点

const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	testRouter = common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	testUSDC   = model.Token{Symbol: "USDC", Address: common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), Decimals: 6}
)

type fakeBackend struct {
	balance   *big.Int
	header    *types.Header
	callFn    func(call ethereum.CallMsg) ([]byte, error)
	receiptFn func(hash common.Hash) (*types.Receipt, error)
	sent      []*types.Transaction
}

func (f *fakeBackend) BalanceAt(_ context.Context, _ common.Address, _ *big.Int) (*big.Int, error) {
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

func (f *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.callFn == nil {
		return encodeUint(big.NewInt(0)), nil
	}
	return f.callFn(call)
}

func (f *fakeBackend) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	if f.header != nil {
		return f.header, nil
	}
	return &types.Header{BaseFee: big.NewInt(30_000_000_000)}, nil
}

func (f *fakeBackend) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (f *fakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return 120000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if f.receiptFn == nil {
		return nil, ethereum.NotFound
	}
	return f.receiptFn(hash)
}

func encodeUint(x *big.Int) []byte {
	return common.LeftPadBytes(x.Bytes(), 32)
}

func newTestClient(t *testing.T, backend Backend) *Client {
	t.Helper()
	client, err := NewWithBackend(backend, conf.ChainConfig{
		Name:        "polygon",
		DisplayName: "Polygon",
		Id:          137,
		Explorer:    "https://polygonscan.com/",
		Currency:    "MATIC",
		Router:      testRouter.Hex(),
		PrivateKey:  testPrivateKey,
	}, conf.ExecutorConfig{
		ConfirmTimeout:  100 * time.Millisecond,
		PollInterval:    5 * time.Millisecond,
		PollMaxInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func confirmedReceipt(hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}, nil
}
