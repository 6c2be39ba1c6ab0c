package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"swapflow/conf"
	"swapflow/internal/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC20 最小ABI，只覆盖机器人用到的方法
const erc20ABIJSON = `[
  {"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
  {"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

// Backend 链RPC的最小接口，ethclient.Client 满足该接口，测试用模拟实现
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client 进程级唯一的链客户端。启动时构建一次，注入到需要它的组件，
// 不做任何按次重建
type Client struct {
	backend Backend

	chainID *big.Int
	key     *ecdsa.PrivateKey
	address common.Address
	router  common.Address
	erc20   abi.ABI

	name        string
	displayName string
	currency    string
	explorer    string
	gasMin      float64

	executor conf.ExecutorConfig
}

// New 连接RPC节点并从配置装载钱包
func New(cfg conf.ChainConfig, ec conf.ExecutorConfig) (*Client, error) {
	rpc, err := ethclient.Dial(cfg.Rpc)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", cfg.Rpc, err)
	}
	return NewWithBackend(rpc, cfg, ec)
}

// NewWithBackend 用于注入模拟backend
func NewWithBackend(backend Backend, cfg conf.ChainConfig, ec conf.ExecutorConfig) (*Client, error) {
	keyHex := strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x")
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("erc20 abi parse: %w", err)
	}

	gasMin := cfg.GasMin
	if gasMin <= 0 {
		gasMin = defaultGasMin(cfg.Name)
	}

	return &Client{
		backend:     backend,
		chainID:     big.NewInt(cfg.Id),
		key:         key,
		address:     crypto.PubkeyToAddress(key.PublicKey),
		router:      common.HexToAddress(cfg.Router),
		erc20:       parsed,
		name:        cfg.Name,
		displayName: cfg.DisplayName,
		currency:    cfg.Currency,
		explorer:    cfg.Explorer,
		gasMin:      gasMin,
		executor:    ec,
	}, nil
}

// Address 钱包地址
func (c *Client) Address() common.Address {
	return c.address
}

// Router swap router 地址
func (c *Client) Router() common.Address {
	return c.router
}

// ChainName 用于日志和告警的链名称
func (c *Client) ChainName() string {
	return c.displayName
}

// ExplorerTx 拼接浏览器交易链接
func (c *Client) ExplorerTx(hash string) string {
	return c.explorer + "tx/" + hash
}

// VerifyTokens 启动时核对注册表中的decimals与链上是否一致
func (c *Client) VerifyTokens(ctx context.Context, tokens ...model.Token) error {
	for _, token := range tokens {
		onchain, err := c.Decimals(ctx, token)
		if err != nil {
			return fmt.Errorf("decimals lookup for %s: %w", token.Symbol, err)
		}
		if onchain != token.Decimals {
			return fmt.Errorf("token %s decimals mismatch: config=%d chain=%d",
				token.Symbol, token.Decimals, onchain)
		}
	}
	return nil
}

// Decimals 读取代币精度
func (c *Client) Decimals(ctx context.Context, token model.Token) (uint8, error) {
	out, err := c.callERC20(ctx, token.Address, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected type %T", out[0])
	}
	return d, nil
}

// callERC20 只读合约调用，解包返回值
func (c *Client) callERC20(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.erc20.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		From: c.address,
		To:   &token,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	out, err := c.erc20.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("call %s: empty result", method)
	}
	return out, nil
}
