package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Route 寻路服务返回的一条执行路径，只消费一次，不持久化
type Route struct {
	TokenIn   Token
	TokenOut  Token
	To        common.Address // swap router
	Calldata  []byte
	Value     *big.Int
	AmountOut float64 // 报价的期望换出数量（可读单位）
	Deadline  int64   // unix秒
}

// TxState 交易终态
type TxState string

const (
	TxPending TxState = "Pending" // 已广播但超时未确认，链上结果未知
	TxSent    TxState = "Sent"
	TxFailed  TxState = "Failed"
)

// TxOutcome 交易执行结果
type TxOutcome struct {
	State TxState
	Hash  string
}
