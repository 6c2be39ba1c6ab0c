package model

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token 启动时从注册表解析出的类型化代币
type Token struct {
	Symbol   string
	Address  common.Address
	Decimals uint8
	Name     string
}

// FromReadableAmount 人类可读数量转为链上整数
func (t Token) FromReadableAmount(amount float64) *big.Int {
	scaled := new(big.Float).Mul(
		big.NewFloat(amount),
		big.NewFloat(math.Pow10(int(t.Decimals))),
	)
	raw, _ := scaled.Int(nil)
	return raw
}
