package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
)

func TestFormatBalanceDust(t *testing.T) {
	// 粉尘余额必须归零，否则会被误判为持仓
	if got := FormatBalance(big.NewInt(1), 18); got != 0 {
		t.Errorf("1 wei should format to 0, got %v", got)
	}
	if got := FormatBalance(big.NewInt(0), 6); got != 0 {
		t.Errorf("zero should format to 0, got %v", got)
	}
	if got := FormatBalance(big.NewInt(1_500_000), 6); got != 1.5 {
		t.Errorf("want 1.5, got %v", got)
	}
}

func TestHasGasMoney(t *testing.T) {
	matic := func(whole int64) *big.Int {
		return new(big.Int).Mul(big.NewInt(whole), big.NewInt(1e18))
	}

	backend := &fakeBackend{balance: matic(2)}
	client := newTestClient(t, backend)

	ok, err := client.HasGasMoney(context.Background())
	if err != nil {
		t.Fatalf("HasGasMoney: %v", err)
	}
	if !ok {
		t.Error("2 MATIC should pass the polygon gas minimum")
	}

	// polygon 最低要求1个原生币
	backend.balance = big.NewInt(5e17)
	ok, err = client.HasGasMoney(context.Background())
	if err != nil {
		t.Fatalf("HasGasMoney: %v", err)
	}
	if ok {
		t.Error("0.5 MATIC should fail the polygon gas minimum")
	}
}

func TestTokenBalance(t *testing.T) {
	want := big.NewInt(123_456_789)
	backend := &fakeBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			if *call.To != testUSDC.Address {
				t.Errorf("balanceOf sent to %s, want token contract", call.To.Hex())
			}
			return encodeUint(want), nil
		},
	}
	client := newTestClient(t, backend)

	got, err := client.TokenBalance(context.Background(), testUSDC)
	if err != nil {
		t.Fatalf("TokenBalance: %v", err)
	}
	if got.Cmp(want) != 0 {
		t.Errorf("want %v, got %v", want, got)
	}
}
