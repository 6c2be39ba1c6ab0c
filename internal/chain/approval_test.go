package chain

import (
	"context"
	"math/big"
	"swapflow/internal/model"
	"testing"

	"github.com/ethereum/go-ethereum"
)

func TestEnsureApprovalShortCircuit(t *testing.T) {
	// 额度已经够了，不应该提交任何交易
	backend := &fakeBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			return encodeUint(testUSDC.FromReadableAmount(5000)), nil
		},
	}
	client := newTestClient(t, backend)

	outcome, err := client.EnsureApproval(context.Background(), testUSDC, 50, 2000)
	if err != nil {
		t.Fatalf("EnsureApproval: %v", err)
	}
	if outcome.State != model.TxSent {
		t.Errorf("want Sent, got %s", outcome.State)
	}
	if len(backend.sent) != 0 {
		t.Errorf("no tx should be broadcast, got %d", len(backend.sent))
	}
}

func TestEnsureApprovalUsesCeiling(t *testing.T) {
	backend := &fakeBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			return encodeUint(big.NewInt(0)), nil
		},
		receiptFn: confirmedReceipt,
	}
	client := newTestClient(t, backend)

	outcome, err := client.EnsureApproval(context.Background(), testUSDC, 50, 2000)
	if err != nil {
		t.Fatalf("EnsureApproval: %v", err)
	}
	if outcome.State != model.TxSent {
		t.Errorf("want Sent, got %s", outcome.State)
	}
	if len(backend.sent) != 1 {
		t.Fatalf("want exactly one approve tx, got %d", len(backend.sent))
	}

	tx := backend.sent[0]
	if *tx.To() != testUSDC.Address {
		t.Errorf("approve sent to %s, want token contract", tx.To().Hex())
	}

	method, err := client.erc20.MethodById(tx.Data()[:4])
	if err != nil || method.Name != "approve" {
		t.Fatalf("want approve calldata, got method %v err %v", method, err)
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		t.Fatalf("unpack approve args: %v", err)
	}
	// 授权额度按批量上限，而不是本次交易额
	amount := args[1].(*big.Int)
	if amount.Cmp(testUSDC.FromReadableAmount(2000)) != 0 {
		t.Errorf("approve amount %v, want ceiling 2000", amount)
	}
}

func TestEnsureApprovalCeilingBelowAmount(t *testing.T) {
	backend := &fakeBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			return encodeUint(big.NewInt(0)), nil
		},
		receiptFn: confirmedReceipt,
	}
	client := newTestClient(t, backend)

	if _, err := client.EnsureApproval(context.Background(), testUSDC, 3000, 2000); err != nil {
		t.Fatalf("EnsureApproval: %v", err)
	}
	tx := backend.sent[0]
	method, _ := client.erc20.MethodById(tx.Data()[:4])
	args, _ := method.Inputs.Unpack(tx.Data()[4:])
	amount := args[1].(*big.Int)
	if amount.Cmp(testUSDC.FromReadableAmount(3000)) != 0 {
		t.Errorf("approve amount %v, want trade amount 3000", amount)
	}
}
