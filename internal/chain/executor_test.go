package chain

import (
	"context"
	"math/big"
	"swapflow/internal/model"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestSendConfirmed(t *testing.T) {
	backend := &fakeBackend{receiptFn: confirmedReceipt}
	client := newTestClient(t, backend)

	outcome, err := client.Send(context.Background(), testRouter, []byte{0x01}, big.NewInt(0))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if outcome.State != model.TxSent {
		t.Errorf("want Sent, got %s", outcome.State)
	}
	if outcome.Hash == "" {
		t.Error("outcome should carry the tx hash")
	}
	if len(backend.sent) != 1 {
		t.Errorf("want one broadcast tx, got %d", len(backend.sent))
	}
}

func TestSendReverted(t *testing.T) {
	backend := &fakeBackend{
		receiptFn: func(hash common.Hash) (*types.Receipt, error) {
			return &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: hash}, nil
		},
	}
	client := newTestClient(t, backend)

	outcome, err := client.Send(context.Background(), testRouter, []byte{0x01}, big.NewInt(0))
	if err == nil {
		t.Fatal("reverted tx should return an error")
	}
	if outcome.State != model.TxFailed {
		t.Errorf("want Failed, got %s", outcome.State)
	}
}

func TestSendPendingOnConfirmTimeout(t *testing.T) {
	// 回执一直查不到：超时后返回Pending而不是Failed，也不报错
	backend := &fakeBackend{}
	client := newTestClient(t, backend)

	outcome, err := client.Send(context.Background(), testRouter, []byte{0x01}, big.NewInt(0))
	if err != nil {
		t.Fatalf("timeout must not surface as error, got %v", err)
	}
	if outcome.State != model.TxPending {
		t.Errorf("want Pending, got %s", outcome.State)
	}
	if outcome.Hash == "" {
		t.Error("pending outcome should carry the tx hash for later inspection")
	}
}

func TestSendRejectsMissingBaseFee(t *testing.T) {
	// 链头没有baseFee（非EIP-1559链）：报错停手，不能panic也不能瞎广播
	backend := &fakeBackend{header: &types.Header{}}
	client := newTestClient(t, backend)

	outcome, err := client.Send(context.Background(), testRouter, []byte{0x01}, big.NewInt(0))
	if err == nil {
		t.Fatal("missing base fee should surface as error")
	}
	if outcome.State != model.TxFailed {
		t.Errorf("want Failed, got %s", outcome.State)
	}
	if len(backend.sent) != 0 {
		t.Errorf("no tx should be broadcast, got %d", len(backend.sent))
	}
}

func TestSendPendingOnContextCancel(t *testing.T) {
	backend := &fakeBackend{}
	client := newTestClient(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := client.Send(ctx, testRouter, []byte{0x01}, big.NewInt(0))
	if err != nil {
		t.Fatalf("cancel must not surface as error, got %v", err)
	}
	if outcome.State != model.TxPending {
		t.Errorf("want Pending, got %s", outcome.State)
	}
}
