package store

import (
	"os"
	"path/filepath"
	"swapflow/conf"
	"swapflow/internal/model"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(conf.StoreConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}

func TestPositionRoundTrip(t *testing.T) {
	st := newTestStore(t)

	pos := model.Position{
		PositionOpen:      true,
		StablecoinBalance: 50,
		TokenBalance:      0.025,
		LastTrade:         "Position opened at 1800",
		LastTradePrice:    "1800",
	}
	if err := st.SavePosition(pos); err != nil {
		t.Fatalf("save position: %v", err)
	}

	got := st.Position()
	if got != pos {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, pos)
	}
}

func TestPositionMissingReturnsDefault(t *testing.T) {
	st := newTestStore(t)

	got := st.Position()
	if got.PositionOpen || got.StablecoinBalance != 0 || got.TokenBalance != 0 {
		t.Errorf("missing document should yield the safe default, got %+v", got)
	}
}

func TestPositionCorruptReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	st, err := New(conf.StoreConfig{Dir: dir})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "position.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := st.Position()
	if got.PositionOpen {
		t.Errorf("corrupt document should yield the safe default, got %+v", got)
	}
}

func TestAppendTradeNewestFirst(t *testing.T) {
	st := newTestStore(t)

	if err := st.AppendTrade(model.TradeRecord{Type: model.TradeBuy, Price: "1800"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.AppendTrade(model.TradeRecord{Type: model.TradeSell, Price: "1900"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	trades := st.Trades()
	if len(trades) != 2 {
		t.Fatalf("want 2 trades, got %d", len(trades))
	}
	if trades[0].Type != model.TradeSell {
		t.Errorf("newest trade should come first, got %s", trades[0].Type)
	}
	if trades[0].Id == "" || trades[1].Id == "" {
		t.Error("appended records should get ids assigned")
	}
	if trades[0].Id == trades[1].Id {
		t.Error("record ids must be unique")
	}
}

func TestAppendErrorNewestFirst(t *testing.T) {
	st := newTestStore(t)

	_ = st.AppendError(model.ErrorRecord{Category: model.ErrGenRoute, Message: "first"})
	_ = st.AppendError(model.ErrorRecord{Category: model.ErrBuy, Message: "second"})

	errs := st.Errors()
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %d", len(errs))
	}
	if errs[0].Message != "second" {
		t.Errorf("newest error should come first, got %q", errs[0].Message)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := New(conf.StoreConfig{Dir: dir})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.SavePosition(model.Position{StablecoinBalance: 100}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file %s left behind after rename", e.Name())
		}
	}
}
