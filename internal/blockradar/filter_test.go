package blockradar

import "testing"

func TestFilterByAddressMatchesAllFourFields(t *testing.T) {
	txs := []Transaction{
		{ID: "t1", SenderAddress: "0xAAA"},
		{ID: "t2", RecipientAddress: "0xaaa"},
		{ID: "t3", AssetSweptSenderAddress: "0xAaA"},
		{ID: "t4", AssetSweptRecipientAddress: " 0xaaa "},
		{ID: "t5", SenderAddress: "0xbbb", RecipientAddress: "0xccc"},
	}

	got := FilterByAddress(txs, "0xaaa")
	if len(got) != 4 {
		t.Fatalf("matched %d transactions, want 4", len(got))
	}
	for i, want := range []string{"t1", "t2", "t3", "t4"} {
		if got[i].ID != want {
			t.Fatalf("result[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestFilterByAddressTrimsTarget(t *testing.T) {
	txs := []Transaction{{ID: "t1", SenderAddress: "0xaaa"}}
	if got := FilterByAddress(txs, "  0xAAA  "); len(got) != 1 {
		t.Fatalf("whitespace-padded target did not match")
	}
}

func TestFilterByAddressEmptyTarget(t *testing.T) {
	txs := []Transaction{{ID: "t1", SenderAddress: ""}}
	if got := FilterByAddress(txs, ""); got != nil {
		t.Fatalf("empty target matched %d transactions", len(got))
	}
	// An empty field never matches, even against a blank-ish target.
	if got := FilterByAddress(txs, "   "); got != nil {
		t.Fatalf("blank target matched %d transactions", len(got))
	}
}

func TestFilterByAddressNoMatches(t *testing.T) {
	txs := []Transaction{
		{ID: "t1", SenderAddress: "0xbbb"},
		{ID: "t2", RecipientAddress: "0xccc"},
	}
	if got := FilterByAddress(txs, "0xaaa"); len(got) != 0 {
		t.Fatalf("unexpected matches: %d", len(got))
	}
}
