package blockradar

import "strings"

// FilterByAddress scopes a wallet-wide transaction feed to one deposit
// address. The provider reports every movement across the custodial wallet, so
// a transaction belongs to the address when any of its four address-bearing
// fields matches: sender, recipient, or either swept side of an internal
// consolidation. Comparison trims whitespace and ignores case.
func FilterByAddress(txs []Transaction, address string) []Transaction {
	target := strings.ToLower(strings.TrimSpace(address))
	if target == "" {
		return nil
	}

	filtered := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if txMatchesAddress(tx, target) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

func txMatchesAddress(tx Transaction, target string) bool {
	for _, field := range []string{
		tx.SenderAddress,
		tx.RecipientAddress,
		tx.AssetSweptSenderAddress,
		tx.AssetSweptRecipientAddress,
	} {
		if field == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(field)) == target {
			return true
		}
	}
	return false
}
