package blockradar

// Address is a deposit address provisioned under the custodial wallet.
type Address struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	Name       string `json:"name"`
	Blockchain string `json:"blockchain,omitempty"`
}

// TokenBalance is one token position held by an address.
type TokenBalance struct {
	ContractAddress string `json:"contract_address"`
	Balance         string `json:"balance"`
	Symbol          string `json:"symbol"`
}

// Balances aggregates the token and native holdings of one address.
type Balances struct {
	Address       string         `json:"address"`
	Tokens        []TokenBalance `json:"tokens"`
	NativeBalance string         `json:"native_balance"`
}

// Transaction is one entry in the custodial wallet's transaction feed. The
// four address fields matter for scoping: a record can be a deposit, a
// withdrawal, or an upstream-initiated sweep into the custodial pool.
type Transaction struct {
	ID                         string `json:"id"`
	Hash                       string `json:"hash"`
	Type                       string `json:"type"`
	Status                     string `json:"status"`
	Amount                     string `json:"amount"`
	AssetSymbol                string `json:"assetSymbol"`
	SenderAddress              string `json:"senderAddress"`
	RecipientAddress           string `json:"recipientAddress"`
	AssetSweptSenderAddress    string `json:"assetSweptSenderAddress"`
	AssetSweptRecipientAddress string `json:"assetSweptRecipientAddress"`
	CreatedAt                  string `json:"createdAt"`
}

// TransactionPage is one page of the wallet-wide transaction feed.
type TransactionPage struct {
	Data []Transaction `json:"data"`
}

// TransactionParams narrows the transaction feed query.
type TransactionParams struct {
	Page  int
	Limit int
}
