package method

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/eth-indexer/internal/workitem"
)

// TransactionReceipt is the subset of an eth_getTransactionReceipt result
// callers need; Logs is left as raw log entries decodable via DecodeGetLogs.
type TransactionReceipt struct {
	TransactionHash   string          `json:"transactionHash"`
	BlockHash         string          `json:"blockHash"`
	BlockNumber       string          `json:"blockNumber"`
	From              string          `json:"from"`
	To                string          `json:"to"`
	Status            string          `json:"status"`
	GasUsed           string          `json:"gasUsed"`
	EffectiveGasPrice string          `json:"effectiveGasPrice"`
	ContractAddress   string          `json:"contractAddress"`
	Logs              json.RawMessage `json:"logs"`
}

// TxReceiptPlan emits one eth_getTransactionReceipt call per hash. Like
// TxByHashPlan, receipts have no range ordering, so every item is
// None-keyed.
type TxReceiptPlan struct {
	Hashes []string
}

func (p TxReceiptPlan) Plan() []workitem.WorkItem {
	items := make([]workitem.WorkItem, 0, len(p.Hashes))
	for _, h := range p.Hashes {
		items = append(items, workitem.WorkItem{
			Method: "eth_getTransactionReceipt",
			Params: []interface{}{h},
			Key:    workitem.NoneKey(),
		})
	}
	return items
}

// DecodeTxReceipt parses a result, returning (nil, nil) when the node
// reports the receipt as unavailable (JSON null) — typically because the
// transaction hasn't been mined yet.
func DecodeTxReceipt(raw json.RawMessage) (*TransactionReceipt, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var r TransactionReceipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("method: decode eth_getTransactionReceipt result: %w", err)
	}
	return &r, nil
}
