package utils

import "github.com/Luismorlan/pow_ledger/model"

// GetTransactionBytes encodes sender, recipient and amount in that order.
func GetTransactionBytes(t *model.Transaction) []byte {
	var data []byte
	data = append(data, StringToBytes(t.Sender)...)
	data = append(data, StringToBytes(t.Recipient)...)
	data = append(data, Uint64ToBytes(t.Amount)...)
	return data
}

// GetTransactionsBytes encodes the count followed by every transaction in order.
func GetTransactionsBytes(txs []model.Transaction) []byte {
	data := Uint32ToBytes(uint32(len(txs)))
	for i := 0; i < len(txs); i++ {
		data = append(data, GetTransactionBytes(&txs[i])...)
	}
	return data
}
