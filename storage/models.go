package storage

import "github.com/gagliardetto/solana-go"

// Wallet is a named keypair profile held in the local wallet file.
type Wallet struct {
	Name       string
	PrivateKey solana.PrivateKey
}

// PublicKey returns the wallet's address.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.PrivateKey.PublicKey()
}
