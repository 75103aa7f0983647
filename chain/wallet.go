package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet signs transactions for a single account.
type Wallet interface {
	Address() common.Address
	Transactor(chainID *big.Int) (*bind.TransactOpts, error)
}

type keyWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewKeyWallet(key *ecdsa.PrivateKey) Wallet {
	return &keyWallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// NewHexKeyWallet loads a wallet from a hex private key, with or without 0x prefix.
func NewHexKeyWallet(hexKey string) (Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewKeyWallet(key), nil
}

// NewKeystoreWallet decrypts a go-ethereum keystore file.
func NewKeystoreWallet(path, passphrase string) (Wallet, error) {
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("cannot decrypt keystore %s: %w", path, err)
	}
	return NewKeyWallet(key.PrivateKey), nil
}

// WalletFromConfig returns the configured wallet, or nil when neither a key nor a keystore is set.
func WalletFromConfig(privateKey, keystorePath, passphrase string) (Wallet, error) {
	switch {
	case privateKey != "":
		return NewHexKeyWallet(privateKey)
	case keystorePath != "":
		return NewKeystoreWallet(keystorePath, passphrase)
	}
	return nil, nil
}

func (w *keyWallet) Address() common.Address {
	return w.address
}

func (w *keyWallet) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(w.key, chainID)
}
