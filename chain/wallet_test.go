package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHexKeyWallet(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	wallet, err := NewHexKeyWallet(hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), wallet.Address())

	opts, err := wallet.Transactor(big.NewInt(testChainID))
	require.NoError(t, err)
	assert.Equal(t, wallet.Address(), opts.From)

	_, err = NewHexKeyWallet("0xzz")
	assert.Error(t, err)
}

func TestNewKeystoreWallet(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, "secret")
	require.NoError(t, err)

	wallet, err := NewKeystoreWallet(account.URL.Path, "secret")
	require.NoError(t, err)
	assert.Equal(t, account.Address, wallet.Address())

	_, err = NewKeystoreWallet(account.URL.Path, "wrong")
	assert.Error(t, err)
}

func TestWalletFromConfig(t *testing.T) {
	wallet, err := WalletFromConfig("", "", "")
	require.NoError(t, err)
	assert.Nil(t, wallet)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	wallet, err = WalletFromConfig(hexutil.Encode(crypto.FromECDSA(key)), "", "")
	require.NoError(t, err)
	assert.NotNil(t, wallet)
}
