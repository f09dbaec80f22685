package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T) *WalletStorage {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	db, err := Connect()
	require.NoError(t, err)
	return db
}

func TestConnectCreatesEmptyWalletFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	db, err := Connect()
	require.NoError(t, err)

	names, err := db.ListWallets()
	require.NoError(t, err)
	require.Empty(t, names)

	info, err := os.Stat(filepath.Join(home, ".config/flashorca/wallets.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveAndGetWallet(t *testing.T) {
	db := testStorage(t)
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	require.NoError(t, db.SaveWallet("main", key))

	wallet, err := db.GetWallet("main")
	require.NoError(t, err)
	require.Equal(t, "main", wallet.Name)
	require.Equal(t, key, wallet.PrivateKey)
	require.Equal(t, key.PublicKey(), wallet.PublicKey())
}

func TestGetWalletMissing(t *testing.T) {
	db := testStorage(t)
	_, err := db.GetWallet("ghost")
	require.Error(t, err)
}

func TestSaveWalletOverwrites(t *testing.T) {
	db := testStorage(t)
	first, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	second, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	require.NoError(t, db.SaveWallet("main", first))
	require.NoError(t, db.SaveWallet("main", second))

	wallet, err := db.GetWallet("main")
	require.NoError(t, err)
	require.Equal(t, second, wallet.PrivateKey)
}

func TestDeleteWallet(t *testing.T) {
	db := testStorage(t)
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	require.NoError(t, db.SaveWallet("main", key))

	require.NoError(t, db.DeleteWallet("main"))
	require.Error(t, db.DeleteWallet("main"))

	names, err := db.ListWallets()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestListWalletsSorted(t *testing.T) {
	db := testStorage(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		key, err := solana.NewRandomPrivateKey()
		require.NoError(t, err)
		require.NoError(t, db.SaveWallet(name, key))
	}

	names, err := db.ListWallets()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestGetWalletRejectsCorruptKey(t *testing.T) {
	db := testStorage(t)
	require.NoError(t, db.write(&walletFile{Wallets: map[string]string{
		"bad": "bm90IGEga2V5", // wrong length once decoded
	}}))
	_, err := db.GetWallet("bad")
	require.ErrorContains(t, err, "invalid private key length")
}
