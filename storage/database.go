package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
)

const (
	walletFileName = "wallets.json"
	configDirName  = ".config/flashorca"
)

// walletFile is the on-disk shape: profile name to base64 private key.
type walletFile struct {
	Wallets map[string]string `json:"wallets"`
}

// WalletStorage holds named wallet profiles in a JSON file under the user's
// config directory.
type WalletStorage struct {
	path string
}

// Connect opens the wallet file, creating the directory and an empty file
// on first use.
func Connect() (*WalletStorage, error) {
	path, err := walletPath()
	if err != nil {
		return nil, fmt.Errorf("could not get wallet path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("could not create config directory: %w", err)
	}
	db := &WalletStorage{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := db.write(&walletFile{Wallets: map[string]string{}}); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// GetWallet retrieves a wallet profile by name. It returns an error when the
// profile does not exist.
func (db *WalletStorage) GetWallet(name string) (*Wallet, error) {
	file, err := db.read()
	if err != nil {
		return nil, err
	}
	encoded, ok := file.Wallets[name]
	if !ok {
		return nil, fmt.Errorf("no wallet named %q found", name)
	}
	keyBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("could not decode private key for %q: %w", name, err)
	}
	if len(keyBytes) != solana.PrivateKeyLength {
		return nil, fmt.Errorf("invalid private key length for %q: expected %d, got %d",
			name, solana.PrivateKeyLength, len(keyBytes))
	}
	return &Wallet{Name: name, PrivateKey: solana.PrivateKey(keyBytes)}, nil
}

// SaveWallet stores or replaces a wallet profile under name.
func (db *WalletStorage) SaveWallet(name string, privateKey solana.PrivateKey) error {
	file, err := db.read()
	if err != nil {
		return err
	}
	file.Wallets[name] = base64.StdEncoding.EncodeToString(privateKey[:])
	return db.write(file)
}

// DeleteWallet removes a wallet profile. Deleting a missing profile is an error.
func (db *WalletStorage) DeleteWallet(name string) error {
	file, err := db.read()
	if err != nil {
		return err
	}
	if _, ok := file.Wallets[name]; !ok {
		return fmt.Errorf("no wallet named %q found", name)
	}
	delete(file.Wallets, name)
	return db.write(file)
}

// ListWallets returns the stored profile names, sorted.
func (db *WalletStorage) ListWallets() ([]string, error) {
	file, err := db.read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(file.Wallets))
	for name := range file.Wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (db *WalletStorage) read() (*walletFile, error) {
	data, err := os.ReadFile(db.path)
	if err != nil {
		return nil, fmt.Errorf("could not read wallet file: %w", err)
	}
	file := &walletFile{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, file); err != nil {
			return nil, fmt.Errorf("could not parse wallet file: %w", err)
		}
	}
	if file.Wallets == nil {
		file.Wallets = map[string]string{}
	}
	return file, nil
}

func (db *WalletStorage) write(file *walletFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal wallet file: %w", err)
	}
	if err := os.WriteFile(db.path, data, 0600); err != nil {
		return fmt.Errorf("could not write wallet file: %w", err)
	}
	return nil
}

func walletPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(home, configDirName, walletFileName), nil
}
