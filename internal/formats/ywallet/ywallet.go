// Package ywallet reads and writes YWallet's zec.db SQLite database.
//
// Keys are stored as Bech32 strings and the HD seed as a BIP-39 mnemonic. SQLite needs a path, so
// both directions go through a private temporary file that is removed before returning.
package ywallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/tyler-smith/go-bip39"
)

const ID = "ywallet"

var (
	ErrLockedKey    = errors.New("ywallet: key is locked; unlock the wallet first")
	ErrMissingSeed  = errors.New("ywallet: hd key without a plaintext seed")
	ErrDuplicateKey = errors.New("ywallet: duplicate viewing key")
)

// Adapter implements formats.Adapter for YWallet.
type Adapter struct {
	opts formats.Options
}

func New(opts formats.Options) *Adapter {
	return &Adapter{opts: opts.WithDefaults()}
}

func (a *Adapter) Metadata() formats.Metadata {
	return formats.Metadata{
		ID:          ID,
		Name:        "YWallet",
		Description: "YWallet SQLite account database",
		DefaultFile: "zec.db",
	}
}

// Parse reads the schema version and every account row.
func (a *Adapter) Parse(raw []byte) (*wallet.Wallet, error) {
	var w *wallet.Wallet
	err := withTempDB(raw, "mode=ro", func(db *sqlx.DB) error {
		var version uint64
		if err := db.Get(&version, selectSchemaVersion); err != nil {
			return malformed("schema_version", err)
		}
		if err := codec.CheckVersion("ywallet schema", version, 1, MaxSchemaVersion); err != nil {
			return err
		}
		var rows []accountRow
		if err := db.Select(&rows, selectAccounts); err != nil {
			return malformed("accounts", err)
		}
		parsed, err := a.fromRows(rows)
		if err != nil {
			return err
		}
		parsed.Metadata.Versions[wallet.VersionSchema] = version
		w = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.opts.Logger.Debug().
		Uint64("schema_version", w.Metadata.Versions[wallet.VersionSchema]).
		Int("keys", len(w.Keys)).
		Str("network", string(w.Metadata.Network)).
		Msg("parsed ywallet database")
	return w, nil
}

func (a *Adapter) fromRows(rows []accountRow) (*wallet.Wallet, error) {
	network := a.opts.Network
	if len(rows) > 0 {
		network = detectNetwork(rows[0].IVK, network)
	}
	w := wallet.New(ID, network)

	for i, row := range rows {
		field := fmt.Sprintf("accounts[%d]", i)
		fvk, err := network.DecodeViewingKey(row.IVK)
		if err != nil {
			return nil, malformed(field+".ivk", err)
		}
		k := wallet.ShieldedKey{Kind: wallet.ImportedViewKey, ViewingKey: fvk}
		if k.Address, err = a.opts.Deriver.DefaultAddress(fvk); err != nil {
			return nil, malformed(field+".ivk", err)
		}
		if stored, err := network.DecodeAddress(row.Address); err != nil {
			return nil, malformed(field+".address", err)
		} else if stored != k.Address {
			a.opts.Logger.Debug().Int64("id_account", row.ID).Msg("stored address differs from derived address; using derived")
		}

		if row.SK != nil && *row.SK != "" {
			sk, err := network.DecodeSpendingKey(*row.SK)
			if err != nil {
				return nil, malformed(field+".sk", err)
			}
			k.Kind = wallet.ImportedSpendingKey
			k.SpendingKey = codec.Some(sk)
		}
		if row.Seed != nil && *row.Seed != "" {
			if !k.SpendingKey.IsSome() {
				return nil, malformed(field+".sk", errors.New("seed account without spending key"))
			}
			entropy, err := bip39.EntropyFromMnemonic(*row.Seed)
			if err != nil {
				return nil, malformed(field+".seed", err)
			}
			if w.Metadata.Seed == nil {
				w.Metadata.Seed = &wallet.HDSeed{Entropy: entropy}
			} else if string(w.Metadata.Seed.Entropy) != string(entropy) {
				a.opts.Logger.Warn().Int64("id_account", row.ID).Msg("account uses a second seed; keeping the first")
			}
			k.Kind = wallet.HdKey
			k.HDIndex = codec.Some(row.AIndex)
		}
		if row.Name != "" {
			w.Metadata.Labels[i] = row.Name
		}
		w.Keys = append(w.Keys, k)
	}
	return w, nil
}

// Write refuses locked entries; run keylock.Unlock first.
func (a *Adapter) Write(w *wallet.Wallet) ([]byte, error) {
	network := w.Metadata.Network
	if network == "" {
		network = a.opts.Network
	}
	rows, err := toRows(w, network)
	if err != nil {
		return nil, err
	}

	var out []byte
	err = withTempDB(nil, "_secure_delete=on", func(db *sqlx.DB) error {
		if _, err := db.Exec(walletSchema); err != nil {
			return fmt.Errorf("ywallet: create schema: %w", err)
		}
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("ywallet: begin: %w", err)
		}
		defer tx.Rollback()
		if _, err := tx.Exec(insertSchemaVersion, MaxSchemaVersion); err != nil {
			return fmt.Errorf("ywallet: schema version: %w", err)
		}
		for i := range rows {
			if _, err := tx.NamedExec(insertAccount, &rows[i]); err != nil {
				return checkDBError(err, i)
			}
		}
		return tx.Commit()
	}, func(path string) error {
		raw, err := os.ReadFile(path)
		out = raw
		return err
	})
	if err != nil {
		return nil, err
	}
	a.opts.Logger.Debug().Int("accounts", len(rows)).Int("bytes", len(out)).Msg("wrote ywallet database")
	return out, nil
}

func toRows(w *wallet.Wallet, network sapling.Network) ([]accountRow, error) {
	var mnemonic *string
	if s := w.Metadata.Seed; s != nil && !s.Encrypted {
		m, err := bip39.NewMnemonic(s.Entropy)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		mnemonic = &m
	}

	rows := make([]accountRow, 0, len(w.Keys))
	for i, k := range w.Keys {
		if k.Sealed() {
			return nil, fmt.Errorf("key[%d]: %w", i, ErrLockedKey)
		}
		row := accountRow{ID: int64(i + 1), Name: w.Label(i), AIndex: k.HDIndex.OrZero()}
		var err error
		if row.IVK, err = network.EncodeViewingKey(k.ViewingKey); err != nil {
			return nil, fmt.Errorf("key[%d]: %w", i, err)
		}
		if row.Address, err = network.EncodeAddress(k.Address); err != nil {
			return nil, fmt.Errorf("key[%d]: %w", i, err)
		}
		if sk, ok := k.SpendingKey.Get(); ok {
			enc, err := network.EncodeSpendingKey(sk)
			if err != nil {
				return nil, fmt.Errorf("key[%d]: %w", i, err)
			}
			row.SK = &enc
		}
		if k.Kind == wallet.HdKey {
			if mnemonic == nil {
				if w.Metadata.Seed != nil {
					return nil, fmt.Errorf("key[%d]: %w", i, ErrLockedKey)
				}
				return nil, fmt.Errorf("key[%d]: %w", i, ErrMissingSeed)
			}
			row.Seed = mnemonic
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func detectNetwork(ivk string, fallback sapling.Network) sapling.Network {
	for _, n := range []sapling.Network{sapling.Mainnet, sapling.Testnet} {
		if _, err := n.DecodeViewingKey(ivk); err == nil {
			return n
		}
	}
	return fallback
}

// withTempDB materializes raw (or an empty file) at a private path, opens it, runs fn and then
// each after hook with the path once the connection is closed.
func withTempDB(raw []byte, params string, fn func(db *sqlx.DB) error, after ...func(path string) error) error {
	dir, err := os.MkdirTemp("", "zwalletctl-ywallet-")
	if err != nil {
		return fmt.Errorf("%w: %v", codec.ErrIO, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "zec.db")
	if raw != nil {
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return fmt.Errorf("%w: %v", codec.ErrIO, err)
		}
	}

	db, err := sqlx.Connect("sqlite3", fmt.Sprintf("file:%s?%s", path, params))
	if err != nil {
		return malformed("database", err)
	}
	runErr := fn(db)
	if err := db.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("%w: %v", codec.ErrIO, err)
	}
	if runErr != nil {
		return runErr
	}
	for _, hook := range after {
		if err := hook(path); err != nil {
			return fmt.Errorf("%w: %v", codec.ErrIO, err)
		}
	}
	return nil
}

// checkDBError maps constraint failures on the unique ivk column to ErrDuplicateKey.
func checkDBError(err error, index int) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("key[%d]: %w", index, ErrDuplicateKey)
	}
	return fmt.Errorf("key[%d]: ywallet: insert: %w", index, err)
}

func malformed(field string, err error) error {
	return &codec.FieldError{Field: field, Offset: -1, Err: err}
}
