// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds block zero. Initial balances are expressed as
// coinbase outputs inside the genesis block itself, so the ledger needs no
// special bootstrap path.
package genesis

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/tx"
)

// Allocation funds one address at block zero, optionally pre-enrolling it
// as a candidate.
type Allocation struct {
	Address  string         `yaml:"address"`
	Balance  electra.Amount `yaml:"balance"`
	Enrolled bool           `yaml:"enrolled,omitempty"`
}

// Config is the custom genesis file format.
type Config struct {
	Timestamp   uint64       `yaml:"timestamp"`
	Allocations []Allocation `yaml:"allocations"`
}

// LoadConfig decodes a custom genesis file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &cfg, nil
}

// Genesis is a reproducible block-zero builder.
type Genesis struct {
	blk *block.Block
}

// NewCustom builds a genesis from a decoded config.
func NewCustom(cfg *Config) (*Genesis, error) {
	fund := new(tx.Builder).Type(tx.TypeValue).Coinbase()
	var enrolls []*tx.Transaction
	for _, alloc := range cfg.Allocations {
		addr, err := electra.ParseAddress(alloc.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "allocation %q", alloc.Address)
		}
		if !electra.ValidAmount(alloc.Balance) {
			return nil, errors.Errorf("allocation %q: balance %d out of range", alloc.Address, alloc.Balance)
		}
		fund.Output(*addr, alloc.Balance, electra.NativeAsset)
		if alloc.Enrolled {
			enrolls = append(enrolls, new(tx.Builder).Type(tx.TypeEnroll).Signer(*addr).Build())
		}
	}

	// enrollments go first so that funding an enrolled account counts as
	// self-stake
	builder := new(block.Builder).Timestamp(cfg.Timestamp)
	for _, trx := range enrolls {
		builder.Transaction(trx)
	}
	if len(cfg.Allocations) > 0 {
		builder.Transaction(fund.Build())
	}
	return &Genesis{blk: builder.Build()}, nil
}

// NewDevnet builds the fixed development genesis: ten funded accounts, the
// first three enrolled as candidates.
func NewDevnet() *Genesis {
	cfg := &Config{Timestamp: devTimestamp}
	for i, addr := range DevAccounts() {
		cfg.Allocations = append(cfg.Allocations, Allocation{
			Address:  addr.String(),
			Balance:  1_000_000 * electra.Coin,
			Enrolled: i < 3,
		})
	}
	g, err := NewCustom(cfg)
	if err != nil {
		panic(errors.Wrap(err, "build devnet genesis"))
	}
	return g
}

const devTimestamp uint64 = 1_700_000_000

// DevAccounts lists the well-known development addresses.
func DevAccounts() []electra.Address {
	accounts := make([]electra.Address, 10)
	for i := range accounts {
		var b [20]byte
		copy(b[:], "electra-dev-account")
		b[19] = byte('0' + i)
		accounts[i] = electra.BytesToAddress(b[:])
	}
	return accounts
}

// Block returns the genesis block.
func (g *Genesis) Block() *block.Block {
	return g.blk
}

// ID returns the genesis block id.
func (g *Genesis) ID() electra.Bytes32 {
	return g.blk.Header().ID()
}
