package devchain

import (
	"bytes"
	"sort"

	"github.com/holiman/uint256"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/hashutil"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
	"github.com/raidoNetwork/rdo-dualminer/utils/hash"
)

type account struct {
	balance *uint256.Int
	nonce   uint64
}

// state is everything a block mutates. Mining works on a copy which
// replaces the engine state only when the whole call succeeded.
type state struct {
	head     *types.Header
	accounts map[common.Address]*account
	pending  []*Transaction
}

func (s *state) copy() *state {
	cpy := &state{
		head:     s.head.Copy(),
		accounts: make(map[common.Address]*account, len(s.accounts)),
		pending:  make([]*Transaction, len(s.pending)),
	}

	for addr, acc := range s.accounts {
		cpy.accounts[addr] = &account{balance: amount(acc.balance), nonce: acc.nonce}
	}

	// pending transactions are never mutated
	copy(cpy.pending, s.pending)

	return cpy
}

func (s *state) account(addr common.Address) *account {
	acc, exists := s.accounts[addr]
	if !exists {
		acc = &account{balance: new(uint256.Int)}
		s.accounts[addr] = acc
	}
	return acc
}

// root = MerkleeRoot(sorted account leaves)
func (s *state) root() common.Hash {
	addrs := make([]common.Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}

	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	leaves := make([][]byte, len(addrs))
	for i, addr := range addrs {
		acc := s.accounts[addr]
		leaves[i] = hash.AccountLeaf(addr, acc.balance, acc.nonce)
	}

	return hashutil.MerkleeRoot(leaves)
}
