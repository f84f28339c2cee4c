package hashutil

import (
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/crypto"
)

// EmptyRoot is the root of a tree without leaves.
var EmptyRoot = crypto.Keccak256Hash([]byte("empty-receipts"))

// MerkleeRoot return root hash of the binary Keccak tree built over data.
// An odd node at the end of a level is promoted to the next level unchanged.
func MerkleeRoot(data [][]byte) common.Hash {
	if len(data) == 0 {
		return EmptyRoot
	}

	lvl := make([][]byte, len(data))
	for i, leaf := range data {
		lvl[i] = crypto.Keccak256(leaf)
	}

	for len(lvl) > 1 {
		next := make([][]byte, 0, (len(lvl)+1)/2)
		for j := 0; j < len(lvl); j += 2 {
			if j+1 == len(lvl) {
				next = append(next, lvl[j])
				continue
			}

			next = append(next, crypto.Keccak256(lvl[j], lvl[j+1]))
		}

		lvl = next
	}

	return common.BytesToHash(lvl[0])
}
