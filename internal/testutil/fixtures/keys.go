// Package fixtures builds deterministic key material for tests.
package fixtures

import "github.com/danmuck/zwalletctl/internal/sapling"

func fill(dst []byte, seed byte, salt byte) {
	for i := range dst {
		dst[i] = seed ^ salt ^ byte(i*7+1)
	}
}

// SpendingKey returns a depth-1 spending key whose bytes are a function of seed.
func SpendingKey(seed byte) sapling.ExtendedSpendingKey {
	k := sapling.ExtendedSpendingKey{Depth: 1, ChildIndex: 0x80000000 | uint32(seed)}
	fill(k.ParentTag[:], seed, 0x10)
	fill(k.ChainCode[:], seed, 0x20)
	fill(k.Ask[:], seed, 0x30)
	fill(k.Nsk[:], seed, 0x40)
	fill(k.Ovk[:], seed, 0x50)
	fill(k.Dk[:], seed, 0x60)
	return k
}

// ViewingKey returns the viewing key paired with SpendingKey(seed) for test purposes.
func ViewingKey(seed byte) sapling.ExtendedFullViewingKey {
	sk := SpendingKey(seed)
	k := sapling.ExtendedFullViewingKey{
		Depth:      sk.Depth,
		ParentTag:  sk.ParentTag,
		ChildIndex: sk.ChildIndex,
		ChainCode:  sk.ChainCode,
		Ovk:        sk.Ovk,
		Dk:         sk.Dk,
	}
	fill(k.Ak[:], seed, 0x70)
	fill(k.Nk[:], seed, 0x80)
	return k
}

// Deriver is a deterministic stand-in for address derivation: the address is the dk and ak prefix.
var Deriver = sapling.DeriverFunc(func(fvk sapling.ExtendedFullViewingKey) (sapling.PaymentAddress, error) {
	var a sapling.PaymentAddress
	copy(a.Diversifier[:], fvk.Dk[:11])
	a.PkD = fvk.Ak
	return a, nil
})
