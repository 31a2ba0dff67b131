package def

import (
	"math/big"
)

// btc-style alphabet: no zero, no O, no l, no I.
var b58alphabet = []byte("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")

/*
	B58Encode renders bytes in base58.  This is the encoding used for
	signatures and content hashes throughout: dense enough for filenames,
	free of path separators and shell metacharacters, and unambiguous to
	read aloud.
*/
func B58Encode(data []byte) string {
	// leading zero bytes map to runs of the zeroth digit.
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}
	x := new(big.Int).SetBytes(data)
	radix := big.NewInt(58)
	mod := new(big.Int)
	// digits fall out little-endian; reversed at the end.
	out := make([]byte, 0, len(data)*138/100+1)
	for x.Sign() > 0 {
		x.DivMod(x, radix, mod)
		out = append(out, b58alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		out = append(out, '1')
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
