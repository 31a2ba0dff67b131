/*
	`guid.New` returns a short unique-enough identifier string.

	Ids sort roughly chronologically: they open with a time component,
	so ids minted around the same moment cluster together.  That's a
	politeness to humans grepping logs, not a monotonicity guarantee
	(the time component rolls over after a few decades, and we don't
	care).  The one dash is a visual break and carries no meaning.

	These are not rfc4122 uuids.  There is no binary form and no
	parsing; this is an id generator, not a serialization format.
*/
package guid

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// ascii-ordered base32 set, lowercase, with the usual lookalike
// characters (i, j, l, u) dropped.
var alphabet = [32]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'k', 'm',
	'n', 'o', 'p', 'q', 'r', 's', 't', 'v', 'w', 'x',
	'y', 'z',
}

const (
	radix   = 32
	timeLen = 8 // enough millis to roll over circa 2039.
	randLen = 12
	size    = timeLen + 1 + randLen
)

var (
	mu         sync.Mutex
	lastTimeMs int64
	lastRand   [randLen]byte
	rnd        *rand.Rand
)

func init() {
	var seed int64
	binary.Read(cryptorand.Reader, binary.LittleEndian, &seed)
	rnd = rand.New(rand.NewSource(seed))
}

func New() string {
	var id [size]byte
	id[timeLen] = '-'
	mu.Lock()
	timeMs := time.Now().UTC().UnixNano() / 1e6
	if timeMs == lastTimeMs {
		// several ids in one millisecond: increment the previous
		// randomness so they still come out in issue order.
		for i := 0; i < randLen; i++ {
			lastRand[i]++
			if lastRand[i] < radix {
				break
			}
			lastRand[i] = 0
		}
	} else {
		lastTimeMs = timeMs
		for i := 0; i < randLen; i++ {
			lastRand[i] = byte(rnd.Intn(radix))
		}
	}
	for i := 0; i < randLen; i++ {
		id[size-1-i] = alphabet[lastRand[i]]
	}
	mu.Unlock()
	for i := timeLen - 1; i >= 0; i-- {
		id[i] = alphabet[timeMs%radix]
		timeMs /= radix
	}
	return string(id[:])
}
