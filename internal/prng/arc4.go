package prng

// Arc4 is the BitcoinJS v0.1.3 entropy-pool expansion cipher: classic RC4
// key-scheduling and keystream generation, used here purely as a
// deterministic function from a 256-byte key to an arbitrary-length
// keystream — never as a security primitive.
type Arc4 struct {
	i, j byte
	s    [256]byte
}

// NewArc4 runs the standard RC4 key-scheduling algorithm over key.
func NewArc4(key []byte) *Arc4 {
	a := &Arc4{}
	for i := 0; i < 256; i++ {
		a.s[i] = byte(i)
	}
	var j byte
	for i := 0; i < 256; i++ {
		j = j + a.s[i] + key[i%len(key)]
		a.s[i], a.s[j] = a.s[j], a.s[i]
	}
	return a
}

// Next produces the next pseudo-random keystream byte.
func (a *Arc4) Next() byte {
	a.i++
	a.j += a.s[a.i]
	a.s[a.i], a.s[a.j] = a.s[a.j], a.s[a.i]
	k := a.s[a.i] + a.s[a.j]
	return a.s[k]
}

// FillBytes writes len(buf) keystream bytes into buf.
func (a *Arc4) FillBytes(buf []byte) {
	for i := range buf {
		buf[i] = a.Next()
	}
}

// EntropyPoolSize is the fixed BitcoinJS v0.1.3 entropy pool width.
const EntropyPoolSize = 256

// GenerateEntropyPool fills a 256-byte pool slot by slot from engine's
// NextU16 draws (high byte, then low byte), then XORs the timestamp's low
// 32 bits (little-endian) into the first four pool bytes. The pool is a
// pure function of (engine, timestampMs, seedOverride).
func GenerateEntropyPool(timestampMs uint64, engine Engine, seedOverride *uint64) []byte {
	pool := make([]byte, EntropyPoolSize)
	w := NewWeakMathRandom(engine, timestampMs, seedOverride)

	ptr := 0
	for ptr < EntropyPoolSize {
		r := w.NextU16()
		pool[ptr] = byte(r >> 8)
		ptr++
		if ptr < EntropyPoolSize {
			pool[ptr] = byte(r & 0xFF)
			ptr++
		}
	}

	ts32 := uint32(timestampMs)
	pool[0] ^= byte(ts32)
	pool[1] ^= byte(ts32 >> 8)
	pool[2] ^= byte(ts32 >> 16)
	pool[3] ^= byte(ts32 >> 24)

	return pool
}

// GeneratePrivKeyBytes derives the 32-byte candidate private key: entropy
// pool keys an ARC4 cipher, first 32 keystream bytes are the candidate.
func GeneratePrivKeyBytes(timestampMs uint64, engine Engine, seedOverride *uint64) [32]byte {
	pool := GenerateEntropyPool(timestampMs, engine, seedOverride)
	arc4 := NewArc4(pool)
	var out [32]byte
	arc4.FillBytes(out[:])
	return out
}
