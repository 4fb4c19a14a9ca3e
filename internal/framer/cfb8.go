package framer

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/Maxuss/soulflame/internal/wire"
)

// newCFB8Stream builds a cipher.Stream implementing AES-128-CFB8: the
// client's shared secret, used as both the key and the initialization
// vector, is encrypted one byte at a time and XORed into the stream. The
// standard library only ships whole-block CFB-128 (crypto/cipher.NewCFBEncrypter
// operates on the block size), so the single-byte feedback construction is
// written out here directly.
func newCFB8Stream(secret []byte, encrypt bool) (cipher.Stream, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, wire.NewError(wire.KindCipher, "BadKeySize", err)
	}
	iv := make([]byte, len(secret))
	copy(iv, secret)
	return &cfb8Stream{block: block, iv: iv, encrypt: encrypt}, nil
}

// cfb8Stream is a continuous (never-reset) CFB-8 stream: shift register
// state persists across every call to XORKeyStream, matching the live
// connection's single running cipher rather than per-packet reset.
type cfb8Stream struct {
	block   cipher.Block
	iv      []byte
	encrypt bool
	tmp     [aes.BlockSize]byte
}

func (s *cfb8Stream) XORKeyStream(dst, src []byte) {
	for i := range src {
		s.block.Encrypt(s.tmp[:], s.iv)
		feedbackByte := s.tmp[0] ^ src[i]
		dst[i] = feedbackByte

		var nextByte byte
		if s.encrypt {
			nextByte = dst[i]
		} else {
			nextByte = src[i]
		}
		copy(s.iv, s.iv[1:])
		s.iv[len(s.iv)-1] = nextByte
	}
}
