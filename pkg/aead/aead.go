// Package aead implements the authenticated stream cipher used to protect
// patient-data payloads once a shared secret is established.
//
// The construction is encrypt-then-MAC over a keyed-hash stream cipher:
//
// Key Derivation:
//
//	enc_key = SHA3-256(secret || "enc_key")
//	mac_key = SHA3-256(secret || "mac_key")
//
// Keystream (counter-mode hash chain):
//
//	block_i = SHA3-256(enc_key || nonce || BE32(i))
//	stream  = block_0 || block_1 || ... truncated to the plaintext length
//
// Encrypt:
//
//	nonce ← random(16)
//	ct  = plaintext XOR stream
//	mac = HMAC-SHA3-256(mac_key, nonce || ct)
//
// Decrypt verifies the MAC in constant time before any keystream is
// generated; on mismatch no plaintext is ever derived.
//
// CRITICAL: nonce reuse under the same secret reuses the keystream and
// breaks confidentiality. Encrypt draws a fresh random nonce on every call;
// callers constructing Envelopes by hand carry that burden themselves.
package aead

import (
	"encoding/binary"
	"time"

	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
)

// Envelope is the output of one Encrypt call. All fields are required for
// decryption; a single flipped bit in any of them fails authentication.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte // 16 bytes, fresh per encryption
	MAC        []byte // 32 bytes, covers nonce || ciphertext
	Timestamp  int64  // Unix seconds at encryption time
}

// Encrypt seals plaintext under the 32-byte shared secret.
//
// Distinct subkeys are derived for encryption and authentication; the
// shared secret itself is never used directly for either purpose.
func Encrypt(plaintext, secret []byte) (*Envelope, error) {
	if len(secret) != constants.AEADKeySize {
		return nil, qerrors.ErrInvalidKeySize
	}

	encKey, macKey := deriveKeys(secret)

	nonce, err := crypto.SecureRandomBytes(constants.AEADNonceSize)
	if err != nil {
		return nil, qerrors.NewCryptoError("aead.Encrypt", err)
	}

	ciphertext := xorKeystream(encKey, nonce, plaintext)
	mac := crypto.MAC(macKey, nonce, ciphertext)

	crypto.ZeroizeMultiple(encKey, macKey)

	return &Envelope{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		MAC:        mac,
		Timestamp:  time.Now().Unix(),
	}, nil
}

// Decrypt opens an envelope under the 32-byte shared secret.
//
// The MAC is recomputed over nonce || ciphertext and compared in constant
// time. On mismatch Decrypt fails closed with ErrAuthenticationFailed and
// performs no decryption; unauthenticated plaintext is never exposed.
func Decrypt(env *Envelope, secret []byte) ([]byte, error) {
	if len(secret) != constants.AEADKeySize {
		return nil, qerrors.ErrInvalidKeySize
	}
	if env == nil {
		return nil, qerrors.ErrInvalidEnvelope
	}
	if len(env.Nonce) != constants.AEADNonceSize {
		return nil, qerrors.ErrInvalidNonce
	}
	if len(env.MAC) != constants.AEADMACSize {
		return nil, qerrors.ErrInvalidMAC
	}

	encKey, macKey := deriveKeys(secret)
	defer crypto.ZeroizeMultiple(encKey, macKey)

	expected := crypto.MAC(macKey, env.Nonce, env.Ciphertext)
	if !crypto.ConstantTimeCompare(env.MAC, expected) {
		return nil, qerrors.ErrAuthenticationFailed
	}

	return xorKeystream(encKey, env.Nonce, env.Ciphertext), nil
}

// deriveKeys expands the shared secret into independent encryption and
// authentication subkeys.
func deriveKeys(secret []byte) (encKey, macKey []byte) {
	encKey = crypto.Hash256(secret, []byte(constants.DomainTagEncKey))
	macKey = crypto.Hash256(secret, []byte(constants.DomainTagMACKey))
	return encKey, macKey
}

// xorKeystream XORs data against the counter-mode hash chain keyed by
// encKey and nonce. Encryption and decryption are the same operation.
func xorKeystream(encKey, nonce, data []byte) []byte {
	out := make([]byte, len(data))
	var counterBuf [4]byte

	offset := 0
	for counter := uint32(0); offset < len(data); counter++ {
		binary.BigEndian.PutUint32(counterBuf[:], counter)
		block := crypto.Hash256(encKey, nonce, counterBuf[:])

		n := copy(out[offset:], block)
		for i := 0; i < n; i++ {
			out[offset+i] ^= data[offset+i]
		}
		offset += n
	}

	return out
}
