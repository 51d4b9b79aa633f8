package signaling

import "crypto/rand"

// idAlphabet is the 64-character set 0-9 a-z A-Z _ -.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_-"

// clientIDRandomBytes is the number of random bytes drawn per client
// session id (~510 bits of entropy at 6 bits/char).
const clientIDRandomBytes = 85

// generateClientID draws clientIDRandomBytes from a cryptographic RNG and
// maps each byte mod 64 onto idAlphabet, prefixed with "id-". The result
// is reused across reconnects for the transport's lifetime (§4.3
// Identity).
func generateClientID() (string, error) {
	buf := make([]byte, clientIDRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, 0, len("id-")+clientIDRandomBytes)
	out = append(out, "id-"...)
	for _, b := range buf {
		out = append(out, idAlphabet[int(b)%64])
	}
	return string(out), nil
}
