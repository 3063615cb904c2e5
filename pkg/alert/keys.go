package alert

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// KeyPair holds the signing key in the forms the notifier logs and uses.
type KeyPair struct {
	PrivateKeyHex   string
	PublicKeyHex    string
	PublicKeyBech32 string // npub, logged so operators can follow the feed
}

// DeriveKeyPair accepts a 64-char hex secret key or an nsec.
func DeriveKeyPair(secretKey string) (*KeyPair, error) {
	secretKey = strings.TrimSpace(secretKey)

	var skHex string
	if len(secretKey) == 64 {
		if _, err := hex.DecodeString(secretKey); err != nil {
			return nil, errors.New("secret key is not a valid hex private key")
		}
		skHex = strings.ToLower(secretKey)
	} else {
		prefix, sk, err := nip19.Decode(secretKey)
		if err != nil {
			return nil, fmt.Errorf("secret key is invalid: %w", err)
		}
		if prefix != "nsec" {
			return nil, errors.New("secret key is not an nsec or valid hex")
		}
		switch v := sk.(type) {
		case string:
			skHex = v
		case []byte:
			skHex = hex.EncodeToString(v)
		default:
			return nil, errors.New("secret key is an unexpected nsec payload type")
		}
	}

	pubHex, err := nostr.GetPublicKey(skHex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}
	npub, err := nip19.EncodePublicKey(pubHex)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &KeyPair{
		PrivateKeyHex:   skHex,
		PublicKeyHex:    pubHex,
		PublicKeyBech32: npub,
	}, nil
}
