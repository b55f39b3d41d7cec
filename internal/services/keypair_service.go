package services

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"io"
)

// KeyPair is opaque key material for one identity.
type KeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

type KeyPairProvider interface {
	GenerateKeyPair(ctx context.Context) (KeyPair, error)
}

// Ed25519KeyPairProvider generates Ed25519 signing keys.
type Ed25519KeyPairProvider struct {
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
}

func NewEd25519KeyPairProvider() *Ed25519KeyPairProvider {
	return &Ed25519KeyPairProvider{Rand: rand.Reader}
}

// GenerateKeyPair runs the generation on its own goroutine so a canceled ctx
// returns early. The generation itself cannot be interrupted.
func (p *Ed25519KeyPairProvider) GenerateKeyPair(ctx context.Context) (KeyPair, error) {
	type result struct {
		kp  KeyPair
		err error
	}
	src := p.Rand
	if src == nil {
		src = rand.Reader
	}

	out := make(chan result, 1)
	go func() {
		pub, priv, err := ed25519.GenerateKey(src)
		out <- result{kp: KeyPair{PublicKey: pub, PrivateKey: priv}, err: err}
	}()

	select {
	case r := <-out:
		return r.kp, r.err
	case <-ctx.Done():
		return KeyPair{}, ctx.Err()
	}
}
