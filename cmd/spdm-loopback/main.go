// spdm-loopback drives a requester and a responder against each other
// in a single process, using the reference P-256/SHA-256 crypto
// provider and a freshly generated one-level certificate chain. It
// exists to demonstrate the engine end to end without any real
// transport or provisioned hardware keys.
//
// Usage:
//
//	spdm-loopback [options]
//
// Options:
//
//	-signed   request a signed MEASUREMENTS response (default: true)
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/requester"
	"github.com/spdm-embedded/spdm-go/pkg/responder"
	"github.com/spdm-embedded/spdm-go/pkg/slot"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/spdm/message"
	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto/reference"
)

// Options holds the loopback demo's CLI flags.
type Options struct {
	Signed bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{Signed: true}
}

// ParseFlags parses the demo's CLI flags and returns Options.
func ParseFlags() Options {
	defaults := DefaultOptions()
	o := Options{}
	flag.BoolVar(&o.Signed, "signed", defaults.Signed, "request a signed MEASUREMENTS response")
	flag.Parse()
	return o
}

func main() {
	opts := ParseFlags()

	if err := run(opts); err != nil {
		log.Fatalf("loopback failed: %v", err)
	}
}

func run(opts Options) error {
	var cfg config.Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	root, leaf, chain, err := generateChain()
	if err != nil {
		return fmt.Errorf("generate chain: %w", err)
	}

	slots := slot.New(&cfg)
	if err := slots.Fill(0, chain, config.HashSHA256, config.AsymECDSA_P256); err != nil {
		return fmt.Errorf("provision slot: %w", err)
	}

	versions := []spdm.Version{{Major: 1, Minor: 0}}

	reqDeps := requester.Deps{
		Digest:        reference.SHA256{},
		Verifier:      reference.P256Verifier{},
		Random:        reference.Random{},
		RootPublicKey: root.PublicKey(),
	}
	respDeps := responder.Deps{
		Digest: reference.SHA256{},
		Signer: reference.P256Signer{KeyPair: leaf},
		Random: reference.Random{},
	}

	init := requester.NewInit(&cfg, versions, reqDeps)
	resp := responder.New(&cfg, versions, slots, respDeps)

	reqBuf := make([]byte, 8192)
	respBuf := make([]byte, 8192)

	var sess *requester.Session
	for sess == nil {
		reqBytes, err := init.NextRequest(reqBuf)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		respBytes, err := resp.HandleMessage(reqBytes, respBuf)
		if err != nil {
			return fmt.Errorf("responder: %w", err)
		}
		s, done, err := init.HandleMessage(respBytes)
		if err != nil {
			return fmt.Errorf("requester: %w", err)
		}
		log.Printf("completed phase, responder now at %s", resp.Phase())
		if done {
			sess = s
		}
	}
	log.Printf("handshake complete, negotiated session established")

	attrs := uint8(0)
	if opts.Signed {
		attrs = message.RequestSignature
	}
	reqBytes, err := sess.MeasurementRequest(reqBuf, attrs, 0)
	if err != nil {
		return fmt.Errorf("build measurement request: %w", err)
	}
	respBytes, err := resp.HandleMessage(reqBytes, respBuf)
	if err != nil {
		return fmt.Errorf("responder measurements: %w", err)
	}
	measResp, err := sess.HandleMeasurements(respBytes)
	if err != nil {
		return fmt.Errorf("verify measurements: %w", err)
	}
	log.Printf("measurement response verified: %d block(s), signed=%v", measResp.NumberOfBlocks, len(measResp.Signature) > 0)
	return nil
}

func generateChain() (root, leaf *reference.P256KeyPair, chain []byte, err error) {
	root, err = reference.GenerateP256KeyPair()
	if err != nil {
		return nil, nil, nil, err
	}
	leaf, err = reference.GenerateP256KeyPair()
	if err != nil {
		return nil, nil, nil, err
	}

	digest := reference.SHA256{}
	state := digest.New()
	leafPub := leaf.PublicKey()
	if _, err := state.Write(leafPub); err != nil {
		return nil, nil, nil, err
	}
	sum := state.Sum(nil)

	signer := reference.P256Signer{KeyPair: root}
	sig, err := signer.Sign(sum, make([]byte, reference.P256SignatureSizeBytes))
	if err != nil {
		return nil, nil, nil, err
	}

	chain = append(append([]byte{}, leafPub...), sig...)
	return root, leaf, chain, nil
}
