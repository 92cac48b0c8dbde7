package spdm

import "github.com/spdm-embedded/spdm-go/pkg/config"

// AlgorithmSelection holds the outcome of algorithm negotiation: one
// asymmetric-signing algorithm and one base-hash algorithm. AEAD and
// key-exchange group selection belong to the Session phase and are
// not part of this struct.
type AlgorithmSelection struct {
	Asym config.AsymAlgorithm
	Hash config.HashAlgorithm
}

// NegotiateAsym picks the highest-priority entry in local that also
// appears in peer. Priority is local's ordering, highest first.
func NegotiateAsym(local, peer []config.AsymAlgorithm) (config.AsymAlgorithm, error) {
	for _, l := range local {
		for _, p := range peer {
			if l == p {
				return l, nil
			}
		}
	}
	return 0, ErrAlgorithmMismatch
}

// NegotiateHash picks the highest-priority entry in local that also
// appears in peer, under the same rule as NegotiateAsym.
func NegotiateHash(local, peer []config.HashAlgorithm) (config.HashAlgorithm, error) {
	for _, l := range local {
		for _, p := range peer {
			if l == p {
				return l, nil
			}
		}
	}
	return 0, ErrAlgorithmMismatch
}

// Negotiate combines NegotiateAsym and NegotiateHash against a local
// Config and a peer's advertised preference lists.
func Negotiate(cfg *config.Config, peerAsym []config.AsymAlgorithm, peerHash []config.HashAlgorithm) (AlgorithmSelection, error) {
	asym, err := NegotiateAsym(cfg.AsymmetricSigning, peerAsym)
	if err != nil {
		return AlgorithmSelection{}, err
	}
	hash, err := NegotiateHash(cfg.Hash, peerHash)
	if err != nil {
		return AlgorithmSelection{}, err
	}
	return AlgorithmSelection{Asym: asym, Hash: hash}, nil
}
