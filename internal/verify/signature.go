// Package verify checks minisign signatures published next to kernel images.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedisct1/go-minisign"

	"github.com/3leaps/kfetch/internal/model"
)

// SignatureExt is appended to an asset name to form its signature asset name.
const SignatureExt = ".minisig"

// ErrSignatureMissing indicates the release carries no signature for the asset.
var ErrSignatureMissing = errors.New("signature not found")

// FindSignature returns the minisign signature asset for assetName in rel.
func FindSignature(rel model.Release, assetName string) (*model.Asset, error) {
	sig := rel.FindAsset(assetName + SignatureExt)
	if sig == nil {
		return nil, fmt.Errorf("%w: release %s has no %s%s", ErrSignatureMissing, rel.Name, assetName, SignatureExt)
	}
	return sig, nil
}

// VerifyMinisign checks content against the encoded .minisig data using the
// public key stored at pubKeyPath.
func VerifyMinisign(content, signature []byte, pubKeyPath string) error {
	pubKey, err := minisign.NewPublicKeyFromFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read minisign pubkey: %w", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(string(signature)), "untrusted comment:") {
		return fmt.Errorf("minisign: unsupported signature format")
	}
	sig, err := minisign.DecodeSignature(string(signature))
	if err != nil {
		return fmt.Errorf("read minisign signature: %w", err)
	}

	valid, err := pubKey.Verify(content, sig)
	if err != nil {
		return fmt.Errorf("minisign: verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("minisign: signature verification failed")
	}
	return nil
}
