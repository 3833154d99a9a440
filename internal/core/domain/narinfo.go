package domain

import "strings"

// Signature is a single narinfo "Sig:" entry: a named key and a base64 signature.
type Signature struct {
	KeyName string
	SigB64  string
}

// String renders the signature back into its wire form, "<key_name>:<sig_b64>".
func (s Signature) String() string {
	return s.KeyName + ":" + s.SigB64
}

// Narinfo is the parsed metadata describing a single package, as fetched from
// "<cache_url>/<hash>.narinfo".
type Narinfo struct {
	StorePath   string
	URL         string
	Compression string
	NarHash     string // "sha256:<nix32>"
	NarSize     uint64
	FileHash    string // "sha256:<nix32>", optional (empty if absent)
	FileSize    uint64 // optional, 0 if absent
	Deriver     string
	System      string
	References  []string
	Signatures  []Signature
}

// IsCompressed reports whether the archive body is xz-compressed.
func (n *Narinfo) IsCompressed() bool {
	return n.Compression == "xz"
}

// NarHashDigest returns the nix32 digest portion of NarHash (after "sha256:").
func (n *Narinfo) NarHashDigest() string {
	return strings.TrimPrefix(n.NarHash, "sha256:")
}

// FileHashDigest returns the nix32 digest portion of FileHash, or "" if absent.
func (n *Narinfo) FileHashDigest() string {
	if n.FileHash == "" {
		return ""
	}
	return strings.TrimPrefix(n.FileHash, "sha256:")
}

// HasFileHash reports whether the narinfo carries a compressed-file digest.
func (n *Narinfo) HasFileHash() bool {
	return n.FileHash != ""
}

// StoreDir returns everything before the final "/" of StorePath, i.e. the
// store directory the package id lives in (e.g. "/nix/store").
func (n *Narinfo) StoreDir() string {
	idx := strings.LastIndex(n.StorePath, "/")
	if idx < 0 {
		return ""
	}
	return n.StorePath[:idx]
}

// PackageID returns everything after the final "/" of StorePath.
func (n *Narinfo) PackageID() string {
	idx := strings.LastIndex(n.StorePath, "/")
	return n.StorePath[idx+1:]
}

// HashFromPackageID splits a package id "<hash>-<name>" and returns the hash prefix.
func HashFromPackageID(packageID string) (string, error) {
	idx := strings.Index(packageID, "-")
	if idx <= 0 {
		return "", ErrPackageIDMalformed
	}
	return packageID[:idx], nil
}
