package chaincode

import (
	"regexp"
	"strings"
)

const (
	// DefaultName is used until a workspace name has been derived.
	DefaultName = "asset"
	// DefaultVersion is the chaincode version deployed to the debug network.
	DefaultVersion = "v1"
	// ExternalSuffix marks chaincode that runs as a service outside the peer.
	ExternalSuffix = "-caas"
)

var nonWord = regexp.MustCompile(`\W+`)

// Identity describes the chaincode deployed to the local network.
type Identity struct {
	BaseName  string `yaml:"baseName"`
	Version   string `yaml:"version"`
	PackageID string `yaml:"packageId"`
	External  bool   `yaml:"external"`
}

// NewIdentity returns the identity used before any workspace name is known.
func NewIdentity(version string, external bool) Identity {
	if version == "" {
		version = DefaultVersion
	}
	id := Identity{
		BaseName: DefaultName,
		Version:  version,
		External: external,
	}
	id.PackageID = DefaultPackageID(id)
	return id
}

// SanitizeName turns a workspace display name into a chaincode name. Runs of
// non-word characters collapse into a single hyphen and hyphens at either end
// are dropped.
func SanitizeName(name string) string {
	return strings.Trim(nonWord.ReplaceAllString(name, "-"), "-")
}

// EffectiveID is the chaincode id used for deployment.
func EffectiveID(id Identity) string {
	if id.External {
		return id.BaseName + ExternalSuffix
	}
	return id.BaseName
}

// DefaultPackageID is the package id used when the peer builds the chaincode
// itself.
func DefaultPackageID(id Identity) string {
	return EffectiveID(id) + ":" + id.Version
}

// ParsePackageOutput extracts the package id printed by the packaging script.
// Only the first newline is removed; any other whitespace is kept as printed.
func ParsePackageOutput(stdout string) string {
	return strings.Replace(stdout, "\n", "", 1)
}
