package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedSpecVersions is the range of node JSON-RPC versions the records in rpc decode.
const SupportedSpecVersions = ">=0.8.0, <0.9.0"

var ErrIncompatibleVersion = errors.New("incompatible node spec version")

// CheckCompatibility asks the node for its spec version and matches it against constraint,
// SupportedSpecVersions when empty. Pre-release suffixes are ignored.
func CheckCompatibility(ctx context.Context, p Provider, constraint string) (string, error) {
	if constraint == "" {
		constraint = SupportedSpecVersions
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return "", fmt.Errorf("parse version constraint %q: %w", constraint, err)
	}

	reported, err := p.SpecVersion(ctx)
	if err != nil {
		return "", err
	}
	v, err := semver.NewVersion(reported)
	if err != nil {
		return reported, fmt.Errorf("%w: cannot parse %q: %v", ErrIncompatibleVersion, reported, err)
	}
	release, err := v.SetPrerelease("")
	if err != nil {
		return reported, err
	}
	if !c.Check(&release) {
		return reported, fmt.Errorf("%w: node reports %s, want %s", ErrIncompatibleVersion, reported, constraint)
	}
	return reported, nil
}
