package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Query parameter names understood in the launch URL.
const (
	ParamParentDomain = "parentDomain"
	ParamEmbedded     = "embed"
	ParamGetSdkConfig = "getSdkConfig"
)

// LaunchParams describes how the app was opened.
type LaunchParams struct {
	// ParentOrigin is the host page origin, e.g. https://host.example.
	ParentOrigin string
	// Embedded marks a transient session inside a host frame.
	Embedded bool
	// RequestHostConfig asks the host for a config payload during bootstrap.
	RequestHostConfig bool
}

// ParseLaunchParams extracts the embedding parameters from rawURL. Flags count
// as set when present, whatever their value. An empty rawURL yields zero params.
func ParseLaunchParams(rawURL string) (LaunchParams, error) {
	var p LaunchParams
	if strings.TrimSpace(rawURL) == "" {
		return p, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return p, fmt.Errorf("parse launch url: %w", err)
	}
	q := u.Query()

	p.Embedded = q.Has(ParamEmbedded)
	p.RequestHostConfig = q.Has(ParamGetSdkConfig)

	if raw := q.Get(ParamParentDomain); raw != "" {
		origin, err := normalizeOrigin(raw)
		if err != nil {
			return p, err
		}
		p.ParentOrigin = origin
	}
	return p, nil
}

// normalizeOrigin decodes a (possibly double-encoded) origin and strips any
// path, query or fragment.
func normalizeOrigin(raw string) (string, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", ParamParentDomain, err)
	}
	u, err := url.Parse(decoded)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", ParamParentDomain, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%s must be an absolute origin, got %q", ParamParentDomain, decoded)
	}
	return u.Scheme + "://" + u.Host, nil
}
