package model

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// APIVersionKind discriminates the APIVersion union.
type APIVersionKind int

const (
	// APIAuto negotiates the dialect with the server.
	APIAuto APIVersionKind = iota
	// APIHTML skips JSON entirely and scrapes the journal page.
	APIHTML
	// APIConcrete speaks exactly one JSON dialect.
	APIConcrete
)

// APIVersion is the hledger-web API dialect a profile talks:
// Auto, HTML, or a concrete Major.Minor.Patch version.
type APIVersion struct {
	Kind  APIVersionKind
	Major int
	Minor int
	Patch int
}

var (
	Auto = APIVersion{Kind: APIAuto}
	HTML = APIVersion{Kind: APIHTML}
)

// V returns a concrete API version.
func V(major, minor, patch int) APIVersion {
	return APIVersion{Kind: APIConcrete, Major: major, Minor: minor, Patch: patch}
}

// IsConcrete reports whether v names a single JSON dialect.
func (v APIVersion) IsConcrete() bool {
	return v.Kind == APIConcrete
}

// Compare orders concrete versions numerically. Non-concrete versions sort
// before every concrete one.
func (v APIVersion) Compare(o APIVersion) int {
	if c := cmp.Compare(v.Kind, o.Kind); c != 0 || v.Kind != APIConcrete {
		return c
	}
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

func (v APIVersion) String() string {
	switch v.Kind {
	case APIAuto:
		return "auto"
	case APIHTML:
		return "html"
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseAPIVersion parses "auto", "html" or a dotted version such as "1.32"
// or "1.19.1". The empty string means auto.
func ParseAPIVersion(s string) (APIVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "html":
		return HTML, nil
	}
	nums, err := parseDotted(s)
	if err != nil {
		return APIVersion{}, fmt.Errorf("invalid api version %q: %w", s, err)
	}
	return V(nums[0], nums[1], nums[2]), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v APIVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *APIVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseAPIVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// parseDotted parses "M.m" or "M.m.p" into three numbers.
func parseDotted(s string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return out, fmt.Errorf("expected major.minor[.patch]")
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, fmt.Errorf("bad component %q", p)
		}
		out[i] = n
	}
	return out, nil
}

// ServerVersion is the hledger-web version reported by a server.
// Legacy marks servers too old to have a version endpoint.
type ServerVersion struct {
	Major  int
	Minor  int
	Patch  int
	Legacy bool
}

// LegacyServer is the version assumed for servers without a version endpoint.
var LegacyServer = ServerVersion{Legacy: true}

func (s ServerVersion) String() string {
	if s.Legacy {
		return "pre-1.19"
	}
	if s.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	}
	return fmt.Sprintf("%d.%d", s.Major, s.Minor)
}

// ParseServerVersion parses the String form back.
func ParseServerVersion(s string) (ServerVersion, error) {
	s = strings.TrimSpace(s)
	if s == "pre-1.19" {
		return LegacyServer, nil
	}
	nums, err := parseDotted(s)
	if err != nil {
		return ServerVersion{}, fmt.Errorf("invalid server version %q: %w", s, err)
	}
	return ServerVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s ServerVersion) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ServerVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseServerVersion(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
