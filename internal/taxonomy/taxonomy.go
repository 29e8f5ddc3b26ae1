// Package taxonomy holds the fixed vulnerability category list used both as the
// classification vocabulary and as the vault's directory names.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsafeLabel is returned when a label cannot be used as a single directory segment.
var ErrUnsafeLabel = errors.New("label is not a safe directory name")

// Categories is the ordered closed list sent to the model.
var Categories = []string{
	"SQLinjection",
	"OSCommandInjection",
	"PathTraversal",
	"CrossSiteScripting",
	"OpenRedirect",
	"HTTPHeaderInjection",
	"MailHeaderInjection",
	"LDAPInjection",
	"XPathInjection",
	"XXE",
	"SSIInjection",
	"XMLRPC",
	"CRLFInjection",
	"ParameterPollution",
	"SessionFixation",
	"CookieInjection",
	"CrossSiteRequestForgery",
	"Clickjacking",
	"InsecureDirectObjectReferences",
	"InsecureCryptographicStorage",
	"InsufficientTransportLayerProtection",
	"UnvalidatedRedirectsAndForwards",
	"MissingFunctionLevelAccessControl",
	"UsingComponentsWithKnownVulnerabilities",
	"SensitiveDataExposure",
	"SecurityMisconfiguration",
	"InsecureDeserialization",
	"InsufficientLoggingAndMonitoring",
	"UnrestrictedFileUpload",
	"BruteForce",
	"DenialOfService",
	"Other",
}

// Label policies control what the driver does with a label after classification.
const (
	PolicyLiteral   = "literal"   // use the model's text as-is
	PolicyCanonical = "canonical" // snap fuzzy matches to the known spelling
	PolicyKnown     = "known"     // reject labels outside Categories
)

// ValidPolicies lists the accepted label policies.
var ValidPolicies = []string{PolicyLiteral, PolicyCanonical, PolicyKnown}

var foldIndex = func() map[string]string {
	idx := make(map[string]string, len(Categories))
	for _, c := range Categories {
		idx[fold(c)] = c
	}
	return idx
}()

// fold lowercases and drops spaces, dashes and underscores.
func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '_', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Known reports whether label is exactly one of Categories.
func Known(label string) bool {
	for _, c := range Categories {
		if c == label {
			return true
		}
	}
	return false
}

// Canonical returns the known spelling for label when it matches a category
// ignoring case, spaces, dashes and underscores.
func Canonical(label string) (string, bool) {
	c, ok := foldIndex[fold(label)]
	return c, ok
}

// CheckPathSafe rejects labels that would not stay a single directory below the vault root.
func CheckPathSafe(label string) error {
	switch {
	case label == "":
		return fmt.Errorf("%w: empty", ErrUnsafeLabel)
	case label == "." || label == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeLabel, label)
	case strings.ContainsAny(label, "/\\"):
		return fmt.Errorf("%w: %q contains a path separator", ErrUnsafeLabel, label)
	case strings.ContainsAny(label, "\x00\r\n"):
		return fmt.Errorf("%w: %q contains a control character", ErrUnsafeLabel, label)
	}
	return nil
}

// Resolve applies policy to a raw label and checks that the result is path safe.
func Resolve(label, policy string) (string, error) {
	resolved := label
	switch policy {
	case PolicyLiteral, "":
	case PolicyCanonical:
		if c, ok := Canonical(label); ok {
			resolved = c
		}
	case PolicyKnown:
		c, ok := Canonical(label)
		if !ok {
			return "", fmt.Errorf("label %q is not a known category", label)
		}
		resolved = c
	default:
		return "", fmt.Errorf("unknown label policy %q", policy)
	}
	if err := CheckPathSafe(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}
