package utils

import (
	"strings"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// Scanned-code prefixes. The wire format is shared with printed QR codes.
const (
	PrefixMaster  = "MASTER:"
	PrefixPremise = "PREMISE:"
	PrefixProfile = "PROFILE:"
	PrefixPass    = "QARIBU:"
)

type ScanKind int

const (
	ScanKindUnknown ScanKind = iota
	ScanKindMasterKey
	ScanKindPremise
	ScanKindProfile
	ScanKindPhoneTail
	ScanKindPassRef
	ScanKindAccessCode
	// QARIBU: prefix with the wrong number of tokens.
	ScanKindMalformedPass
)

func (k ScanKind) String() string {
	switch k {
	case ScanKindMasterKey:
		return "master_key"
	case ScanKindPremise:
		return "premise"
	case ScanKindProfile:
		return "profile"
	case ScanKindPhoneTail:
		return "phone_tail"
	case ScanKindPassRef:
		return "pass_ref"
	case ScanKindAccessCode:
		return "access_code"
	case ScanKindMalformedPass:
		return "malformed_pass"
	default:
		return "unknown"
	}
}

// IsIdentity reports whether the code names a person.
func (k ScanKind) IsIdentity() bool {
	return k == ScanKindProfile || k == ScanKindPhoneTail
}

// IsPass reports whether the code names a visitor pass (well-formed or not).
func (k ScanKind) IsPass() bool {
	return k == ScanKindPassRef || k == ScanKindAccessCode || k == ScanKindMalformedPass
}

// ScanCode is one classified scan. Only the fields of its Kind are set.
type ScanCode struct {
	Kind ScanKind
	Raw  string

	PremiseID  string // PREMISE:
	PersonID   string // PROFILE:
	PhoneTail  string // bare 9-12 digits, last 9 kept
	PassID     string // QARIBU:
	AccessCode string // QARIBU: third token, or bare 6 digits
}

/*
ClassifyScanCode sorts a raw scan into exactly one kind. Prefixes are tested
in a fixed order and the first match wins:

	MASTER:  → setup code, never an access decision
	PREMISE: → premise browse / welcome back
	PROFILE: or 9–12 bare digits → person
	QARIBU:  or 6 bare digits    → pass
	anything else                → unknown

Bare digits are the legacy typed form and are deprecated; pass
allowBareDigits=false to treat them as unknown. The two bare-digit lengths
never overlap, so a numeric code is never ambiguous between person and pass.
*/
func ClassifyScanCode(raw string, allowBareDigits bool) ScanCode {
	code := strings.TrimSpace(raw)
	sc := ScanCode{Raw: code}

	switch {
	case strings.HasPrefix(code, PrefixMaster):
		sc.Kind = ScanKindMasterKey

	case strings.HasPrefix(code, PrefixPremise):
		sc.Kind = ScanKindPremise
		sc.PremiseID = strings.TrimPrefix(code, PrefixPremise)

	case strings.HasPrefix(code, PrefixProfile):
		sc.Kind = ScanKindProfile
		sc.PersonID = strings.TrimPrefix(code, PrefixProfile)

	case allowBareDigits && isDigits(code) && len(code) >= 9 && len(code) <= 12:
		sc.Kind = ScanKindPhoneTail
		sc.PhoneTail = utils.PhoneTail(code)

	case strings.HasPrefix(code, PrefixPass):
		parts := strings.Split(code, ":")
		if len(parts) != 3 {
			sc.Kind = ScanKindMalformedPass
			break
		}
		sc.Kind = ScanKindPassRef
		sc.PassID = parts[1]
		sc.AccessCode = parts[2]

	case allowBareDigits && isDigits(code) && len(code) == 6:
		sc.Kind = ScanKindAccessCode
		sc.AccessCode = code

	default:
		sc.Kind = ScanKindUnknown
	}
	return sc
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
