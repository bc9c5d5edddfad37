package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	twilio "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
)

// PhoneTailLength is how many trailing digits identify a phone number when
// a code is typed without its country prefix.
const PhoneTailLength = 9

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

// IsE164 reports basic E.164 compliance.
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// DigitsOnly strips everything that is not 0-9.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneTail returns the last PhoneTailLength digits of number, or all of its
// digits when it is shorter.
func PhoneTail(number string) string {
	d := DigitsOnly(number)
	if len(d) <= PhoneTailLength {
		return d
	}
	return d[len(d)-PhoneTailLength:]
}

// ValidatePhoneNumber checks E.164 syntax and, when a Twilio client is
// supplied, asks Lookups v2 whether the number exists.
func ValidatePhoneNumber(ctx context.Context, number string, tw *twilio.RestClient) (bool, error) {
	if !IsE164(number) {
		return false, nil
	}
	if tw == nil {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := tw.LookupsV2.FetchPhoneNumber(number, nil)
	if err == nil {
		return true, nil
	}
	if restErr, ok := err.(*twilioclient.TwilioRestError); ok {
		if restErr.Status == 404 {
			return false, nil
		}
		return false, fmt.Errorf("twilio lookup failed: %d %s: %w",
			restErr.Status, restErr.Error(), ErrExternalServiceFailure)
	}
	return false, err
}
