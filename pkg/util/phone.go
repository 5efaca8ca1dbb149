package util

import "strings"

const kenyaCountryCode = "254"

// NormalizePhone rewrites a Kenyan mobile number into the 254XXXXXXXXX form
// the payment service expects. Numbers it does not recognise are returned
// trimmed but otherwise untouched; dialability is not checked here.
func NormalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(phone, "07"):
		return kenyaCountryCode + phone[1:]
	case strings.HasPrefix(phone, "+"+kenyaCountryCode):
		return phone[1:]
	default:
		return phone
	}
}
