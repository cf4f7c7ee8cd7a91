package client

import "strings"

// DefaultCountryCode is prefixed to WhatsApp numbers that lack one (Brazil).
const DefaultCountryCode = "55"

var interestLabels = map[int]string{
	1: "Baixo interesse",
	2: "Interesse limitado",
	3: "Interesse moderado",
	4: "Alto interesse",
	5: "Interesse máximo",
}

// InterestLabel describes an interest level. Unrated levels return "".
func InterestLabel(level int) string {
	return interestLabels[level]
}

// WhatsAppURL builds a wa.me link from a free-form phone number.
// Non-digits are dropped and countryCode is prefixed unless already present.
// Returns "" when the number has no digits.
func WhatsAppURL(number, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return "https://wa.me/" + digits
}
