package acquisition

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const promptTemplate = `Perform a forensic leak analysis for the identity associated with email: %s.%s
Return a structured JSON report including:
1. A security score (0-100, where higher is more exposed).
2. Total compromised records found.
3. Risk intensity level, one of "High Lume", "Moderate" or "Low".
4. At least 3 detailed forensic incident logs with unique ids, realistic titles, descriptions, dates, times, a severity of "high", "mid" or "low", tags, and metadata (source origin, vector type, data format, leak domain, threat actor, validity).
5. A risk mitigation summary explaining the findings.
6. Digital exposure map percentage.

Be creative but professional, using cybersecurity terminology.`

// BuildPrompt composes the instruction sent to the report source.
func BuildPrompt(email string) string {
	hint := ""
	if d := ProviderDomain(email); d != "" {
		hint = fmt.Sprintf("\nThe mailbox is hosted under the registrable domain %s.", d)
	}
	return fmt.Sprintf(promptTemplate, email, hint)
}

// ProviderDomain returns the registrable domain (eTLD+1) of the email's
// host part, or "" when the address has no usable host.
func ProviderDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	host := strings.ToLower(strings.TrimSuffix(email[at+1:], "."))
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
