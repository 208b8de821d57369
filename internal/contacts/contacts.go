// Package contacts is the static lookup table of Qatari authorities and
// support channels relevant to each case type.
package contacts

import (
	"fmt"
	"strings"

	"github.com/qanoon-app/qanoon/internal/schema"
)

type Contact struct {
	Name   string
	NameAr string
	Phone  string
	Email  string
	Notes  string
}

var cybercrime = []Contact{
	{
		Name:   "Ministry of Interior - Cyber Crime Combat Department",
		NameAr: "وزارة الداخلية - إدارة مكافحة الجرائم الإلكترونية",
		Phone:  "+974 2347 444",
		Email:  "cccc@moi.gov.qa",
		Notes:  "Primary channel for cybercrime complaints; reports can also be filed through the Metrash2 app.",
	},
	{
		Name:   "Qatar National Cyber Security Agency (NCSA)",
		NameAr: "الوكالة الوطنية للأمن السيبراني",
		Phone:  "+974 1616 6666",
		Email:  "info@ncsa.gov.qa",
		Notes:  "Report ongoing phishing campaigns and compromised accounts.",
	},
}

var general = []Contact{
	{
		Name:   "Ministry of Justice - Legal Aid",
		NameAr: "وزارة العدل - المساعدة القانونية",
		Phone:  "+974 4484 2222",
		Email:  "info@moj.gov.qa",
		Notes:  "General legal guidance and referral to licensed lawyers.",
	},
	{
		Name:   "Qatar Police (non-emergency)",
		NameAr: "الشرطة القطرية",
		Phone:  "999",
		Notes:  "Urgent matters or threats to personal safety.",
	},
}

// For returns the contacts relevant to a case type, most specific first.
func For(ct schema.CaseType) []Contact {
	switch ct {
	case schema.CasePhishingSMS, schema.CasePhishingEmail, schema.CaseOnlineFraud,
		schema.CaseAccountHack, schema.CaseOnlineHarassment:
		return append(append([]Contact{}, cybercrime...), general...)
	default:
		return append([]Contact{}, general...)
	}
}

// FormatList renders contacts as a plain-text block for chat replies and
// reports.
func FormatList(cs []Contact, language string) string {
	var b strings.Builder
	for _, c := range cs {
		name := c.Name
		if language == "ar" && c.NameAr != "" {
			name = c.NameAr
		}
		fmt.Fprintf(&b, "- %s", name)
		if c.Phone != "" {
			fmt.Fprintf(&b, " | %s", c.Phone)
		}
		if c.Email != "" {
			fmt.Fprintf(&b, " | %s", c.Email)
		}
		if c.Notes != "" {
			fmt.Fprintf(&b, "\n  %s", c.Notes)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
