package stub

import (
	"context"
	"encoding/json"

	"leakwatch/internal/domain"
)

// Source is a deterministic ReportSource. It ignores the prompt and always
// returns the same schema-conforming document.
type Source struct{}

func New() *Source { return &Source{} }

func (Source) Generate(ctx context.Context, _ string, _ *domain.Schema) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(Report())
}

// Report is the document Source serves.
func Report() *domain.LeakAnalysisReport {
	return &domain.LeakAnalysisReport{
		Score:                 64,
		CompromisedRecords:    312,
		Intensity:             domain.IntensityModerate,
		ExposureMapPercentage: 41,
		MitigationSummary:     "Three historical dumps reference this identity. Rotate reused credentials and enable hardware-backed MFA on the primary mailbox.",
		Incidents: []domain.BreachIncident{
			{
				ID:          "BR-1001",
				Title:       "Forum Database Dump",
				Description: "Usernames and unsalted MD5 hashes posted to a paste site.",
				Date:        "FEB 03, 2022",
				Time:        "08:41:55 UTC",
				Severity:    domain.SeverityHigh,
				Tags:        []string{"Passwords", "Usernames"},
				Metadata: domain.BreachIncidentMetadata{
					SourceOrigin: "paste-mirror-7",
					VectorType:   "SQL_INJECTION",
					DataFormat:   "MD5",
					LeakDomain:   "forum.example.net",
					ThreatActor:  "DUMPSTER_CREW",
					Validity:     "92% VERIFIED",
				},
			},
			{
				ID:          "BR-1002",
				Title:       "Marketing CRM Export",
				Description: "Contact list with names and phone numbers left in a public bucket.",
				Date:        "JUL 19, 2023",
				Time:        "17:02:10 UTC",
				Severity:    domain.SeverityMid,
				Tags:        []string{"PII", "Phone Numbers"},
				Metadata: domain.BreachIncidentMetadata{
					SourceOrigin: "s3://crm-exports-public",
					VectorType:   "MISCONFIGURED_STORAGE",
					DataFormat:   "CSV",
					LeakDomain:   "crm.example.com",
					ThreatActor:  "OPPORTUNISTIC_SCRAPER",
					Validity:     "75% VERIFIED",
				},
			},
			{
				ID:          "BR-1003",
				Title:       "Newsletter Signup Scrape",
				Description: "Email address harvested from a defunct newsletter provider.",
				Date:        "JAN 27, 2024",
				Time:        "11:15:00 UTC",
				Severity:    domain.SeverityLow,
				Tags:        []string{"Email"},
				Metadata: domain.BreachIncidentMetadata{
					SourceOrigin: "combo-list-2024",
					VectorType:   "SCRAPING",
					DataFormat:   "TXT",
					LeakDomain:   "news.example.org",
					ThreatActor:  "UNATTRIBUTED",
					Validity:     "40% VERIFIED",
				},
			},
		},
	}
}
