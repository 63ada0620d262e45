package security

import (
	"strings"
	"time"

	"parcel-track-api-server/internal/models"
)

// Reasons reported by the suspicious-activity heuristic.
const (
	ReasonFailedAttempts    = "Multiple failed login attempts"
	ReasonMultipleLocations = "Logins from multiple locations"
	ReasonMultipleDevices   = "Logins from multiple devices"
)

// recentWindow is how many of the newest sessions the heuristic inspects.
const recentWindow = 10

type Assessment struct {
	Suspicious bool     `json:"suspicious"`
	Reasons    []string `json:"reasons"`
}

// Evaluate runs the suspicious-activity heuristic over sessions ordered
// newest first. The three checks are independent; reasons are collected,
// not short-circuited.
func Evaluate(sessions []models.LoginSession) Assessment {
	recent := sessions
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}

	a := Assessment{Reasons: []string{}}

	failed := 0
	locations := map[string]struct{}{}
	devices := map[string]struct{}{}
	for _, s := range recent {
		if !s.Success {
			failed++
			continue
		}
		if s.Location != "" {
			locations[s.Location] = struct{}{}
		}
		if s.DeviceType != "" {
			devices[s.DeviceType] = struct{}{}
		}
	}

	if failed >= 3 {
		a.Reasons = append(a.Reasons, ReasonFailedAttempts)
		a.Suspicious = true
	}
	if len(locations) > 3 {
		a.Reasons = append(a.Reasons, ReasonMultipleLocations)
		a.Suspicious = true
	}
	if len(devices) > 2 {
		a.Reasons = append(a.Reasons, ReasonMultipleDevices)
		a.Suspicious = true
	}

	return a
}

// Report aggregates a user's login history for the security screen.
type Report struct {
	TotalLogins        int        `json:"totalLogins"`
	SuccessfulLogins   int        `json:"successfulLogins"`
	FailedLogins       int        `json:"failedLogins"`
	UniqueDevices      int        `json:"uniqueDevices"`
	UniqueLocations    int        `json:"uniqueLocations"`
	LastLogin          *time.Time `json:"lastLogin"`
	SuspiciousActivity bool       `json:"suspiciousActivity"`
}

// BuildReport computes the report from history ordered newest first.
func BuildReport(history []models.LoginSession) Report {
	r := Report{TotalLogins: len(history)}

	devices := map[string]struct{}{}
	locations := map[string]struct{}{}
	for _, s := range history {
		if s.Success {
			r.SuccessfulLogins++
		} else {
			r.FailedLogins++
		}
		if s.DeviceType != "" {
			devices[s.DeviceType] = struct{}{}
		}
		if s.Location != "" {
			locations[s.Location] = struct{}{}
		}
	}
	r.UniqueDevices = len(devices)
	r.UniqueLocations = len(locations)

	if len(history) > 0 {
		ts := history[0].Timestamp
		r.LastLogin = &ts
	}
	r.SuspiciousActivity = Evaluate(history).Suspicious
	return r
}

// DeviceTypeFromUserAgent buckets a User-Agent string into a coarse device
// class for the audit record.
func DeviceTypeFromUserAgent(userAgent string) string {
	switch {
	case userAgent == "":
		return "Unknown"
	case strings.Contains(userAgent, "Mobile"):
		return "Mobile"
	case strings.Contains(userAgent, "Tablet"):
		return "Tablet"
	case strings.Contains(userAgent, "Windows"):
		return "Desktop (Windows)"
	case strings.Contains(userAgent, "Mac"):
		return "Desktop (Mac)"
	case strings.Contains(userAgent, "Linux"):
		return "Desktop (Linux)"
	default:
		return "Unknown"
	}
}

// LocationFromIP derives a coarse location for the audit record. A real
// deployment would call a geolocation service here.
func LocationFromIP(ipAddress string) string {
	if ipAddress == "" {
		return ""
	}
	return "Unknown Location"
}
