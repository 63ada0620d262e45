package security

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parcel-track-api-server/internal/models"
)

func sessionAt(i int, success bool, location, device string) models.LoginSession {
	return models.LoginSession{
		UserID:     "u1",
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
		Success:    success,
		Location:   location,
		DeviceType: device,
	}
}

func TestEvaluate_failedAttempts(t *testing.T) {
	var sessions []models.LoginSession
	for i := 0; i < 3; i++ {
		sessions = append(sessions, sessionAt(i, false, "", ""))
	}
	for i := 3; i < 10; i++ {
		sessions = append(sessions, sessionAt(i, true, "Berlin", "Mobile"))
	}

	a := Evaluate(sessions)
	require.True(t, a.Suspicious)
	require.Equal(t, []string{ReasonFailedAttempts}, a.Reasons)
}

func TestEvaluate_multipleLocations(t *testing.T) {
	var sessions []models.LoginSession
	for i := 0; i < 10; i++ {
		sessions = append(sessions, sessionAt(i, true, fmt.Sprintf("City-%d", i%4), "Mobile"))
	}

	a := Evaluate(sessions)
	require.True(t, a.Suspicious)
	require.Equal(t, []string{ReasonMultipleLocations}, a.Reasons)
}

func TestEvaluate_multipleDevices(t *testing.T) {
	devices := []string{"Mobile", "Tablet", "Desktop (Linux)"}
	var sessions []models.LoginSession
	for i := 0; i < 9; i++ {
		sessions = append(sessions, sessionAt(i, true, "Berlin", devices[i%3]))
	}

	a := Evaluate(sessions)
	require.True(t, a.Suspicious)
	require.Equal(t, []string{ReasonMultipleDevices}, a.Reasons)
}

func TestEvaluate_clean(t *testing.T) {
	var sessions []models.LoginSession
	for i := 0; i < 10; i++ {
		sessions = append(sessions, sessionAt(i, true, "Berlin", "Mobile"))
	}

	a := Evaluate(sessions)
	require.False(t, a.Suspicious)
	require.Empty(t, a.Reasons)
}

func TestEvaluate_onlyConsidersRecentWindow(t *testing.T) {
	// Three failures beyond the newest 10 sessions must not trigger.
	var sessions []models.LoginSession
	for i := 0; i < 10; i++ {
		sessions = append(sessions, sessionAt(i, true, "Berlin", "Mobile"))
	}
	for i := 10; i < 13; i++ {
		sessions = append(sessions, sessionAt(i, false, "", ""))
	}

	a := Evaluate(sessions)
	require.False(t, a.Suspicious)
}

func TestEvaluate_collectsAllReasons(t *testing.T) {
	devices := []string{"Mobile", "Tablet", "Desktop (Mac)"}
	var sessions []models.LoginSession
	for i := 0; i < 3; i++ {
		sessions = append(sessions, sessionAt(i, false, "", ""))
	}
	for i := 3; i < 10; i++ {
		sessions = append(sessions, sessionAt(i, true, fmt.Sprintf("City-%d", i%4), devices[i%3]))
	}

	a := Evaluate(sessions)
	require.True(t, a.Suspicious)
	require.ElementsMatch(t,
		[]string{ReasonFailedAttempts, ReasonMultipleLocations, ReasonMultipleDevices},
		a.Reasons)
}

func TestBuildReport(t *testing.T) {
	sessions := []models.LoginSession{
		sessionAt(0, true, "Berlin", "Mobile"),
		sessionAt(1, false, "", ""),
		sessionAt(2, true, "Munich", "Mobile"),
		sessionAt(3, true, "Berlin", "Tablet"),
	}

	r := BuildReport(sessions)
	require.Equal(t, 4, r.TotalLogins)
	require.Equal(t, 3, r.SuccessfulLogins)
	require.Equal(t, 1, r.FailedLogins)
	require.Equal(t, 2, r.UniqueDevices)
	require.Equal(t, 2, r.UniqueLocations)
	require.NotNil(t, r.LastLogin)
	require.Equal(t, sessions[0].Timestamp, *r.LastLogin)
	require.False(t, r.SuspiciousActivity)
}

func TestBuildReport_empty(t *testing.T) {
	r := BuildReport(nil)
	require.Equal(t, 0, r.TotalLogins)
	require.Nil(t, r.LastLogin)
	require.False(t, r.SuspiciousActivity)
}

func TestDeviceTypeFromUserAgent(t *testing.T) {
	cases := map[string]string{
		"": "Unknown",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Mobile/15E148": "Mobile",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)":              "Desktop (Windows)",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)":        "Desktop (Mac)",
		"Mozilla/5.0 (X11; Linux x86_64)":                        "Desktop (Linux)",
		"curl/8.0.1": "Unknown",
	}
	for ua, want := range cases {
		require.Equal(t, want, DeviceTypeFromUserAgent(ua), "ua=%q", ua)
	}
}

func TestLocationFromIP(t *testing.T) {
	require.Equal(t, "", LocationFromIP(""))
	require.Equal(t, "Unknown Location", LocationFromIP("203.0.113.7"))
}
