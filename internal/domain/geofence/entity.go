package geofence

// Config holds the system-wide radii used by the policy.
type Config struct {
	// StrictAdmissionRadiusM is the hard limit applied at clock-in only.
	StrictAdmissionRadiusM float64
	// ReportMatchRadiusM only drives the *_match reporting flags.
	ReportMatchRadiusM float64
}

func DefaultConfig() Config {
	return Config{
		StrictAdmissionRadiusM: 50,
		ReportMatchRadiusM:     250,
	}
}

// Verdict is the outcome of checking one location against one site.
type Verdict struct {
	DistanceM            float64
	WithinReportRadius   bool
	WithinAdvisoryRadius bool
	Warning              *string
}
