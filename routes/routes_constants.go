package routes

// Screen paths
const (
	ScreenRoot          = "/"
	ScreenLogin         = "/login"
	ScreenRegister      = "/register"
	ScreenDashboard     = "/dashboard"
	ScreenAssessment    = "/assessment"
	ScreenHistory       = "/history"
	ScreenHistoryDetail = "/history/{id}"
	ScreenProfile       = "/profile"

	// ScreenProfileSetup is where a newly registered clinician lands.
	ScreenProfileSetup = "/profile?setup=true"
)
