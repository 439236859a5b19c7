package api

// Remote service routes
const (
	RouteRegister      = "/auth/register"
	RouteToken         = "/auth/token"
	RouteMe            = "/users/me"
	RouteMeDefaults    = "/users/me/defaults"
	RoutePredict       = "/predict/"
	RouteHistory       = "/predict/history"
	RouteHistoryDetail = "/predict/history/"
)

// Operation names the logical calls. Used for logs and metrics labels.
type Operation string

const (
	OpRegister            Operation = "register"
	OpExchangeCredentials Operation = "exchange_credentials"
	OpFetchIdentity       Operation = "fetch_identity"
	OpUpdateDefaults      Operation = "update_defaults"
	OpSubmitPrediction    Operation = "submit_prediction"
	OpListHistory         Operation = "list_history"
	OpFetchHistoryDetail  Operation = "fetch_history_detail"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
	userAgent       = "neuroguard-client/1.0"
)
