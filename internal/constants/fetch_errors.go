package constants

// Fetch error codes surfaced by providers
const (
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeHTTPStatus    = "HTTP_STATUS"
	ErrCodeNoCSVResource = "NO_CSV_RESOURCE"
	ErrCodeBadPayload    = "BAD_PAYLOAD"
	ErrCodeRateLimited   = "RATE_LIMITED"
)

var errorMessages = map[string]string{
	ErrCodeNetworkError:  "Network error while contacting data source",
	ErrCodeHTTPStatus:    "Data source returned a non-success HTTP status",
	ErrCodeNoCSVResource: "Dataset metadata contains no CSV resource",
	ErrCodeBadPayload:    "Data source payload could not be decoded",
	ErrCodeRateLimited:   "Data source is rate limiting requests",
}

// GetErrorMessage returns the human-readable message for a fetch error code
func GetErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Unknown data source error"
}
