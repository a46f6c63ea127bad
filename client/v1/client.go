package v1

// TimecardClient is the Go client for the timecard API.
type TimecardClient struct {
	Transport *Transport
	Shifts    *ShiftEndpoint
}

func NewTimecardClient(baseURL string, token string) *TimecardClient {
	t := NewTransport(baseURL, token)
	return &TimecardClient{
		Transport: t,
		Shifts:    &ShiftEndpoint{transport: t},
	}
}
