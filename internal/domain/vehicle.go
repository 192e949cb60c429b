package domain

// OperatorCategory classifies who runs a vehicle.
type OperatorCategory string

const (
	OperatorPrivate OperatorCategory = "private"
	OperatorKSRTC   OperatorCategory = "ksrtc"
	OperatorMetro   OperatorCategory = "metro"
)

func (c OperatorCategory) Valid() bool {
	switch c {
	case OperatorPrivate, OperatorKSRTC, OperatorMetro:
		return true
	default:
		return false
	}
}

// Vehicle is a scheduled service on a route. Every numeric field is
// optional: nil means "not recorded" and is distinct from zero.
type Vehicle struct {
	ID                    string           `json:"id"`
	RouteID               string           `json:"routeId"`
	Name                  string           `json:"name"`
	Category              OperatorCategory `json:"operatorType"`
	FrequencyMinutes      *int             `json:"frequencyMinutes,omitempty"`
	ApproxDurationMinutes *int             `json:"approxDurationMinutes,omitempty"`
	BaseFare              *float64         `json:"baseFare,omitempty"`
	FarePerKm             *float64         `json:"farePerKm,omitempty"`
}
