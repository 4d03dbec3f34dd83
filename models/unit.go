package models

// DefaultStatus is the status every unit starts in
const DefaultStatus = "10-8 Available"

// StatusCodes are the ten-codes a unit may report
var StatusCodes = []string{
	DefaultStatus,
	"10-6 Busy",
	"10-7 Out of Service",
	"10-76 En Route",
	"10-23 Arrived",
	"10-97 On Scene",
	"10-15 Transporting",
}

// IsStatusCode reports whether s is one of StatusCodes
func IsStatusCode(s string) bool {
	for _, c := range StatusCodes {
		if c == s {
			return true
		}
	}
	return false
}

// UnitStatus is a unit call sign with its current status
type UnitStatus struct {
	CallSign string `json:"callSign"`
	Status   string `json:"status"`
}
