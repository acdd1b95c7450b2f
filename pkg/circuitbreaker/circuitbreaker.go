package circuitbreaker

import (
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Trip condition of a breaker. A breaker opens once it has seen more than
// MinRequests calls and the failing ratio has reached FailingRatio.
var (
	MinRequests  = 10
	FailingRatio = 0.6
)

// NewCircuitBreaker returns a breaker guarding the named upstream. State
// changes are logged so a flapping provider shows up in the daemon logs.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MinRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	})
}
