package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RideTransitions 按迁移类型计数：create/accept/cancel_offer/cancel/complete
	RideTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ridelink", Name: "ride_transitions_total", Help: "Ride state transitions"},
		[]string{"transition"},
	)
	RideAcceptConflicts = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ridelink", Name: "ride_accept_conflicts_total", Help: "Lost CAS races on ride accept"},
	)
	ContactRequests = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ridelink", Name: "contact_requests_total", Help: "Contact requests created"},
	)
	SuggestionsServed = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ridelink", Name: "suggestions_served_total", Help: "Suggestion lists computed"},
	)
)
