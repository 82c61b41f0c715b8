// Package metrics defines Prometheus instrumentation for the Galaxy store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts created accounts.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "galaxy",
		Name:      "registrations_total",
		Help:      "Total number of registered accounts.",
	})

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "galaxy",
		Name:      "logins_total",
		Help:      "Total number of login attempts.",
	}, []string{"result"})

	// PurchasesTotal counts successful purchases by item kind.
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "galaxy",
		Name:      "purchases_total",
		Help:      "Total number of successful purchases.",
	}, []string{"kind"})

	// SubmissionsTotal counts filed game submissions.
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "galaxy",
		Name:      "game_submissions_total",
		Help:      "Total number of game submissions filed.",
	})

	// SubmissionDecisionsTotal counts moderation decisions by outcome.
	SubmissionDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "galaxy",
		Name:      "game_submission_decisions_total",
		Help:      "Total number of moderation decisions.",
	}, []string{"status"})

	// SnapshotsTotal counts collection snapshot runs by outcome.
	SnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "galaxy",
		Name:      "snapshots_total",
		Help:      "Total number of snapshot export runs.",
	}, []string{"result"})
)
