package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_connected_clients",
		Help: "Open websocket subscriptions",
	})

	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_total",
		Help: "Events published to the realtime hub",
	}, []string{"event"})

	RealtimeDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_dropped_total",
		Help: "Event deliveries dropped because a client buffer was full",
	})

	MailSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_sent_total",
		Help: "Outgoing emails by result",
	}, []string{"result"})

	PayrollCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_cache_lookups_total",
		Help: "Payroll summary cache lookups by result",
	}, []string{"result"})
)
