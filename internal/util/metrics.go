package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Total number of users registered",
	})

	RegistrationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_failed_total",
		Help: "Total number of failed registrations",
	}, []string{"reason"})

	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of successful logins",
	})

	LoginsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logins_failed_total",
		Help: "Total number of failed login attempts",
	})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products added to the catalog",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "Total number of products deleted",
	})

	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchases_total",
		Help: "Total number of completed purchases",
	})

	PurchasesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_failed_total",
		Help: "Total number of failed purchases",
	}, []string{"reason"})

	PurchaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "purchase_latency_seconds",
		Help:    "Latency of the purchase transaction",
		Buckets: prometheus.DefBuckets,
	})

	LowStockAlertsRaisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_raised_total",
		Help: "Total number of low-stock alerts raised",
	})

	LowStockAlertsClearedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_cleared_total",
		Help: "Total number of low-stock alerts cleared",
	})

	MonitorTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_ticks_total",
		Help: "Total number of low-stock monitor polls",
	})

	MonitorTickErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_tick_errors_total",
		Help: "Total number of failed low-stock monitor polls",
	})

	SalesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_deleted_total",
		Help: "Total number of sale records deleted",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
