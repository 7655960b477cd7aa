package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FacilityNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartlib_facility_nodes_total",
		Help: "Total number of nodes in the facility graph.",
	})

	FacilityEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartlib_facility_edges_total",
		Help: "Total number of undirected edges in the facility graph.",
	})

	RoutePlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartlib_route_plans_total",
		Help: "Total number of route searches by result.",
	}, []string{"result"})

	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartlib_route_search_seconds",
		Help:    "Time spent computing a route.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	RouteSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartlib_route_steps",
		Help:    "Number of edges in computed routes.",
		Buckets: prometheus.LinearBuckets(0, 1, 10),
	})

	RouteExpandedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartlib_route_expanded_nodes",
		Help:    "Number of nodes expanded per route search.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	CatalogOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartlib_catalog_operations_total",
		Help: "Total number of catalog and inventory operations by result.",
	}, []string{"operation", "result"})

	CatalogBooks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartlib_catalog_books",
		Help: "Current number of books in the catalog.",
	})

	ShelfOccupancy = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "smartlib_shelf_occupancy",
		Help: "Current number of books stored on a shelf.",
	}, []string{"shelf"})

	ShelfCapacity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "smartlib_shelf_capacity",
		Help: "Current capacity of a shelf.",
	}, []string{"shelf"})
)
