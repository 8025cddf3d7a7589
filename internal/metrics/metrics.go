package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CategoryOperations counts successful category writes by operation.
var CategoryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kanboard_category_operations_total",
	Help: "Number of successful category writes by operation",
}, []string{"operation"})

// TasksReassigned counts tasks moved to "no category" by category removal.
var TasksReassigned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kanboard_tasks_reassigned_total",
	Help: "Number of tasks reassigned to no category when their category was removed",
})

var ColumnOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kanboard_column_operations_total",
	Help: "Number of successful board column writes by operation",
}, []string{"operation"})

var CategoryCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kanboard_category_cache_lookups_total",
	Help: "Category list cache lookups by result",
}, []string{"result"})

var RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "kanboard_realtime_clients",
	Help: "Current number of connected websocket clients",
})

// FileViews counts file viewer pages by how the file was rendered.
var FileViews = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kanboard_file_views_total",
	Help: "File viewer pages served by viewer type",
}, []string{"type"})
