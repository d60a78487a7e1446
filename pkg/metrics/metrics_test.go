package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithNamespace("test_ns"),
			WithSubsystem("test_sub"),
			WithMetricPrefix("pfx"),
			WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
			WithMetricsEnabled(true),
			WithRefreshInterval(5*time.Second),
			WithCustomLabels(map[string]string{"env": "test"}),
			WithPrometheusRegistry(registry),
		)

		Convey("Then the manager carries them", func() {
			So(m.namespace, ShouldEqual, "test_ns")
			So(m.subsystem, ShouldEqual, "test_sub")
			So(m.RefreshInterval(), ShouldEqual, 5*time.Second)
			So(m.Enabled(), ShouldBeTrue)
			So(m.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
		})

		Convey("And metric names use the namespace, subsystem and prefix", func() {
			m.RecordDistance("euclidean", OutcomeOK, 0.01)
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["test_ns_test_sub_pfx_distance_computations_total"], ShouldBeTrue)
		})

		Convey("And empty values keep the defaults", func() {
			d := NewManager(WithNamespace(""), WithRefreshInterval(0), WithPrometheusRegistry(prometheus.NewRegistry()))
			So(d.namespace, ShouldEqual, "memtree")
			So(d.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording distances", func() {
			m.RecordDistance("tree", OutcomeOK, 0.02)
			m.RecordDistance("tree", OutcomeOK, 0.03)
			m.RecordDistance("correlation", OutcomeDegenerate, 0.01)

			Convey("Then counters are split by metric and outcome", func() {
				So(testutil.ToFloat64(m.distanceComputations.WithLabelValues("tree", OutcomeOK)), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.distanceComputations.WithLabelValues("correlation", OutcomeDegenerate)), ShouldEqual, 1.0)
			})
		})

		Convey("When recording a recommendation", func() {
			m.RecordRecommendation(12)

			Convey("Then it is counted", func() {
				So(testutil.ToFloat64(m.recommendationsServed), ShouldEqual, 1.0)
			})
		})

		Convey("When the manager is disabled", func() {
			off := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
			off.RecordDistance("euclidean", OutcomeOK, 0.01)
			off.RecordRecommendation(3)

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(off.distanceComputations.WithLabelValues("euclidean", OutcomeOK)), ShouldEqual, 0.0)
				So(testutil.ToFloat64(off.recommendationsServed), ShouldEqual, 0.0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("Then none of them panic", func() {
			So(func() {
				RecordDistance("euclidean", OutcomeOK, 0.01)
				RecordRecommendation(5)
				UpdateTreeNodes(22)
				UpdateProfileCount(3)
				RecordHTTPRequest("distance", "GET", "200")
				RecordHTTPRequestDuration("distance", "GET", "200", 1.5)
				UpdateWorkerActiveCount(2)
				RecordWorkerJob(0.2)
				RecordWorkerError()
				RecordErrorByComponent("engine", "not_found")
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("distance", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 1)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("And the gauges reflect the last value", func() {
			UpdateTreeNodes(7)
			So(testutil.ToFloat64(globalManager.treeNodes), ShouldEqual, 7.0)
		})

		Convey("And the registry is shared", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
