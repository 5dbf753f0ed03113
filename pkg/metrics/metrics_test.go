package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty namespace and subsystem", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording prediction metrics", func() {
			Convey("Then it should record served predictions", func() {
				So(func() {
					RecordPredictionServed()
					RecordPredictionServed()
					RecordPredictionServed()
				}, ShouldNotPanic)
			})

			Convey("And it should record ranked candidates", func() {
				So(func() {
					RecordCandidatesRanked(10)
					RecordCandidatesRanked(500)
				}, ShouldNotPanic)
			})

			Convey("And it should record insufficient data", func() {
				So(func() {
					RecordInsufficientData()
					RecordInsufficientData()
				}, ShouldNotPanic)
			})

			Convey("And it should record prediction latency", func() {
				So(func() {
					RecordPredictionLatency(10.0)
					RecordPredictionLatency(25.0)
					RecordPredictionLatency(100.0)
				}, ShouldNotPanic)
			})

			Convey("And it should update the candidate set size", func() {
				So(func() {
					UpdateLastCandidateSetSize(0)
					UpdateLastCandidateSetSize(500)
					UpdateLastCandidateSetSize(50)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording cache metrics", func() {
			So(func() {
				RecordCacheHit()
				RecordCacheMiss()
				RecordCacheWriteError()
				RecordCacheReadError()
			}, ShouldNotPanic)
		})

		Convey("When recording storage metrics", func() {
			So(func() {
				RecordStorageQueryLatency(2.0)
				RecordStorageQueryLatency(8.0)
				RecordStorageError()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/predict", "GET", "200")
					RecordHTTPRequest("/categories", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/predict", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by endpoint", func() {
				So(func() {
					RecordErrorByEndpoint("/predict", "GET", "client_error")
					RecordErrorByEndpoint("/predict", "GET", "server_error")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024 * 100)
				UpdateSystemGoroutineCount(100)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When using zero values", func() {
			So(func() {
				RecordCandidatesRanked(0)
				UpdateLastCandidateSetSize(0)
				RecordPredictionLatency(0.0)
				RecordHTTPRequestDuration("/predict", "GET", "200", 0.0)
			}, ShouldNotPanic)
		})

		Convey("When using very large values", func() {
			So(func() {
				RecordCandidatesRanked(1_000_000)
				UpdateLastCandidateSetSize(1_000_000)
				RecordPredictionLatency(30_000.0)
			}, ShouldNotPanic)
		})

		Convey("When using empty strings as labels", func() {
			So(func() {
				RecordHTTPRequest("", "", "200")
				RecordHTTPRequestDuration("", "", "200", 10.0)
				RecordErrorByEndpoint("", "", "")
			}, ShouldNotPanic)
		})

		Convey("When using special characters in labels", func() {
			So(func() {
				RecordHTTPRequest("/predict?rank=5000&limit=10", "GET", "200")
				RecordErrorByEndpoint("/predict", "GET", "limit_exceeded")
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordPredictionServed()
						UpdateLastCandidateSetSize(j)
						RecordPredictionLatency(float64(j))
						RecordHTTPRequest("/predict", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("Then it is the one global metrics land on", func() {
			So(GetRegistry(), ShouldNotBeNil)

			RecordPredictionServed()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			found := false
			for _, mf := range families {
				if mf.GetName() == "admitcast_predictor_predictions_served_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
