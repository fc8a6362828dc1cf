package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func familyNames(t *testing.T, g prometheus.Gatherer) []string {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.modelFallbacks.Inc()

			Convey("Then metrics are registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(familyNames(t, registry), ShouldContain, "aithena_model_fallbacks_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)
			manager.invitesGenerated.Add(2)

			Convey("Then names follow the options", func() {
				So(familyNames(t, registry), ShouldContain, "test_unit_invites_generated_total")
				So(testutil.ToFloat64(manager.invitesGenerated), ShouldEqual, 2)
			})
		})

		Convey("When options carry zero values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "aithena")
				So(manager.subsystem, ShouldEqual, "pipeline")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			before := testutil.ToFloat64(globalManager.pipelineRuns.WithLabelValues("plan", PathFallback))
			RecordPipelineRun("plan", PathFallback)
			RecordPipelineLatency("plan", 12)
			RecordStructuredError("invite", "no_json")
			RecordTokensExtracted(4)
			RecordInvitesGenerated(3)
			UpdateCandidatePoolSize(8)

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.pipelineRuns.WithLabelValues("plan", PathFallback)), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.candidatePoolSize), ShouldEqual, 8)
			})
		})

		Convey("When recording model metrics", func() {
			before := testutil.ToFloat64(globalManager.modelFallbacks)
			RecordModelRequest("gemini-1.5-flash", "success")
			RecordModelRequest("gemini-2.0-flash", "503")
			RecordModelLatency("gemini-1.5-flash", 420)
			RecordModelFallback()

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.modelFallbacks), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.modelRequests.WithLabelValues("gemini-2.0-flash", "503")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/ai/extract", "POST", "200")
				RecordHTTPRequestDuration("/ai/extract", "POST", "200", 5.0)
				RecordErrorByComponent("model", "upstream")
				RecordErrorByEndpoint("/ai/chat", "POST", "not_configured")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			names := strings.Join(familyNames(t, GetRegistry()), ",")

			Convey("Then it exposes our families only", func() {
				So(names, ShouldContainSubstring, "aithena_pipeline_runs_total")
				So(names, ShouldNotContainSubstring, "go_goroutines")
			})
		})
	})
}
