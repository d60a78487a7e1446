package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/memtree/internal/adapters/treefile"
	"github.com/okian/memtree/internal/config"
	"github.com/okian/memtree/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewService(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When building the service without a tree file", func() {
			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then it serves the built-in hierarchy", func() {
				convey.So(svc.Tree().Len(), convey.ShouldEqual, treefile.Default().Len())
				convey.So(svc.GetStats()["started"], convey.ShouldEqual, true)
			})
		})

		convey.Convey("When the tree file is written to disk", func() {
			path := filepath.Join(t.TempDir(), "tree.yaml")
			f, err := os.Create(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(treefile.Encode(f, treefile.Default()), convey.ShouldBeNil)
			convey.So(f.Close(), convey.ShouldBeNil)
			cfg.TreePath = path

			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then it is loaded from the file", func() {
				convey.So(svc.Tree().Len(), convey.ShouldEqual, treefile.Default().Len())
			})
		})

		convey.Convey("When the tree file is missing", func() {
			cfg.TreePath = "/nonexistent/tree.yaml"
			_, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the full route table", t, func() {
		ctx := context.Background()
		svc, err := newService(ctx, config.New(), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()
		h := newHandler(ctx, svc, logger.Nop())

		convey.Convey("Then every surface answers", func() {
			for _, path := range []string{"/", "/healthz", "/metrics", "/stats", "/nodes", "/openapi.yaml", "/api-docs", "/distance?from=DDR4&to=DDR5"} {
				req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			}
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When the context expires", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then it returns without panicking", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating once", func() {
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given an HTTP server", t, func() {
		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
			done := make(chan error, 1)
			go func() { done <- serve(ctx, srv, logger.Nop()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("serve did not return")
				}
			})
		})

		convey.Convey("When the address cannot be bound", func() {
			srv := &http.Server{Addr: "256.0.0.1:bad", ReadHeaderTimeout: time.Second}
			err := serve(context.Background(), srv, logger.Nop())

			convey.Convey("Then the listener error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
