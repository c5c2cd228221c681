package embedding_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/talklens/talklens/internal/domain/embedding"
)

func TestCosine(t *testing.T) {
	Convey("Given cosine similarity", t, func() {
		Convey("Identical vectors have similarity 1", func() {
			v := []float64{0.3, -0.5, 0.8}
			So(embedding.Cosine(v, v), ShouldAlmostEqual, 1, 1e-9)
		})

		Convey("Opposite vectors have similarity -1", func() {
			a := []float64{1, 2, 3}
			b := []float64{-1, -2, -3}
			So(embedding.Cosine(a, b), ShouldAlmostEqual, -1, 1e-9)
		})

		Convey("Orthogonal vectors have similarity 0", func() {
			a := []float64{1, 0}
			b := []float64{0, 1}
			So(embedding.Cosine(a, b), ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("Similarity is symmetric", func() {
			a := []float64{0.1, 0.9, -0.4}
			b := []float64{0.7, -0.2, 0.5}
			So(embedding.Cosine(a, b), ShouldAlmostEqual, embedding.Cosine(b, a), 1e-12)
		})

		Convey("Mismatched lengths yield 0", func() {
			So(embedding.Cosine([]float64{1, 2}, []float64{1, 2, 3}), ShouldEqual, 0)
		})

		Convey("Zero vectors yield 0", func() {
			So(embedding.Cosine([]float64{0, 0}, []float64{1, 1}), ShouldEqual, 0)
		})

		Convey("The result never escapes [-1, 1]", func() {
			a := []float64{1e-30, 1e30}
			b := []float64{1e-30, 1e30}
			sim := embedding.Cosine(a, b)
			So(sim, ShouldBeLessThanOrEqualTo, 1)
			So(sim, ShouldBeGreaterThanOrEqualTo, -1)
		})
	})
}

func TestHashProvider(t *testing.T) {
	Convey("Given a hash provider", t, func() {
		ctx := context.Background()
		p := embedding.NewHashProvider()

		Convey("It should be ready immediately", func() {
			So(p.Ready(ctx), ShouldBeNil)
		})

		Convey("It should produce vectors of the default dimension", func() {
			vec, err := p.Embed(ctx, "hello world")
			So(err, ShouldBeNil)
			So(len(vec), ShouldEqual, 256)
		})

		Convey("It should honor a custom dimension", func() {
			small := embedding.NewHashProvider(embedding.WithDimension(16))
			vec, err := small.Embed(ctx, "hello world")
			So(err, ShouldBeNil)
			So(len(vec), ShouldEqual, 16)
		})

		Convey("It should be deterministic", func() {
			a, err := p.Embed(ctx, "my name is asha and i like painting")
			So(err, ShouldBeNil)
			b, err := p.Embed(ctx, "my name is asha and i like painting")
			So(err, ShouldBeNil)
			So(a, ShouldResemble, b)
		})

		Convey("It should be insensitive to case and punctuation", func() {
			a, err := p.Embed(ctx, "Hello, World!")
			So(err, ShouldBeNil)
			b, err := p.Embed(ctx, "hello world")
			So(err, ShouldBeNil)
			So(a, ShouldResemble, b)
		})

		Convey("It should L2-normalize non-empty vectors", func() {
			vec, err := p.Embed(ctx, "some ordinary sentence about school")
			So(err, ShouldBeNil)
			var norm float64
			for _, v := range vec {
				norm += v * v
			}
			So(math.Sqrt(norm), ShouldAlmostEqual, 1, 1e-9)
		})

		Convey("It should score similar texts above dissimilar ones", func() {
			base, _ := p.Embed(ctx, "my family has four members and i love my family")
			near, _ := p.Embed(ctx, "my family has five members and i love my family")
			far, _ := p.Embed(ctx, "quarterly revenue exceeded projections across all divisions")

			So(embedding.Cosine(base, near), ShouldBeGreaterThan, embedding.Cosine(base, far))
		})

		Convey("It should return a zero vector for empty input", func() {
			vec, err := p.Embed(ctx, "")
			So(err, ShouldBeNil)
			So(len(vec), ShouldEqual, 256)
			for _, v := range vec {
				So(v, ShouldEqual, 0)
			}
		})

		Convey("It should respect context cancellation", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := p.Embed(cancelled, "anything")
			So(err, ShouldNotBeNil)
		})
	})
}

// countingProvider wraps another provider and counts inference calls.
type countingProvider struct {
	inner embedding.Provider
	calls atomic.Int64
	fail  atomic.Bool
}

func (c *countingProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	c.calls.Add(1)
	if c.fail.Load() {
		return nil, fmt.Errorf("inference backend gone: %w", embedding.ErrUnavailable)
	}
	return c.inner.Embed(ctx, text)
}

func (c *countingProvider) Ready(ctx context.Context) error {
	return c.inner.Ready(ctx)
}

func TestCachingProvider(t *testing.T) {
	Convey("Given a caching provider", t, func() {
		ctx := context.Background()
		counted := &countingProvider{inner: embedding.NewHashProvider()}
		cache := embedding.NewCachingProvider(counted)

		Convey("Repeated texts cost one inference call", func() {
			first, err := cache.Embed(ctx, "hello everyone my name is asha")
			So(err, ShouldBeNil)
			second, err := cache.Embed(ctx, "hello everyone my name is asha")
			So(err, ShouldBeNil)

			So(second, ShouldResemble, first)
			So(counted.calls.Load(), ShouldEqual, 1)
			So(cache.Len(), ShouldEqual, 1)
		})

		Convey("Distinct texts each reach the inner provider", func() {
			_, _ = cache.Embed(ctx, "first text")
			_, _ = cache.Embed(ctx, "second text")
			So(counted.calls.Load(), ShouldEqual, 2)
			So(cache.Len(), ShouldEqual, 2)
		})

		Convey("Failed embeddings are not cached", func() {
			counted.fail.Store(true)
			_, err := cache.Embed(ctx, "doomed text")
			So(errors.Is(err, embedding.ErrUnavailable), ShouldBeTrue)
			So(cache.Len(), ShouldEqual, 0)

			counted.fail.Store(false)
			_, err = cache.Embed(ctx, "doomed text")
			So(err, ShouldBeNil)
			So(cache.Len(), ShouldEqual, 1)
		})

		Convey("The cache evicts oldest entries at its bound", func() {
			bounded := embedding.NewCachingProvider(counted, embedding.WithMaxEntries(2))
			_, _ = bounded.Embed(ctx, "one")
			_, _ = bounded.Embed(ctx, "two")
			_, _ = bounded.Embed(ctx, "three")
			So(bounded.Len(), ShouldEqual, 2)

			// "one" was evicted, so it costs another inner call.
			before := counted.calls.Load()
			_, _ = bounded.Embed(ctx, "one")
			So(counted.calls.Load(), ShouldEqual, before+1)
		})

		Convey("Readiness passes through to the inner provider", func() {
			So(cache.Ready(ctx), ShouldBeNil)
		})
	})
}

func TestHTTPProvider(t *testing.T) {
	Convey("Given an HTTP provider", t, func() {
		ctx := context.Background()

		Convey("When the inference server responds normally", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/health":
					w.WriteHeader(http.StatusOK)
				case "/embed":
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte(`[[0.1, 0.2, 0.3]]`))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer srv.Close()

			p := embedding.NewHTTPProvider(srv.URL)

			Convey("Then readiness succeeds", func() {
				So(p.Ready(ctx), ShouldBeNil)
			})

			Convey("And embedding returns the server's vector", func() {
				vec, err := p.Embed(ctx, "hello")
				So(err, ShouldBeNil)
				So(vec, ShouldResemble, []float64{0.1, 0.2, 0.3})
			})
		})

		Convey("When the inference server returns an error status", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model loading", http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			p := embedding.NewHTTPProvider(srv.URL)

			Convey("Then embedding fails with ErrUnavailable", func() {
				_, err := p.Embed(ctx, "hello")
				So(errors.Is(err, embedding.ErrUnavailable), ShouldBeTrue)
			})

			Convey("And readiness fails with ErrNotReady", func() {
				err := p.Ready(ctx)
				So(errors.Is(err, embedding.ErrNotReady), ShouldBeTrue)
			})
		})

		Convey("When the inference server returns a malformed body", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"unexpected": true}`))
			}))
			defer srv.Close()

			p := embedding.NewHTTPProvider(srv.URL)
			_, err := p.Embed(ctx, "hello")
			So(errors.Is(err, embedding.ErrUnavailable), ShouldBeTrue)
		})

		Convey("When the inference server returns the wrong vector count", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[[0.1], [0.2]]`))
			}))
			defer srv.Close()

			p := embedding.NewHTTPProvider(srv.URL)
			_, err := p.Embed(ctx, "hello")
			So(errors.Is(err, embedding.ErrUnavailable), ShouldBeTrue)
		})

		Convey("When the server is unreachable", func() {
			p := embedding.NewHTTPProvider("http://127.0.0.1:1")

			_, err := p.Embed(ctx, "hello")
			So(errors.Is(err, embedding.ErrUnavailable), ShouldBeTrue)
			So(errors.Is(p.Ready(ctx), embedding.ErrNotReady), ShouldBeTrue)
		})
	})
}
