package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/conveyor/errors"
	"github.com/kbukum/conveyor/logger"
)

func testConfig(name string, workers int) Config {
	cfg := DefaultConfig(name)
	cfg.Workers = workers
	return cfg
}

func intRange(n int) Source[int] {
	i := 0
	return FromFunc(func(_ context.Context) (int, bool, error) {
		if i >= n {
			return 0, false, nil
		}
		v := i
		i++
		return v, true, nil
	})
}

type pair struct{ k, v int }

func TestRun_MapReduce(t *testing.T) {
	const n = 100000
	results := make(map[int]int, n)

	stats, err := Run(context.Background(), testConfig("test123", 4), intRange(n),
		func(_ context.Context, q int) (pair, error) {
			return pair{q, q * 5}, nil
		},
		func(_ context.Context, r pair) error {
			results[r.k] = r.v
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != n {
		t.Fatalf("expected %d entries, got %d", n, len(results))
	}
	if stats.Processed != n {
		t.Errorf("expected %d processed, got %d", n, stats.Processed)
	}
	for i := 0; i < 100; i++ {
		if results[i] != i*5 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*5)
		}
	}
}

func TestRun_EmptySource(t *testing.T) {
	invoked := false

	stats, err := Run(context.Background(), testConfig("empty", 1), FromSlice([]int{}),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error {
			invoked = true
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoked {
		t.Error("reducer must not run for an empty source")
	}
	if stats.Processed != 0 {
		t.Errorf("expected 0 processed, got %d", stats.Processed)
	}
}

func TestRun_MoreWorkersThanItems(t *testing.T) {
	items := []int{10, 20, 30, 40, 50, 60, 70}
	seen := make(map[int]int, len(items))

	stats, err := Run(context.Background(), testConfig("sparse", 8), FromSlice(items),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error {
			seen[r]++
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Processed != int64(len(items)) {
		t.Errorf("expected %d processed, got %d", len(items), stats.Processed)
	}
	for _, item := range items {
		if seen[item] != 1 {
			t.Errorf("item %d reduced %d times, want exactly once", item, seen[item])
		}
	}
}

func TestRun_ReducerNeverOverlaps(t *testing.T) {
	var (
		inReduce atomic.Int32
		overlap  atomic.Bool
	)

	_, err := Run(context.Background(), testConfig("serial", 8), intRange(5000),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error {
			if inReduce.Add(1) != 1 {
				overlap.Store(true)
			}
			runtime.Gosched()
			inReduce.Add(-1)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlap.Load() {
		t.Error("reducer invocations overlapped")
	}
}

func TestRun_TransformsRunInParallel(t *testing.T) {
	const workers = 4
	var entered atomic.Int32
	release := make(chan struct{})

	// Each worker blocks until all four have a distinct item in hand,
	// which is only possible if transforms really run concurrently.
	_, err := Run(context.Background(), testConfig("parallel", workers),
		FromSlice([]int{1, 2, 3, 4}),
		func(_ context.Context, q int) (int, error) {
			if entered.Add(1) == workers {
				close(release)
			}
			select {
			case <-release:
			case <-time.After(10 * time.Second):
				return 0, stderrors.New("workers never ran concurrently")
			}
			return q, nil
		},
		func(_ context.Context, r int) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_NoLeakedGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()

	_, err := Run(context.Background(), testConfig("join", 6), intRange(1000),
		func(_ context.Context, q int) (int, error) { return q * 2, nil },
		func(_ context.Context, r int) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 100; i++ {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("goroutines leaked: before=%d after=%d", before, runtime.NumGoroutine())
}

func TestRun_BackpressureBoundsSourceLead(t *testing.T) {
	cfg := testConfig("backpressure", 1)
	cfg.QueueFactor = 1 // work queue capacity 1

	var (
		pulled  atomic.Int32
		done    atomic.Int32
		maxLead atomic.Int32
	)
	src := FromFunc(func(_ context.Context) (int, bool, error) {
		if pulled.Load() >= 200 {
			return 0, false, nil
		}
		return int(pulled.Add(1)), true, nil
	})

	_, err := Run(context.Background(), cfg, src,
		func(_ context.Context, q int) (int, error) {
			lead := pulled.Load() - done.Add(1)
			for {
				cur := maxLead.Load()
				if lead <= cur || maxLead.CompareAndSwap(cur, lead) {
					break
				}
			}
			time.Sleep(200 * time.Microsecond)
			return q, nil
		},
		func(_ context.Context, r int) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// capacity(1) + one blocked put + one item in the worker's hand,
	// plus scheduling slack.
	if maxLead.Load() > 5 {
		t.Errorf("source ran %d items ahead of the worker; backpressure is broken", maxLead.Load())
	}
}

func TestRun_TransformError(t *testing.T) {
	boom := stderrors.New("boom")

	_, err := Run(context.Background(), testConfig("xerr", 4), intRange(10000),
		func(_ context.Context, q int) (int, error) {
			if q == 4321 {
				return 0, boom
			}
			return q, nil
		},
		func(_ context.Context, r int) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeTransformFailed) {
		t.Errorf("expected TRANSFORM_FAILED, got %v", err)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestRun_TransformPanic(t *testing.T) {
	_, err := Run(context.Background(), testConfig("xpanic", 4), intRange(10000),
		func(_ context.Context, q int) (int, error) {
			if q == 1234 {
				panic("worker exploded")
			}
			return q, nil
		},
		func(_ context.Context, r int) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeTransformPanic) {
		t.Errorf("expected TRANSFORM_PANIC, got %v", err)
	}
	if !strings.Contains(err.Error(), "worker exploded") {
		t.Errorf("expected panic value in error, got %q", err.Error())
	}
}

func TestRun_ReduceError(t *testing.T) {
	boom := stderrors.New("reduce boom")

	_, err := Run(context.Background(), testConfig("rerr", 2), intRange(1000),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error {
			if r == 500 {
				return boom
			}
			return nil
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeReduceFailed) {
		t.Errorf("expected REDUCE_FAILED, got %v", err)
	}
}

func TestRun_ReducePanic(t *testing.T) {
	_, err := Run(context.Background(), testConfig("rpanic", 2), intRange(1000),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error {
			if r == 100 {
				panic("reducer exploded")
			}
			return nil
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeReducePanic) {
		t.Errorf("expected REDUCE_PANIC, got %v", err)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig("canceled", 2), intRange(1<<30),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeCanceled) {
		t.Errorf("expected RUN_CANCELED, got %v", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled cause, got %v", err)
	}
}

func TestRun_SourceError(t *testing.T) {
	boom := stderrors.New("source boom")
	i := 0
	src := FromFunc(func(_ context.Context) (int, bool, error) {
		if i >= 50 {
			return 0, false, boom
		}
		i++
		return i, true, nil
	})

	_, err := Run(context.Background(), testConfig("serr", 2), src,
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeSourceFailed) {
		t.Errorf("expected SOURCE_FAILED, got %v", err)
	}
}

func TestRun_RejectsInvalidArguments(t *testing.T) {
	noopTransform := func(_ context.Context, q int) (int, error) { return q, nil }
	noopReduce := func(_ context.Context, r int) error { return nil }

	t.Run("zero workers", func(t *testing.T) {
		_, err := Run(context.Background(), testConfig("bad", 0), intRange(10), noopTransform, noopReduce)
		if !errors.IsCode(err, errors.CodeInvalidConfig) {
			t.Errorf("expected INVALID_CONFIG, got %v", err)
		}
	})
	t.Run("negative workers", func(t *testing.T) {
		_, err := Run(context.Background(), testConfig("bad", -3), intRange(10), noopTransform, noopReduce)
		if !errors.IsCode(err, errors.CodeInvalidConfig) {
			t.Errorf("expected INVALID_CONFIG, got %v", err)
		}
	})
	t.Run("missing name", func(t *testing.T) {
		_, err := Run(context.Background(), testConfig("", 1), intRange(10), noopTransform, noopReduce)
		if !errors.IsCode(err, errors.CodeInvalidConfig) {
			t.Errorf("expected INVALID_CONFIG, got %v", err)
		}
	})
	t.Run("nil source", func(t *testing.T) {
		_, err := Run[int, int](context.Background(), testConfig("bad", 1), nil, noopTransform, noopReduce)
		if !errors.IsCode(err, errors.CodeInvalidConfig) {
			t.Errorf("expected INVALID_CONFIG, got %v", err)
		}
	})
	t.Run("nil transform", func(t *testing.T) {
		_, err := Run[int, int](context.Background(), testConfig("bad", 1), intRange(10), nil, noopReduce)
		if !errors.IsCode(err, errors.CodeInvalidConfig) {
			t.Errorf("expected INVALID_CONFIG, got %v", err)
		}
	})
	t.Run("nil reduce", func(t *testing.T) {
		_, err := Run[int, int](context.Background(), testConfig("bad", 1), intRange(10), noopTransform, nil)
		if !errors.IsCode(err, errors.CodeInvalidConfig) {
			t.Errorf("expected INVALID_CONFIG, got %v", err)
		}
	})
}

func TestRun_EmitsDiagnosticTrace(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig("traced", 2)
	cfg.TraceEvery = 10
	cfg.Logger = logger.NewWriter(&buf, "test")

	_, err := Run(context.Background(), cfg, intRange(100),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, "work items."); got != 10 {
		t.Errorf("expected 10 trace lines, got %d in:\n%s", got, out)
	}
	if !strings.Contains(out, "traced pipeline has processed 100 work items.") {
		t.Errorf("expected final trace line, got:\n%s", out)
	}
	if !strings.Contains(out, `"run_id"`) {
		t.Errorf("expected run_id field in trace output, got:\n%s", out)
	}
}

func TestRun_SingleWorkerProcessesEverything(t *testing.T) {
	var sum int64

	stats, err := Run(context.Background(), testConfig("solo", 1), intRange(1000),
		func(_ context.Context, q int) (int, error) { return q, nil },
		func(_ context.Context, r int) error {
			sum += int64(r)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Processed != 1000 {
		t.Errorf("expected 1000 processed, got %d", stats.Processed)
	}
	if want := int64(999 * 1000 / 2); sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
}
