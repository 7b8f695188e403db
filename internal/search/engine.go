// Package search implements the brute-force engine: a fixed pool of
// workers that repeatedly generate a key pair, test its public half
// against the configured search terms, and race to claim the first match.
package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/brock/internal/config"
	"github.com/dyluth/brock/internal/keygen"
	"github.com/dyluth/brock/internal/match"
	"github.com/dyluth/brock/internal/workspace"
)

// ErrStopped is returned by Run when the search was stopped before any
// worker found a match.
var ErrStopped = errors.New("search stopped before a match was found")

// Result describes a successful search.
type Result struct {
	// Slot is the index of the worker whose attempt matched.
	Slot int

	// MatchedTerm is the search term found in the key material.
	MatchedTerm string

	// PublicKey is the winning public key in authorized_keys format.
	PublicKey string

	// PrivatePath and PublicPath are the persisted output files.
	PrivatePath string
	PublicPath  string

	// Attempts and Elapsed reflect the aggregate counter and total
	// duration at the moment of success.
	Attempts uint64
	Elapsed  time.Duration

	// Workers is the size of the worker pool that ran the search.
	Workers int
}

// winner is the value handed from the claiming worker to the coordinator.
type winner struct {
	slot int
	term string
}

// Engine coordinates the worker pool. Workers share three primitives: the
// progress tracker, the found flag (compare-and-swap, so exactly one worker
// ever claims the win), and a buffered result channel the coordinator
// consumes exactly once.
type Engine struct {
	cfg      *config.Search
	gen      keygen.Generator
	ws       *workspace.Workspace
	pred     *match.Predicate
	progress *Progress
	workers  int

	found   atomic.Bool
	stopped atomic.Bool
	results chan winner
	errs    chan error
}

// New builds an engine over a validated config. workers must be at least 1;
// the caller normally passes runtime.NumCPU().
func New(cfg *config.Search, gen keygen.Generator, ws *workspace.Workspace, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		cfg:      cfg,
		gen:      gen,
		ws:       ws,
		pred:     match.NewPredicate(cfg.Terms),
		progress: NewProgress(cfg.PrintEvery),
		workers:  workers,
		results:  make(chan winner, workers),
		errs:     make(chan error, workers),
	}
}

// Stop asks all workers to finish their current attempt and exit. It does
// not interrupt an in-flight generation call.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}

// Run spawns the worker pool and blocks until the first match, the first
// worker error, or cancellation. On success the winning key pair has been
// persisted to the configured output paths and every worker has exited, so
// the caller may remove the workspace immediately.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}

	log.Printf("[Search] starting %d workers in %s", e.workers, e.ws.Dir())

	var wg sync.WaitGroup
	for slot := 0; slot < e.workers; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			e.worker(ctx, slot)
		}(slot)
	}

	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	var win winner
	select {
	case win = <-e.results:

	case err := <-e.errs:
		e.Stop()
		<-workersDone
		return nil, err

	case <-ctx.Done():
		e.Stop()
		<-workersDone
		return nil, ctx.Err()

	case <-workersDone:
		// All workers exited without delivering through the select above;
		// a buffered result or error may still be pending.
		select {
		case win = <-e.results:
		default:
			select {
			case err := <-e.errs:
				return nil, err
			default:
				return nil, ErrStopped
			}
		}
	}

	final := e.progress.Snapshot()
	log.Printf("[Search] %v total (last %v); %d attempts",
		final.Total.Round(time.Millisecond), final.SinceLast.Round(time.Millisecond), final.Attempts)
	log.Printf("[Search] found! slot=%d term=%s", win.slot, win.term)

	result, err := e.persist(win)
	if err != nil {
		e.Stop()
		<-workersDone
		return nil, err
	}

	// Stragglers finish at most their in-flight attempt; waiting here means
	// the caller can tear the workspace down without racing them.
	<-workersDone

	result.Attempts = final.Attempts
	result.Elapsed = final.Total
	result.Workers = e.workers
	return result, nil
}

// persist copies the winning artifacts to the configured output paths,
// private key first. If the private copy fails the public copy is still
// attempted so that both outcomes can be reported together.
func (e *Engine) persist(win winner) (*Result, error) {
	privateSrc, publicSrc := e.ws.SlotPaths(win.slot)
	privateDst := e.cfg.Output
	publicDst := e.cfg.Output + ".pub"

	_, privErr := copyFile(privateSrc, privateDst, 0600)
	if privErr != nil {
		privErr = fmt.Errorf("failed to persist private key: %w", privErr)
	}
	publicKey, pubErr := copyFile(publicSrc, publicDst, 0644)
	if pubErr != nil {
		pubErr = fmt.Errorf("failed to persist public key: %w", pubErr)
	}
	if privErr != nil || pubErr != nil {
		return nil, errors.Join(privErr, pubErr)
	}

	return &Result{
		Slot:        win.slot,
		MatchedTerm: win.term,
		PublicKey:   string(publicKey),
		PrivatePath: privateDst,
		PublicPath:  publicDst,
	}, nil
}

// copyFile copies src to dst with the given permissions and returns the
// copied bytes. Key files are a few hundred bytes, so a full read is fine.
func copyFile(src, dst string, perm os.FileMode) ([]byte, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(dst, data, perm); err != nil {
		return nil, err
	}
	return data, nil
}
