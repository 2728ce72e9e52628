// Package batch is the fetch-process orchestrator: it walks the remote
// index, builds the eligible work list, and pushes every precinct
// document through the extraction and reconciliation pipeline with a
// bounded worker pool. Per-item failures are logged and never abort the
// run; the run's contract is that every eligible item was attempted.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/andrei/pv-verifier/internal/db"
	"github.com/andrei/pv-verifier/internal/extract"
	"github.com/andrei/pv-verifier/internal/fetch"
	"github.com/andrei/pv-verifier/internal/index"
	"github.com/andrei/pv-verifier/internal/ocr"
	"github.com/andrei/pv-verifier/internal/registry"
	"github.com/andrei/pv-verifier/internal/render"
	"github.com/andrei/pv-verifier/internal/store"
)

// DefaultBaseURL is the election results site the verifier was built
// for.
const DefaultBaseURL = "https://prezenta.roaep.ro/prezidentiale24112024"

// DefaultWorkers bounds the concurrent per-item tasks.
const DefaultWorkers = 20

// Options configures one batch verification run.
type Options struct {
	BaseURL      string
	DataDir      string
	Counties     []string // county codes to process; empty means all
	ListingURL   string   // HTML directory listing to scrape instead of the JSON index
	Workers      int
	TaskTimeout  time.Duration // per-item bound, zero disables
	Page         int
	OCRProvider  string
	APIKey       string
	DatabaseURL  string // optional Postgres mirror
	UseBrowser   bool
	Verbose      bool
	FetchOptions *fetch.Options
}

// extractor is the per-document pipeline the runner drives.
type extractor interface {
	ExtractPage(ctx context.Context, path string, page int) (*extract.Result, error)
}

// Runner holds the collaborators of one run. The processed set is the
// only mutable state shared across workers.
type Runner struct {
	opts      Options
	client    *index.Client
	store     *store.Store
	pipeline  extractor
	processed *store.ProcessedSet
	database  *db.DB
	runID     uuid.UUID

	attempted atomic.Int64
	flagged   atomic.Int64
}

// Run executes a full batch verification. It returns an error only for
// run-level failures (rendering environment unavailable, no counties
// reachable); item-level failures are logged and absorbed.
func Run(ctx context.Context, opts Options) error {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Page <= 0 {
		opts.Page = extract.DefaultPage
	}

	renderer, err := render.NewPoppler()
	if err != nil {
		return err
	}
	provider, err := ocr.New(ctx, opts.OCRProvider, opts.APIKey)
	if err != nil {
		return err
	}
	if closer, ok := provider.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	st := store.New(opts.DataDir)
	existing, err := st.ListPDFs()
	if err != nil {
		return err
	}

	client := index.NewClient(opts.BaseURL, opts.FetchOptions)
	client.UseBrowser = opts.UseBrowser
	client.Verbose = opts.Verbose

	r := &Runner{
		opts:   opts,
		client: client,
		store:  st,
		pipeline: &extract.Pipeline{
			Renderer: renderer,
			Provider: provider,
			Registry: registry.Default(),
		},
		processed: store.NewProcessedSet(existing...),
	}

	if opts.DatabaseURL != "" {
		database, err := db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: failed to connect to database: %v\n", err)
			fmt.Printf("Continuing with file-only persistence...\n")
		} else {
			defer database.Close()
			r.database = database
			if runID, err := database.CreateRun(ctx, opts.BaseURL); err != nil {
				fmt.Printf("Warning: failed to create database run: %v\n", err)
			} else {
				r.runID = runID
			}
		}
	}

	runErr := r.run(ctx)

	if r.database != nil && r.runID != uuid.Nil {
		_ = r.database.CompleteRun(ctx, r.runID,
			int(r.attempted.Load()), int(r.flagged.Load()))
	}
	return runErr
}

// run builds the work list, either from the JSON index walk or from a
// scraped HTML listing, and processes it.
func (r *Runner) run(ctx context.Context) error {
	if r.opts.ListingURL != "" {
		return r.runListing(ctx)
	}

	counties, err := r.client.Counties(ctx)
	if err != nil {
		return fmt.Errorf("fetching counties list: %w", err)
	}

	wanted := make(map[string]struct{}, len(r.opts.Counties))
	for _, code := range r.opts.Counties {
		wanted[code] = struct{}{}
	}

	for _, county := range counties {
		if len(wanted) > 0 {
			if _, ok := wanted[county.Code]; !ok {
				continue
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.processCounty(ctx, county); err != nil {
			log.Printf("[batch] county %s failed: %v", county.Code, err)
		}
	}

	fmt.Printf("Batch complete: %d attempted, %d flagged, %d known files\n",
		r.attempted.Load(), r.flagged.Load(), r.processed.Len())
	return nil
}

// processCounty fetches one county's index and runs its eligible items
// through the worker pool.
func (r *Runner) processCounty(ctx context.Context, county index.County) error {
	fmt.Printf("Processing county %s (%s)\n", county.Code, county.Name)

	idx, err := r.client.CountyIndex(ctx, county.Code)
	if err != nil {
		return err
	}
	items := index.Eligible(idx)
	if r.opts.Verbose {
		log.Printf("[batch] county %s: %d eligible precincts", county.Code, len(items))
	}
	return r.processItems(ctx, items)
}

// runListing scrapes a plain HTML directory listing for report links and
// processes them. Mirrors that expose the documents without the JSON
// index use this path.
func (r *Runner) runListing(ctx context.Context) error {
	fmt.Printf("Scraping document listing %s\n", r.opts.ListingURL)

	res, err := fetch.Get(ctx, r.opts.ListingURL, r.opts.FetchOptions)
	if err != nil {
		return fmt.Errorf("fetching listing page: %w", err)
	}
	if !fetch.IsInterstitial(res) {
		return fmt.Errorf("listing page %s did not return an HTML document", r.opts.ListingURL)
	}
	links, err := fetch.ScrapeDocumentLinks(string(res.Body), r.opts.ListingURL)
	if err != nil {
		return fmt.Errorf("scraping listing page: %w", err)
	}
	if len(links) == 0 {
		return fmt.Errorf("no report links found at %s", r.opts.ListingURL)
	}

	items := make([]index.WorkItem, 0, len(links))
	for _, link := range links {
		name := path.Base(link)
		items = append(items, index.WorkItem{
			ID:  strings.TrimSuffix(name, path.Ext(name)),
			URL: link,
		})
	}
	if r.opts.Verbose {
		log.Printf("[batch] listing: %d report links", len(items))
	}
	if err := r.processItems(ctx, items); err != nil {
		return err
	}

	fmt.Printf("Batch complete: %d attempted, %d flagged, %d known files\n",
		r.attempted.Load(), r.flagged.Load(), r.processed.Len())
	return nil
}

// processItems pushes work items through the bounded worker pool.
func (r *Runner) processItems(ctx context.Context, items []index.WorkItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, item := range items {
		item := item
		g.Go(func() error {
			taskCtx := gctx
			if r.opts.TaskTimeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(gctx, r.opts.TaskTimeout)
				defer cancel()
			}
			r.processItem(taskCtx, item)
			return nil
		})
	}
	return g.Wait()
}

// processItem handles one precinct document end to end: claim, download,
// extract, reconcile, persist on mismatch. All failures are logged and
// absorbed; the claim is not released, matching the no-retry contract.
func (r *Runner) processItem(ctx context.Context, item index.WorkItem) {
	filename := path.Base(item.URL)
	if !r.processed.CheckAndAdd(filename) {
		if r.opts.Verbose {
			log.Printf("[batch] skipping already processed file for %s", item.ID)
		}
		return
	}
	r.attempted.Add(1)

	url := r.client.DocumentURL(item)
	pdfPath := r.store.PDFPath(filename)

	log.Printf("[batch] downloading %s", url)
	if err := fetch.Download(ctx, url, pdfPath, r.opts.FetchOptions); err != nil {
		log.Printf("[batch] download failed for %s: %v", item.ID, err)
		return
	}

	result, err := r.pipeline.ExtractPage(ctx, pdfPath, r.opts.Page)
	if err != nil {
		log.Printf("[batch] error processing %s: %v", item.ID, err)
		return
	}

	if !result.Pages[0].VoteComparison.AllMatch {
		log.Printf("[batch] the votes don't match for %s", item.ID)
		r.flagged.Add(1)
		if err := r.store.SaveProblem(item.ID, result); err != nil {
			log.Printf("[batch] failed to persist problem for %s: %v", item.ID, err)
		}
		if r.database != nil && r.runID != uuid.Nil {
			if err := r.database.SaveProblem(ctx, r.runID, item.ID, result); err != nil {
				log.Printf("[batch] failed to mirror problem for %s: %v", item.ID, err)
			}
		}
	}
}
