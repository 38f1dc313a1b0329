package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/C0oki3s/scribdt/internal/dispatcher"
	"github.com/C0oki3s/scribdt/internal/entity"
	"github.com/C0oki3s/scribdt/internal/model"
	"github.com/C0oki3s/scribdt/internal/report"
	"github.com/C0oki3s/scribdt/internal/sink"
)

// DocumentsRequest describes one search-and-scan run.
type DocumentsRequest struct {
	Query string

	// Pages is the number of search pages fetched, starting at 1.
	Pages int

	// Kinds restricts scanning; nil scans for every kind.
	Kinds []model.EntityKind

	Scanner  entity.Scanner
	Findings report.FindingWriter

	// Store optionally persists every discovered document record.
	Store sink.Writer[model.DocumentRecord]
}

// DocumentsSummary counts the work done by a Documents run.
type DocumentsSummary struct {
	// NoResults is set when the query matched nothing.
	NoResults bool

	Pages       int
	PagesFailed int
	Documents   int
	Downloaded  int
	Duplicates  int
	Failed      int
	Findings    int

	Persisted sink.Stats
}

// documentStage names the step a document failed in.
type documentStage string

const (
	stageReceipt  documentStage = "receipt"
	stageDownload documentStage = "download"
	stageScan     documentStage = "scan"
	stageReport   documentStage = "report"
)

// documentRun is the shared state of one Documents call.
type documentRun struct {
	d   *Driver
	src DocumentFetcher
	req DocumentsRequest

	// scans maps a text digest to its *scanResult, so identical texts are
	// scanned once and reported under every document that carries them.
	scans sync.Map

	downloaded atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
	findings   atomic.Int64
}

// Documents fetches req.Pages search pages for req.Query and processes every
// document found: download its text, scan it, report each finding.
//
// When page 1 has no results, NoDocumentsMessage is printed once and the
// remaining work is canceled without logging failures. Documents with the
// same id on several pages are processed once; documents whose text is
// identical to one already scanned are skipped.
func (d *Driver) Documents(ctx context.Context, src DocumentFetcher, req DocumentsRequest) (DocumentsSummary, error) {
	var summary DocumentsSummary
	switch {
	case req.Pages < 1:
		return summary, fmt.Errorf("%w: pages=%d", ErrInvalidRange, req.Pages)
	case req.Scanner == nil:
		return summary, ErrNoScanner
	case req.Findings == nil:
		return summary, ErrNoFindingWriter
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := startSink(ctx, d, req.Store)
	run := &documentRun{d: d, src: src, req: req}

	results := dispatcher.Run(ctx, d.search, model.TaskSearchPage, req.Pages,
		func(ctx context.Context, task model.FetchTask) model.Outcome[[]model.DocumentRecord] {
			return src.SearchPage(ctx, req.Query, task.Index)
		})

	var docs errgroup.Group
	docs.SetLimit(d.dispatcher.Workers())

	// Failures of later pages wait until page 1 shows the query matched.
	pages := pageFailures{logger: d.logger}

	seen := make(map[string]struct{})
	for res := range results {
		if res.Task.Index == 1 {
			pages.resolve(ctx, res.Outcome.Status == model.StatusEmpty)
		}

		switch res.Outcome.Status {
		case model.StatusEmpty:
			if !summary.NoResults {
				summary.NoResults = true
				fmt.Fprintln(d.output, NoDocumentsMessage)
				cancel()
			}
			continue
		case model.StatusFailed:
			summary.PagesFailed++
			pages.add(ctx, res.Task, res.Outcome.Err)
			continue
		case model.StatusSuccess:
			summary.Pages++
		default:
			continue
		}

		for _, rec := range res.Outcome.Value {
			if _, dup := seen[rec.DocumentID]; dup {
				continue
			}
			seen[rec.DocumentID] = struct{}{}
			summary.Documents++

			if store != nil {
				if err := store.Enqueue(context.WithoutCancel(ctx), rec); err != nil {
					d.logger.Error("failed to queue document", "document_id", rec.DocumentID, "error", err)
				}
			}

			if ctx.Err() != nil {
				continue
			}
			docs.Go(func() error {
				run.process(ctx, rec)
				return nil
			})
		}
	}

	_ = docs.Wait() //nolint:errcheck // process never returns an error
	summary.Persisted = stopSink(store)

	summary.Downloaded = int(run.downloaded.Load())
	summary.Duplicates = int(run.duplicates.Load())
	summary.Failed = int(run.failed.Load())
	summary.Findings = int(run.findings.Load())

	d.logger.Info("document scan finished",
		"query", req.Query,
		"pages", summary.Pages,
		"documents", summary.Documents,
		"downloaded", summary.Downloaded,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed,
		"findings", summary.Findings,
	)
	return summary, nil
}

// process runs one document through download, scan and report. Failures are
// logged with the document id and never affect other documents.
func (r *documentRun) process(ctx context.Context, rec model.DocumentRecord) {
	receipt, err := r.src.Receipt(ctx, rec.DocumentID)
	if err != nil {
		r.fail(ctx, rec.DocumentID, stageReceipt, err)
		return
	}

	text, err := r.src.DownloadText(ctx, receipt)
	if err != nil {
		r.fail(ctx, rec.DocumentID, stageDownload, err)
		return
	}
	r.downloaded.Add(1)

	if text.Lossy {
		r.d.logger.Debug("document text decoded with replacements", "document_id", rec.DocumentID)
	}
	v, loaded := r.scans.LoadOrStore(text.Digest, &scanResult{})
	scan := v.(*scanResult)
	if loaded {
		r.duplicates.Add(1)
		r.d.logger.Debug("reusing findings of identical text", "document_id", rec.DocumentID)
	}

	findings, err := scan.get(func() ([]model.EntityFinding, error) {
		return r.req.Scanner.Scan(ctx, text.Text, r.req.Kinds)
	})
	if err != nil {
		r.fail(ctx, rec.DocumentID, stageScan, err)
		return
	}

	author := text.Author
	if author == "" {
		author = rec.AuthorName
	}

	var g errgroup.Group
	for _, f := range findings {
		f.DocumentID = rec.DocumentID
		f.Author = author
		g.Go(func() error {
			return r.req.Findings.WriteFinding(f)
		})
	}
	if err := g.Wait(); err != nil {
		r.fail(ctx, rec.DocumentID, stageReport, err)
		return
	}
	r.findings.Add(int64(len(findings)))
}

// scanResult holds the findings of one distinct text.
type scanResult struct {
	once     sync.Once
	findings []model.EntityFinding
	err      error
}

func (s *scanResult) get(scan func() ([]model.EntityFinding, error)) ([]model.EntityFinding, error) {
	s.once.Do(func() {
		s.findings, s.err = scan()
	})
	return s.findings, s.err
}

// pageFailures defers search-page failure lines until the outcome of page 1
// is known. They are dropped when page 1 reports no results.
type pageFailures struct {
	logger *slog.Logger

	resolved bool
	empty    bool
	pending  []pageFailure
}

type pageFailure struct {
	task model.FetchTask
	err  error
}

// add logs a page failure, or holds it while page 1 is outstanding.
func (p *pageFailures) add(ctx context.Context, task model.FetchTask, err error) {
	if !p.resolved {
		p.pending = append(p.pending, pageFailure{task: task, err: err})
		return
	}
	p.log(ctx, task, err)
}

// resolve records the outcome of page 1 and flushes held failures.
func (p *pageFailures) resolve(ctx context.Context, empty bool) {
	p.resolved = true
	p.empty = empty
	for _, f := range p.pending {
		p.log(ctx, f.task, f.err)
	}
	p.pending = nil
}

func (p *pageFailures) log(ctx context.Context, task model.FetchTask, err error) {
	if p.empty || ctx.Err() != nil {
		return
	}
	p.logger.Warn("fetch failed",
		"kind", task.Kind,
		"index", task.Index,
		"error", err,
	)
}

// fail logs a document failure unless the run is being canceled.
func (r *documentRun) fail(ctx context.Context, documentID string, stage documentStage, err error) {
	if ctx.Err() != nil {
		return
	}
	r.failed.Add(1)
	r.d.logger.Warn("document failed",
		"document_id", documentID,
		"stage", stage,
		"error", err,
	)
}
