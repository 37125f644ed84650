// Package fetcher resolves autocomplete text against the remote customer
// directory. A Fetcher keeps at most one request in flight: starting a new
// fetch cancels the previous one, and a superseded fetch always yields the
// empty fallback instead of its late response.
package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
	"github.com/unkn0wn-root/odatacomplete/internal/httpclient"
	"github.com/unkn0wn-root/odatacomplete/internal/odata"
)

// MaxResults is the suggestion cutoff applied to every response.
const MaxResults = 5

const tracerName = "github.com/unkn0wn-root/odatacomplete/internal/fetcher"

// FilterInfo is one autocomplete request. Source identifies the input control
// that issued it and is only carried through to logs, traces and error hooks.
type FilterInfo struct {
	Text   string
	Source string
}

// Result is the outcome of a Query.
type Result struct {
	Customers  []customer.Customer
	Generation uint64
	URL        string
	StatusCode int
	Duration   time.Duration
}

// ErrorHandler receives genuine failures. Cancellation is never reported.
type ErrorHandler func(info FilterInfo, err error)

type Option func(*Fetcher)

func WithBaseURL(base string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimSpace(base) }
}

func WithEntitySet(name string) Option {
	return func(f *Fetcher) { f.entitySet = strings.TrimSpace(name) }
}

func WithFields(fields ...string) Option {
	return func(f *Fetcher) {
		f.fields = append([]string(nil), fields...)
	}
}

func WithHTTPOptions(opts httpclient.Options) Option {
	return func(f *Fetcher) { f.httpOpts = opts }
}

func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(f *Fetcher) {
		if t != nil {
			f.tracer = t
		}
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(f *Fetcher) { f.onError = h }
}

type Fetcher struct {
	client    *httpclient.Client
	baseURL   string
	entitySet string
	fields    []string
	httpOpts  httpclient.Options
	logger    *log.Logger
	tracer    trace.Tracer
	onError   ErrorHandler

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func New(client *httpclient.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = httpclient.NewClient()
	}
	f := &Fetcher{
		client:    client,
		baseURL:   odata.DefaultBaseURL,
		entitySet: odata.DefaultEntitySet,
		fields:    odata.DefaultFields,
		logger:    log.New(io.Discard),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fetch returns at most MaxResults customers matching info.Text. It never
// fails: cancellation, transport errors, bad statuses and malformed payloads
// all yield an empty, non-nil slice. The returned slice is owned by the caller.
func (f *Fetcher) Fetch(ctx context.Context, info FilterInfo) []customer.Customer {
	return f.Start(ctx, info).Customers()
}

// Query runs the same pipeline as Fetch but reports why it came back empty.
// A superseded or canceled request yields an errdef.CodeCanceled error.
// Result.Customers is never nil.
func (f *Fetcher) Query(ctx context.Context, info FilterInfo) (Result, error) {
	return f.Start(ctx, info).Run()
}

// Pending is a fetch that already owns the cancellation handle but has not
// performed its request yet. Start it where ordering matters (for example on
// the UI goroutine) and Run it wherever blocking is acceptable.
type Pending struct {
	f    *Fetcher
	ctx  context.Context
	gen  uint64
	info FilterInfo
}

// Start cancels the previous fetch and reserves the next generation without
// touching the network.
func (f *Fetcher) Start(ctx context.Context, info FilterInfo) *Pending {
	if ctx == nil {
		ctx = context.Background()
	}
	reqCtx, gen := f.begin(ctx)
	return &Pending{f: f, ctx: reqCtx, gen: gen, info: info}
}

func (p *Pending) Generation() uint64 {
	return p.gen
}

func (p *Pending) Info() FilterInfo {
	return p.info
}

// Customers runs the request with Fetch semantics.
func (p *Pending) Customers() []customer.Customer {
	res, err := p.Run()
	if err != nil {
		return []customer.Customer{}
	}
	return res.Customers
}

// Run performs the request. It must be called at most once.
func (p *Pending) Run() (Result, error) {
	f, info, gen := p.f, p.info, p.gen
	res := Result{Customers: []customer.Customer{}, Generation: gen}

	ctx, span := f.tracer.Start(p.ctx, "odata.fetch", trace.WithAttributes(
		attribute.String("odata.source", info.Source),
		attribute.Int("odata.query.length", len(info.Text)),
		attribute.Int64("odata.generation", int64(gen)),
	))
	defer span.End()

	records, err := f.run(ctx, info, &res)
	current := f.finish(gen)
	if !current && !errdef.Is(err, errdef.CodeCanceled) {
		err = errdef.New(errdef.CodeCanceled, "superseded by a newer request")
	}
	if err != nil {
		f.report(span, info, gen, err)
		return res, err
	}

	res.Customers = customer.Take(records, MaxResults)
	span.SetAttributes(attribute.Int("odata.result.count", len(res.Customers)))
	f.logger.Debug("fetch complete", "source", info.Source, "query", info.Text, "gen", gen,
		"results", len(res.Customers), "duration", res.Duration)
	return res, nil
}

func (f *Fetcher) run(ctx context.Context, info FilterInfo, res *Result) ([]customer.Customer, error) {
	rawURL, err := odata.BuildURL(f.baseURL, f.entitySet, odata.Filter{Fields: f.fields, Value: info.Text})
	if err != nil {
		return nil, err
	}
	res.URL = rawURL

	resp, err := f.client.Get(ctx, rawURL, f.httpOpts)
	if resp != nil {
		res.StatusCode = resp.StatusCode
		res.Duration = resp.Duration
	}
	if err != nil {
		return nil, err
	}

	var env customer.Envelope[customer.Customer]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, errdef.Wrap(errdef.CodeDecode, err, "decode customers envelope")
	}
	return env.Value, nil
}

// Cancel aborts the in-flight fetch, if any, without starting a new one.
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Generation is the id of the most recently started fetch.
func (f *Fetcher) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// begin cancels the previous fetch and installs a fresh cancellation handle.
func (f *Fetcher) begin(parent context.Context) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	return ctx, f.gen
}

// finish releases the handle owned by gen and reports whether gen is still
// the latest fetch.
func (f *Fetcher) finish(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return true
}

func (f *Fetcher) report(span trace.Span, info FilterInfo, gen uint64, err error) {
	if errdef.Is(err, errdef.CodeCanceled) {
		span.SetAttributes(attribute.Bool("odata.canceled", true))
		f.logger.Debug("fetch canceled", "source", info.Source, "query", info.Text, "gen", gen)
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	f.logger.Warn("fetch failed", "source", info.Source, "query", info.Text, "gen", gen, "err", err)
	if f.onError != nil {
		f.onError(info, err)
	}
}
