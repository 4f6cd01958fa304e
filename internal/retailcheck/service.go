// Package retailcheck composes several independent, slow, occasionally
// unavailable provider calls into one consistent retail-check answer. One
// Service instance owns the caches, the breaker and the dedup registries for
// the whole process; construct it once and inject it.
package retailcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"forecourt/internal/platform/metrics"
	"forecourt/internal/provider"
	"forecourt/internal/storecfg"
	"forecourt/internal/trend"
	"forecourt/pkg/platform/cache"
	"forecourt/pkg/platform/circuit"
	"forecourt/pkg/platform/dedup"
)

// ProviderClient is the slice of the provider client the orchestrator needs.
type ProviderClient interface {
	Authenticate(ctx context.Context, key, secret string) (string, error)
	Vehicle(ctx context.Context, token string, q provider.VehicleQuery) (*provider.VehicleResponse, error)
	TrendedValuations(ctx context.Context, token string, q provider.TrendedQuery) (*provider.TrendedValuationsResponse, error)
	VehicleMetrics(ctx context.Context, token, advertiserID string, vehicle provider.MetricsVehicle) (*provider.MetricsResponse, error)
	Competitors(ctx context.Context, token, href string) (*provider.CompetitorsResponse, error)
}

// ResultStore optionally shares composed results across processes.
type ResultStore interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, result *Result, ttl time.Duration) error
}

// TTLs sets per-data-class cache lifetimes.
type TTLs struct {
	AuthToken     time.Duration
	StoreConfig   time.Duration
	Results       time.Duration
	Trend         time.Duration
	TrendFallback time.Duration
}

// DefaultTTLs returns the production lifetimes. The auth TTL sits well
// inside the provider's real token lifetime; fallback trend data expires
// fastest so the real source is retried soonest.
func DefaultTTLs() TTLs {
	return TTLs{
		AuthToken:     10 * time.Minute,
		StoreConfig:   time.Hour,
		Results:       15 * time.Minute,
		Trend:         time.Hour,
		TrendFallback: 5 * time.Minute,
	}
}

const (
	baseRetries     = 2
	optionalRetries = 1

	authCacheKey = "provider-token"
)

// Service is the retail-check orchestrator.
type Service struct {
	client  ProviderClient
	stores  storecfg.Source
	engine  *trend.Engine
	breaker *circuit.Breaker

	key    string
	secret string

	tokens   *dedup.Group[string]
	configs  *dedup.Group[storecfg.StoreConfig]
	vehicles *dedup.Group[*provider.VehicleResponse]
	trended  *dedup.Group[*provider.TrendedValuationsResponse]
	vmetrics *dedup.Group[*provider.MetricsResponse]

	authCache   *cache.TTL[string, string]
	configCache *cache.TTL[string, storecfg.StoreConfig]
	resultCache *cache.TTL[string, *Result]
	trendCache  *cache.TTL[string, *TrendData]

	resultStore ResultStore

	ttls       TTLs
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithResultStore(store ResultStore) Option {
	return func(s *Service) {
		if store != nil {
			s.resultStore = store
		}
	}
}

func WithTTLs(ttls TTLs) Option {
	return func(s *Service) { s.ttls = ttls }
}

// WithRetryDelay shortens the retry backoff unit; tests use this.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) { s.retryDelay = d }
}

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a Service. key/secret are the service-wide provider
// credentials used for token exchange.
func New(client ProviderClient, stores storecfg.Source, engine *trend.Engine, breaker *circuit.Breaker, key, secret string, opts ...Option) *Service {
	s := &Service{
		client:  client,
		stores:  stores,
		engine:  engine,
		breaker: breaker,
		key:     key,
		secret:  secret,

		tokens:   dedup.New[string](),
		configs:  dedup.New[storecfg.StoreConfig](),
		vehicles: dedup.New[*provider.VehicleResponse](),
		trended:  dedup.New[*provider.TrendedValuationsResponse](),
		vmetrics: dedup.New[*provider.MetricsResponse](),

		authCache:   cache.New[string, string](),
		configCache: cache.New[string, storecfg.StoreConfig](),
		resultCache: cache.New[string, *Result](),
		trendCache:  cache.New[string, *TrendData](),

		resultStore: noopStore{},
		ttls:        DefaultTTLs(),
		retryDelay:  250 * time.Millisecond,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type noopStore struct{}

func (noopStore) Get(context.Context, string) (*Result, bool, error) { return nil, false, nil }
func (noopStore) Set(context.Context, string, *Result, time.Duration) error {
	return nil
}

// PerformRetailCheck answers "what is this vehicle worth, and is it safe to
// sell, right now". Partial upstream failure degrades sections of the answer
// instead of failing the call; only missing credentials, missing store
// configuration, or a missing identity abort it.
func (s *Service) PerformRetailCheck(ctx context.Context, vehicle VehicleIdentity, operatorID string, opts Options) (*Result, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	log := s.log().With("check_id", uuid.NewString(), "operator_id", operatorID)
	key := resultKey(vehicle, operatorID, opts)

	if cached, ok := s.resultCache.Get(key); ok {
		s.metrics.IncCacheHit("results")
		s.metrics.IncCheck(string(SourceCache))
		return asCacheHit(cached), nil
	}
	s.metrics.IncCacheMiss("results")

	if shared, ok, err := s.resultStore.Get(ctx, key); err != nil {
		log.WarnContext(ctx, "shared result store unavailable", "error", err)
	} else if ok {
		s.resultCache.Set(key, shared, s.ttls.Results)
		s.metrics.IncCheck(string(SourceCache))
		return asCacheHit(shared), nil
	}

	token, cfg, err := s.resolveCredentials(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	out := s.fanOut(ctx, token, cfg, vehicle, opts)

	degraded := s.classifyOutcomes(ctx, log, vehicle, &out)

	result := s.reconcile(ctx, log, token, vehicle, opts, &out)
	if degraded {
		result.Source = SourceProviderPartial
		s.metrics.IncDegradedCheck()
	}
	s.metrics.IncCheck(string(result.Source))

	s.resultCache.Set(key, result, s.ttls.Results)
	if err := s.resultStore.Set(ctx, key, result, s.ttls.Results); err != nil {
		log.WarnContext(ctx, "shared result store write failed", "error", err)
	}

	return result, nil
}

// resolveCredentials runs the auth and store-config lookups concurrently.
// Both are fatal on failure: nothing downstream can run without a token, and
// the advertiser id only exists in store configuration.
func (s *Service) resolveCredentials(ctx context.Context, operatorID string) (string, storecfg.StoreConfig, error) {
	var (
		token string
		cfg   storecfg.StoreConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		token, err = s.resolveToken(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cfg, err = s.resolveConfig(gctx, operatorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", storecfg.StoreConfig{}, err
	}
	return token, cfg, nil
}

func (s *Service) resolveToken(ctx context.Context) (string, error) {
	if token, ok := s.authCache.Get(authCacheKey); ok {
		s.metrics.IncCacheHit("auth")
		return token, nil
	}
	s.metrics.IncCacheMiss("auth")

	token, _, err := s.tokens.Do(ctx, authCacheKey, func(ctx context.Context) (string, error) {
		return circuit.Execute(ctx, s.breaker, func(ctx context.Context) (string, error) {
			return s.client.Authenticate(ctx, s.key, s.secret)
		})
	})
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}

	s.authCache.Set(authCacheKey, token, provider.TokenTTL(token, s.ttls.AuthToken))
	return token, nil
}

func (s *Service) resolveConfig(ctx context.Context, operatorID string) (storecfg.StoreConfig, error) {
	if cfg, ok := s.configCache.Get(operatorID); ok {
		s.metrics.IncCacheHit("config")
		return cfg, nil
	}
	s.metrics.IncCacheMiss("config")

	cfg, _, err := s.configs.Do(ctx, "config|"+operatorID, func(ctx context.Context) (storecfg.StoreConfig, error) {
		return s.stores.Lookup(ctx, operatorID)
	})
	if err != nil {
		return storecfg.StoreConfig{}, &ConfigurationNotFoundError{OperatorID: operatorID, Err: err}
	}

	s.configCache.Set(operatorID, cfg, s.ttls.StoreConfig)
	return cfg, nil
}

// outcomes collects per-call results from the fan-out. The join never
// fails fast: every issued call settles and is inspected on its own.
type outcomes struct {
	includeBase    bool
	includeTrended bool
	includeMetrics bool

	base    *provider.VehicleResponse
	baseErr error

	trended    *provider.TrendedValuationsResponse
	trendedErr error

	metrics    *provider.MetricsResponse
	metricsErr error
}

// fanOut issues every applicable provider call concurrently. Which calls
// apply depends on the identity fields present and the requested options;
// each one runs through the deduplicator and the circuit breaker.
func (s *Service) fanOut(ctx context.Context, token string, cfg storecfg.StoreConfig, vehicle VehicleIdentity, opts Options) outcomes {
	out := outcomes{
		includeBase:    vehicle.Registration != "",
		includeTrended: opts.IncludeTrendedValuations && vehicle.DerivativeID != "" && vehicle.FirstRegistrationDate != "",
		includeMetrics: vehicle.DerivativeID != "" && vehicle.FirstRegistrationDate != "",
	}

	var g errgroup.Group

	if out.includeBase {
		g.Go(func() error {
			out.base, out.baseErr = s.fetchVehicle(ctx, token, provider.VehicleQuery{
				Registration:         vehicle.NormalizedRegistration(),
				OdometerReadingMiles: vehicle.OdometerReadingMiles,
				IncludeCheck:         opts.IncludeVehicleCheck,
				FullVehicleCheck:     opts.IncludeVehicleCheck,
			})
			return nil
		})
	}

	if out.includeTrended {
		g.Go(func() error {
			out.trended, out.trendedErr = s.fetchTrended(ctx, token, provider.TrendedQuery{
				DerivativeID:          vehicle.DerivativeID,
				FirstRegistrationDate: vehicle.FirstRegistrationDate,
				OdometerReadingMiles:  vehicle.OdometerReadingMiles,
			})
			return nil
		})
	}

	if out.includeMetrics {
		g.Go(func() error {
			out.metrics, out.metricsErr = s.fetchMetrics(ctx, token, cfg.AdvertiserID, provider.MetricsVehicle{
				DerivativeID:          vehicle.DerivativeID,
				FirstRegistrationDate: vehicle.FirstRegistrationDate,
				OdometerReadingMiles:  vehicle.OdometerReadingMiles,
			})
			return nil
		})
	}

	_ = g.Wait()
	return out
}

// classifyOutcomes logs failures and decides whether the result degrades.
// Benign "no data" answers on optional sections do not degrade; neither does
// the cosmetic competitor call.
func (s *Service) classifyOutcomes(ctx context.Context, log *slog.Logger, vehicle VehicleIdentity, out *outcomes) bool {
	degraded := false

	if out.includeBase && out.baseErr != nil {
		degraded = true
		if errors.Is(out.baseErr, circuit.ErrOpen) {
			s.metrics.IncCircuitRejection()
			s.metrics.IncBaseCircuitOpen()
		}
		log.WarnContext(ctx, "base vehicle lookup failed, degrading result",
			"registration", vehicle.NormalizedRegistration(),
			"error", out.baseErr,
		)
	}

	if out.includeTrended && out.trendedErr != nil {
		if provider.IsNoData(out.trendedErr) {
			if provider.Category(out.trendedErr) == provider.ErrorBadRequest {
				s.metrics.IncTrendedBadRequest()
			}
			log.DebugContext(ctx, "no trended valuations for vehicle",
				"derivative_id", vehicle.DerivativeID,
			)
		} else {
			degraded = true
			if errors.Is(out.trendedErr, circuit.ErrOpen) {
				s.metrics.IncCircuitRejection()
			}
			log.WarnContext(ctx, "trended valuations unavailable", "error", out.trendedErr)
		}
	}

	if out.includeMetrics && out.metricsErr != nil {
		if provider.IsNoData(out.metricsErr) {
			log.DebugContext(ctx, "no vehicle metrics for vehicle",
				"derivative_id", vehicle.DerivativeID,
			)
		} else {
			degraded = true
			if errors.Is(out.metricsErr, circuit.ErrOpen) {
				s.metrics.IncCircuitRejection()
			}
			log.WarnContext(ctx, "vehicle metrics unavailable", "error", out.metricsErr)
		}
	}

	return degraded
}

// reconcile composes whatever subset of calls succeeded into one Result.
func (s *Service) reconcile(ctx context.Context, log *slog.Logger, token string, vehicle VehicleIdentity, opts Options, out *outcomes) *Result {
	result := &Result{
		Vehicle:   describeVehicle(vehicle, out.base),
		CheckedAt: s.now(),
		Source:    SourceProvider,
	}

	if out.base != nil {
		result.Valuations = valuationsFrom(out.base.Valuations)
		if opts.IncludeVehicleCheck && out.base.History != nil {
			result.VehicleCheck = vehicleCheckFrom(out.base.History)
		}
	}

	if out.metrics != nil {
		result.Metrics = locationMetricsFrom(out.metrics)
	}

	if opts.IncludeTrendedValuations {
		result.Trend = s.resolveTrend(vehicle, out)
	}

	if out.base != nil && out.base.Links.Competitors != nil {
		result.Competitors = s.fetchCompetitors(ctx, log, token, out.base.Links.Competitors.Href)
	}

	return result
}

// resolveTrend prefers the provider's real series and falls back to a
// synthesized depreciation curve anchored at the base valuation. Both forms
// are memoized; synthesized data expires faster so the real source gets
// retried sooner.
func (s *Service) resolveTrend(vehicle VehicleIdentity, out *outcomes) *TrendData {
	key := trendKey(vehicle)

	if out.trended != nil && len(out.trended.Valuations) > 0 {
		series := seriesFromProvider(out.trended.Valuations)
		td := s.buildTrendData(series, TrendSourceProvider)
		s.trendCache.Set(key, td, s.ttls.Trend)
		return td
	}

	if td, ok := s.trendCache.Get(key); ok {
		s.metrics.IncCacheHit("trend")
		return td
	}
	s.metrics.IncCacheMiss("trend")

	if out.base == nil || out.base.Valuations == nil || out.base.Valuations.Retail == nil {
		return nil
	}

	current := trend.CurrentValuation{Retail: out.base.Valuations.Retail.AmountGBP}
	if out.base.Valuations.Trade != nil {
		current.Trade = out.base.Valuations.Trade.AmountGBP
	}
	if out.base.Valuations.PartExchange != nil {
		current.PartExchange = out.base.Valuations.PartExchange.AmountGBP
	}

	series := s.engine.SynthesizeFallback(current, s.vehicleAgeYears(vehicle, out.base))
	td := s.buildTrendData(series, TrendSourceFallback)
	s.trendCache.Set(key, td, s.ttls.TrendFallback)
	return td
}

func (s *Service) buildTrendData(series []trend.ValuationPoint, source TrendSource) *TrendData {
	tr := s.engine.ComputeTrend(series)
	td := &TrendData{Series: series, Trend: tr, Source: source}
	if proj, ok := s.engine.ProjectFuture(series, tr); ok {
		td.Projection = &proj
	}
	return td
}

func (s *Service) vehicleAgeYears(vehicle VehicleIdentity, base *provider.VehicleResponse) float64 {
	date := vehicle.FirstRegistrationDate
	if date == "" && base != nil {
		date = base.Vehicle.FirstRegistrationDate
	}
	if date == "" {
		return 0
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	age := s.now().Sub(parsed).Hours() / 24 / 365.25
	if age < 0 {
		return 0
	}
	return age
}

// fetchCompetitors follows the competitor link from the base call. Failure
// is swallowed entirely: competitor data is cosmetic.
func (s *Service) fetchCompetitors(ctx context.Context, log *slog.Logger, token, href string) *CompetitorData {
	resp, err := circuit.Execute(ctx, s.breaker, func(ctx context.Context) (*provider.CompetitorsResponse, error) {
		return s.client.Competitors(ctx, token, href)
	})
	if err != nil {
		log.DebugContext(ctx, "competitor lookup failed", "error", err)
		return nil
	}

	data := &CompetitorData{TotalResults: resp.TotalResults}
	for _, c := range resp.Competitors {
		data.Competitors = append(data.Competitors, Competitor{
			Make:          c.Make,
			Model:         c.Model,
			Derivative:    c.Derivative,
			Mileage:       c.Mileage,
			Price:         c.Price.AmountGBP,
			DistanceMiles: c.DistanceMiles,
		})
	}
	return data
}

func (s *Service) fetchVehicle(ctx context.Context, token string, q provider.VehicleQuery) (*provider.VehicleResponse, error) {
	key := fmt.Sprintf("vehicles|%s|%d|%t|%t", q.Registration, q.OdometerReadingMiles, q.IncludeCheck, q.FullVehicleCheck)
	return retryCall(ctx, baseRetries, s.retryDelay, func(ctx context.Context) (*provider.VehicleResponse, error) {
		resp, _, err := s.vehicles.Do(ctx, key, func(ctx context.Context) (*provider.VehicleResponse, error) {
			return circuit.Execute(ctx, s.breaker, func(ctx context.Context) (*provider.VehicleResponse, error) {
				return s.client.Vehicle(ctx, token, q)
			})
		})
		return resp, err
	})
}

func (s *Service) fetchTrended(ctx context.Context, token string, q provider.TrendedQuery) (*provider.TrendedValuationsResponse, error) {
	key := fmt.Sprintf("trended|%s|%s|%d", q.DerivativeID, q.FirstRegistrationDate, q.OdometerReadingMiles)
	return retryCall(ctx, optionalRetries, s.retryDelay, func(ctx context.Context) (*provider.TrendedValuationsResponse, error) {
		resp, _, err := s.trended.Do(ctx, key, func(ctx context.Context) (*provider.TrendedValuationsResponse, error) {
			return circuit.Execute(ctx, s.breaker, func(ctx context.Context) (*provider.TrendedValuationsResponse, error) {
				return s.client.TrendedValuations(ctx, token, q)
			})
		})
		return resp, err
	})
}

func (s *Service) fetchMetrics(ctx context.Context, token, advertiserID string, v provider.MetricsVehicle) (*provider.MetricsResponse, error) {
	key := fmt.Sprintf("metrics|%s|%s|%s|%d", advertiserID, v.DerivativeID, v.FirstRegistrationDate, v.OdometerReadingMiles)
	return retryCall(ctx, optionalRetries, s.retryDelay, func(ctx context.Context) (*provider.MetricsResponse, error) {
		resp, _, err := s.vmetrics.Do(ctx, key, func(ctx context.Context) (*provider.MetricsResponse, error) {
			return circuit.Execute(ctx, s.breaker, func(ctx context.Context) (*provider.MetricsResponse, error) {
				return s.client.VehicleMetrics(ctx, token, advertiserID, v)
			})
		})
		return resp, err
	})
}

// retryCall retries transient failures with a linear backoff. Open-circuit
// rejections and non-retryable categories fail immediately: retrying an open
// circuit only burns time, and a 404 will not improve.
func retryCall[V any](ctx context.Context, retries int, delay time.Duration, fn func(context.Context) (V, error)) (V, error) {
	var (
		v   V
		err error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return v, ctx.Err()
			case <-time.After(delay * time.Duration(attempt)):
			}
		}
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, circuit.ErrOpen) || !provider.IsRetryable(err) {
			return v, err
		}
	}
	return v, err
}

// ClearCaches wipes every cache and closes the breaker. For test isolation
// and manual operational recovery.
func (s *Service) ClearCaches() {
	s.authCache.Clear()
	s.configCache.Clear()
	s.resultCache.Clear()
	s.trendCache.Clear()
	s.breaker.Reset()
}

// CacheStats reports per-cache effectiveness for diagnostics.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"auth":    s.authCache.Stats(),
		"config":  s.configCache.Stats(),
		"results": s.resultCache.Stats(),
		"trend":   s.trendCache.Stats(),
	}
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func asCacheHit(r *Result) *Result {
	out := *r
	out.Source = SourceCache
	return &out
}

// resultKey includes the operator because location-adjusted metrics make the
// composed result operator-specific, not just vehicle-specific.
func resultKey(v VehicleIdentity, operatorID string, opts Options) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s|%t|%t",
		v.NormalizedRegistration(),
		v.DerivativeID,
		v.OdometerReadingMiles,
		v.FirstRegistrationDate,
		operatorID,
		opts.IncludeVehicleCheck,
		opts.IncludeTrendedValuations,
	)
}

func trendKey(v VehicleIdentity) string {
	if v.DerivativeID != "" {
		return fmt.Sprintf("trend|%s|%s|%d", v.DerivativeID, v.FirstRegistrationDate, v.OdometerReadingMiles)
	}
	return fmt.Sprintf("trend|%s|%d", v.NormalizedRegistration(), v.OdometerReadingMiles)
}

func describeVehicle(v VehicleIdentity, base *provider.VehicleResponse) VehicleDescription {
	desc := VehicleDescription{
		Registration:          v.NormalizedRegistration(),
		DerivativeID:          v.DerivativeID,
		FirstRegistrationDate: v.FirstRegistrationDate,
		OdometerReadingMiles:  v.OdometerReadingMiles,
	}
	if base == nil {
		return desc
	}

	attrs := base.Vehicle
	if attrs.Registration != "" {
		desc.Registration = attrs.Registration
	}
	if attrs.DerivativeID != "" {
		desc.DerivativeID = attrs.DerivativeID
	}
	if attrs.FirstRegistrationDate != "" {
		desc.FirstRegistrationDate = attrs.FirstRegistrationDate
	}
	desc.Make = attrs.Make
	desc.Model = attrs.Model
	desc.Derivative = attrs.Derivative
	return desc
}

func valuationsFrom(v *provider.Valuations) *ValuationSet {
	if v == nil {
		return nil
	}
	set := &ValuationSet{}
	if v.Retail != nil {
		set.Retail = v.Retail.AmountGBP
	}
	if v.Trade != nil {
		set.Trade = v.Trade.AmountGBP
	}
	if v.PartExchange != nil {
		set.PartExchange = v.PartExchange.AmountGBP
	}
	if v.Private != nil {
		private := v.Private.AmountGBP
		set.Private = &private
	}
	return set
}

func vehicleCheckFrom(h *provider.History) *VehicleCheck {
	check := &VehicleCheck{
		Stolen:         h.Stolen,
		Scrapped:       h.Scrapped,
		Imported:       h.Imported,
		Exported:       h.Exported,
		PreviousOwners: h.PreviousOwners,
		Status:         CheckPassed,
	}
	if check.anyFlag() {
		check.Status = CheckWarning
	}
	return check
}

func locationMetricsFrom(m *provider.MetricsResponse) *LocationMetrics {
	lm := &LocationMetrics{
		RetailRating:       m.RetailRating,
		DaysToSell:         m.DaysToSell,
		DemandIndex:        m.DemandIndex,
		SupplyIndex:        m.SupplyIndex,
		LocationAdjustment: m.LocationAdjust,
	}
	if m.NationalAverage != nil {
		avg := m.NationalAverage.AmountGBP
		lm.NationalAverage = &avg
	}
	return lm
}

func seriesFromProvider(points []provider.TrendedPoint) []trend.ValuationPoint {
	series := make([]trend.ValuationPoint, 0, len(points))
	for _, p := range points {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			continue
		}
		series = append(series, trend.ValuationPoint{
			Date:         date,
			Retail:       p.Retail.AmountGBP,
			Trade:        p.Trade.AmountGBP,
			PartExchange: p.PartExchange.AmountGBP,
			Mileage:      p.OdometerReadingMiles,
			Provenance:   trend.ProvenanceAPI,
		})
	}
	return series
}
