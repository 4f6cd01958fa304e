package retailcheck

import (
	"strings"
	"time"

	"forecourt/internal/trend"
)

// VehicleIdentity is the caller-supplied vehicle descriptor. At least one of
// Registration or DerivativeID must be present; mileage is always required.
type VehicleIdentity struct {
	Registration          string `json:"registration,omitempty"`
	DerivativeID          string `json:"derivativeId,omitempty"`
	OdometerReadingMiles  int    `json:"odometerReadingMiles"`
	FirstRegistrationDate string `json:"firstRegistrationDate,omitempty"`
}

// Validate enforces the identity invariants.
func (v VehicleIdentity) Validate() error {
	if v.Registration == "" && v.DerivativeID == "" {
		return &NoIdentityError{}
	}
	if v.OdometerReadingMiles <= 0 {
		return ErrOdometerRequired
	}
	return nil
}

// NormalizedRegistration strips spaces and uppercases the plate so cache and
// dedup keys match regardless of caller formatting.
func (v VehicleIdentity) NormalizedRegistration() string {
	return strings.ToUpper(strings.ReplaceAll(v.Registration, " ", ""))
}

// Options selects the optional enrichment sections of a retail check.
type Options struct {
	IncludeVehicleCheck      bool `json:"includeVehicleCheck"`
	IncludeTrendedValuations bool `json:"includeTrendedValuations"`
}

// ValuationSet is the provider's value figures for one vehicle. Amounts are
// opaque non-negative numbers in the provider's unit.
type ValuationSet struct {
	Retail       int64  `json:"retail"`
	Trade        int64  `json:"trade"`
	PartExchange int64  `json:"partExchange"`
	Private      *int64 `json:"private,omitempty"`
}

// CheckStatus is the coarse vehicle-check outcome.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckWarning CheckStatus = "warning"
)

// VehicleCheck summarizes the provider's history lookup. Status is warning
// whenever any risk flag is set.
type VehicleCheck struct {
	Stolen         bool        `json:"stolen"`
	Scrapped       bool        `json:"scrapped"`
	Imported       bool        `json:"imported"`
	Exported       bool        `json:"exported"`
	PreviousOwners int         `json:"previousOwners"`
	Status         CheckStatus `json:"status"`
}

func (c VehicleCheck) anyFlag() bool {
	return c.Stolen || c.Scrapped || c.Imported || c.Exported
}

// TrendSource tags whether trend data came from the provider's real series
// or was synthesized as a fallback.
type TrendSource string

const (
	TrendSourceProvider TrendSource = "provider"
	TrendSourceFallback TrendSource = "fallback"
)

// TrendData is the trend section of a result.
type TrendData struct {
	Series     []trend.ValuationPoint `json:"series"`
	Trend      trend.Result           `json:"trend"`
	Projection *trend.Projection      `json:"projection,omitempty"`
	Source     TrendSource            `json:"source"`
}

// LocationMetrics is the location-adjusted market metrics section.
type LocationMetrics struct {
	RetailRating       *float64 `json:"retailRating,omitempty"`
	DaysToSell         *float64 `json:"daysToSell,omitempty"`
	DemandIndex        *float64 `json:"demandIndex,omitempty"`
	SupplyIndex        *float64 `json:"supplyIndex,omitempty"`
	LocationAdjustment *float64 `json:"locationAdjustment,omitempty"`
	NationalAverage    *int64   `json:"nationalAverage,omitempty"`
}

// Competitor is one comparable listing.
type Competitor struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Derivative    string `json:"derivative,omitempty"`
	Mileage       int    `json:"mileage"`
	Price         int64  `json:"price"`
	DistanceMiles *int   `json:"distanceMiles,omitempty"`
}

// CompetitorData is the cosmetic competitor section.
type CompetitorData struct {
	Competitors  []Competitor `json:"competitors"`
	TotalResults int          `json:"totalResults"`
}

// VehicleDescription is the identity enriched with provider attributes.
type VehicleDescription struct {
	Registration          string `json:"registration,omitempty"`
	DerivativeID          string `json:"derivativeId,omitempty"`
	Make                  string `json:"make,omitempty"`
	Model                 string `json:"model,omitempty"`
	Derivative            string `json:"derivative,omitempty"`
	FirstRegistrationDate string `json:"firstRegistrationDate,omitempty"`
	OdometerReadingMiles  int    `json:"odometerReadingMiles"`
}

// Source tags where a composed result came from.
type Source string

const (
	SourceProvider        Source = "provider"
	SourceProviderPartial Source = "provider-partial"
	SourceCache           Source = "cache"
)

// Result is the composed retail-check answer. Nil sections mean the
// enrichment was unavailable or not requested; that is an expected state,
// not an error. Partial upstream failure degrades Source rather than
// failing the whole check.
type Result struct {
	Vehicle      VehicleDescription `json:"vehicle"`
	Valuations   *ValuationSet      `json:"valuations,omitempty"`
	VehicleCheck *VehicleCheck      `json:"vehicleCheck,omitempty"`
	Trend        *TrendData         `json:"trend,omitempty"`
	Metrics      *LocationMetrics   `json:"metrics,omitempty"`
	Competitors  *CompetitorData    `json:"competitors,omitempty"`
	CheckedAt    time.Time          `json:"checkedAt"`
	Source       Source             `json:"source"`
}
