package models

import "time"

// Metal represents a tradable metal instrument in the registry.
// Registry rows are static reference data seeded at setup time: the symbol is
// the natural key, the yfinance ticker is what the ingestion collector
// actually downloads. Deleting a metal cascades to every dependent
// price/feature/risk row, so deletion is treated as a destructive operation
// that callers must confirm upstream.
//
// Key Fields:
//   - Symbol: unique natural key (GOLD, SILVER, COPPER)
//   - YFinanceTicker: external data-source ticker (GC=F, SI=F, HG=F)
//   - MarketType: market classification (precious, industrial)
type Metal struct {
	MetalID        uint   `gorm:"column:metal_id;primaryKey;autoIncrement" json:"metal_id"`
	Symbol         string `gorm:"size:20;uniqueIndex;not null" json:"symbol"`
	Name           string `gorm:"size:100;not null" json:"name"`
	YFinanceTicker string `gorm:"column:yfinance_ticker;size:20;not null" json:"yfinance_ticker"`
	MarketType     string `gorm:"size:20" json:"market_type"`
}

// TableName specifies the table name for Metal
func (Metal) TableName() string {
	return "metals"
}

// PriceData represents one daily OHLCV observation for a metal.
// Rows are append-only: at most one observation per (metal, date), enforced by
// the unique index, and no update path exists. Prices must be strictly
// positive and volume non-negative; both are validated before the write and
// backed by check constraints.
//
// Key Fields:
//   - MetalID/Date: composite natural key (unique)
//   - Open/High/Low/Close: strictly positive daily prices
//   - Volume: contracts traded, nullable (futures sessions without volume)
//   - AdjustedClose: nullable, source permitting
//   - DataSource: provenance label, defaults to yfinance
type PriceData struct {
	PriceID       int64     `gorm:"column:price_id;primaryKey;autoIncrement" json:"price_id"`
	MetalID       uint      `gorm:"not null;uniqueIndex:idx_price_metal_date,priority:1" json:"metal_id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_price_metal_date,priority:2;index:idx_price_date" json:"date"`
	Open          float64   `gorm:"type:decimal(12,4);not null;check:chk_price_open,open > 0" json:"open"`
	High          float64   `gorm:"type:decimal(12,4);not null;check:chk_price_high,high > 0" json:"high"`
	Low           float64   `gorm:"type:decimal(12,4);not null;check:chk_price_low,low > 0" json:"low"`
	Close         float64   `gorm:"type:decimal(12,4);not null;check:chk_price_close,close > 0" json:"close"`
	Volume        *int64    `gorm:"type:bigint;check:chk_price_volume,volume >= 0" json:"volume,omitempty"`
	AdjustedClose *float64  `gorm:"type:decimal(12,4)" json:"adjusted_close,omitempty"`
	DataSource    string    `gorm:"size:50;default:yfinance" json:"data_source"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Metal Metal `gorm:"belongsTo:Metal;foreignKey:MetalID;references:MetalID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for PriceData
func (PriceData) TableName() string {
	return "price_data"
}

// MacroData represents one calendar day of market-wide macro indicators.
// Macro rows are global: keyed by date alone, owned by no instrument, and
// append-only like price data. Individual indicator columns are nullable so a
// partial day can still be stored, but sign checks apply to whatever is
// present.
type MacroData struct {
	MacroID          int64     `gorm:"column:macro_id;primaryKey;autoIncrement" json:"macro_id"`
	Date             time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	USDIndex         *float64  `gorm:"column:usd_index;type:decimal(10,4);check:chk_macro_usd,usd_index > 0" json:"usd_index,omitempty"`
	VIX              *float64  `gorm:"column:vix;type:decimal(10,4);check:chk_macro_vix,vix >= 0" json:"vix,omitempty"`
	TreasuryYield10Y *float64  `gorm:"column:treasury_yield_10y;type:decimal(10,4);check:chk_macro_yield,treasury_yield_10y >= 0" json:"treasury_yield_10y,omitempty"`
	SP500Close       *float64  `gorm:"column:sp500_close;type:decimal(12,4);check:chk_macro_sp500,sp500_close > 0" json:"sp500_close,omitempty"`
	SP500Return      *float64  `gorm:"column:sp500_return;type:decimal(12,8)" json:"sp500_return,omitempty"`
	DataSource       string    `gorm:"size:50;default:yfinance" json:"data_source"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for MacroData
func (MacroData) TableName() string {
	return "macroeconomic_data"
}

// TechnicalFeature represents one day of derived indicators for a metal,
// computed from that metal's trailing price history.
//
// Every derived column is nullable: a date with insufficient history stores
// NULL for the windows that have not filled yet (SMA-50 needs 50 closes,
// RSI-14 needs 14 deltas, the MACD signal needs 34 closes). Rows are written
// once per (metal, date) and never retroactively mutated.
//
// Column Groups:
//   - Returns: daily_return, log_return
//   - Trend: sma_5/10/20/50, ema_12/26
//   - Volatility: bollinger_upper/middle/lower/width
//   - Momentum: rsi_14 (bounded [0,100]), macd, macd_signal, macd_histogram
//   - Range: high_low_range, high_low_ratio (both non-negative)
//   - Volume: volume_change, volume_sma_20
type TechnicalFeature struct {
	FeatureID       int64     `gorm:"column:feature_id;primaryKey;autoIncrement" json:"feature_id"`
	MetalID         uint      `gorm:"not null;uniqueIndex:idx_feature_metal_date,priority:1" json:"metal_id"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:idx_feature_metal_date,priority:2;index:idx_feature_date" json:"date"`
	DailyReturn     *float64  `gorm:"type:decimal(12,8)" json:"daily_return,omitempty"`
	LogReturn       *float64  `gorm:"type:decimal(12,8)" json:"log_return,omitempty"`
	SMA5            *float64  `gorm:"column:sma_5;type:decimal(12,4)" json:"sma_5,omitempty"`
	SMA10           *float64  `gorm:"column:sma_10;type:decimal(12,4)" json:"sma_10,omitempty"`
	SMA20           *float64  `gorm:"column:sma_20;type:decimal(12,4)" json:"sma_20,omitempty"`
	SMA50           *float64  `gorm:"column:sma_50;type:decimal(12,4)" json:"sma_50,omitempty"`
	EMA12           *float64  `gorm:"column:ema_12;type:decimal(12,4)" json:"ema_12,omitempty"`
	EMA26           *float64  `gorm:"column:ema_26;type:decimal(12,4)" json:"ema_26,omitempty"`
	BollingerUpper  *float64  `gorm:"type:decimal(12,4)" json:"bollinger_upper,omitempty"`
	BollingerMiddle *float64  `gorm:"type:decimal(12,4)" json:"bollinger_middle,omitempty"`
	BollingerLower  *float64  `gorm:"type:decimal(12,4)" json:"bollinger_lower,omitempty"`
	BollingerWidth  *float64  `gorm:"type:decimal(12,8)" json:"bollinger_width,omitempty"`
	RSI14           *float64  `gorm:"column:rsi_14;type:decimal(8,4);check:chk_feature_rsi,rsi_14 >= 0 AND rsi_14 <= 100" json:"rsi_14,omitempty"`
	MACD            *float64  `gorm:"column:macd;type:decimal(12,6)" json:"macd,omitempty"`
	MACDSignal      *float64  `gorm:"column:macd_signal;type:decimal(12,6)" json:"macd_signal,omitempty"`
	MACDHistogram   *float64  `gorm:"column:macd_histogram;type:decimal(12,6)" json:"macd_histogram,omitempty"`
	HighLowRange    *float64  `gorm:"type:decimal(12,4);check:chk_feature_range,high_low_range >= 0" json:"high_low_range,omitempty"`
	HighLowRatio    *float64  `gorm:"type:decimal(12,8);check:chk_feature_ratio,high_low_ratio >= 0" json:"high_low_ratio,omitempty"`
	VolumeChange    *float64  `gorm:"type:decimal(12,8)" json:"volume_change,omitempty"`
	VolumeSMA20     *float64  `gorm:"column:volume_sma_20;type:decimal(20,4);check:chk_feature_vol_sma,volume_sma_20 >= 0" json:"volume_sma_20,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	Metal Metal `gorm:"belongsTo:Metal;foreignKey:MetalID;references:MetalID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for TechnicalFeature
func (TechnicalFeature) TableName() string {
	return "technical_features"
}

// RiskEvent represents the daily risk label for a metal: whether the absolute
// percent move of the close exceeded the configured threshold, together with
// the two closes that produced it. The first date of any series has no
// previous close and is skipped by the labeler, never written with a null.
type RiskEvent struct {
	EventID        int64     `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	MetalID        uint      `gorm:"not null;uniqueIndex:idx_risk_metal_date,priority:1" json:"metal_id"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_risk_metal_date,priority:2" json:"date"`
	IsRiskEvent    bool      `gorm:"not null;index:idx_risk_flag" json:"is_risk_event"`
	PriceChangePct *float64  `gorm:"type:decimal(10,4)" json:"price_change_pct,omitempty"`
	PreviousClose  float64   `gorm:"type:decimal(12,4);not null;check:chk_risk_prev_close,previous_close > 0" json:"previous_close"`
	CurrentClose   float64   `gorm:"type:decimal(12,4);not null;check:chk_risk_curr_close,current_close > 0" json:"current_close"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Metal Metal `gorm:"belongsTo:Metal;foreignKey:MetalID;references:MetalID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for RiskEvent
func (RiskEvent) TableName() string {
	return "risk_events"
}
