package schema

type PriceSnapshot struct {
	RunID     string     `gorm:"type:varchar(64);notNull;index" json:"run_id"` // run id of the fetch
	Timestamp string     `gorm:"type:varchar(64);notNull" json:"timestamp"`    // timestamp written to prices.json
	Count     int        `gorm:"type:int;notNull;default:0" json:"count"`      // number of priced keys
	Prices    JSONPrices `gorm:"type:json" json:"prices"`                      // key -> usd price
	Base
}
