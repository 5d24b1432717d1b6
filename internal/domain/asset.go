package domain

import (
	"fmt"
	"time"
)

// DataSource identifies where price data for an asset comes from.
type DataSource string

const (
	// DataSourceYahoo means quotes are fetched from the market-data provider.
	DataSourceYahoo DataSource = "yahoo"

	// DataSourceManual means prices are entered by hand.
	DataSourceManual DataSource = "manual"

	// DataSourceOther covers assets with no automated pricing.
	DataSourceOther DataSource = "other"
)

var validDataSources = map[DataSource]bool{
	DataSourceYahoo:  true,
	DataSourceManual: true,
	DataSourceOther:  true,
}

// IsValid checks if the data source is one of the known values.
func (s DataSource) IsValid() bool {
	return validDataSources[s]
}

// ParseDataSource parses a string into a DataSource.
func ParseDataSource(s string) (DataSource, error) {
	ds := DataSource(s)
	if !ds.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDataSource, s)
	}

	return ds, nil
}

// Asset represents a tradable instrument identified by a ticker symbol.
type Asset struct {
	ID         string
	Symbol     string
	Name       string
	Currency   string
	DataSource DataSource
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
