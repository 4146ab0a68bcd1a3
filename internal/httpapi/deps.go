package httpapi

import (
	"scout-engine/internal/aggregate"
	"scout-engine/internal/omdb"
	"scout-engine/internal/poster"
)

type Deps struct {
	Aggregator *aggregate.Aggregator
	Movie      *omdb.Service
	Posters    *poster.Scraper
}
