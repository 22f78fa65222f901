package truncation

import (
	"github.com/lintang-b-s/trajtrunc/pkg/catalog"
	"github.com/lintang-b-s/trajtrunc/pkg/trajparser"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"go.uber.org/zap"
)

// LoadTruncator reads the catalog of granularity cfg.K and the optional truncation region
// and manual sensitive locations files named in cfg.
func LoadTruncator(cfg util.TruncationConfig, log *zap.Logger, opts ...Option) (*Truncator, error) {
	cat, err := catalog.Load(cfg.CatalogDir, cfg.K, log)
	if err != nil {
		return nil, err
	}

	loaded := make([]Option, 0, 2+len(opts))
	if cfg.TruncationRegion != "" {
		region, err := catalog.LoadRegion(cfg.TruncationRegion)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, WithRegion(region))
	}
	if cfg.SensitiveLocations != "" {
		locs, err := trajparser.ParseSensitiveLocationsFile(cfg.SensitiveLocations)
		if err != nil {
			return nil, err
		}
		log.Info("manual sensitive locations loaded", zap.Int("locations", len(locs)))
		loaded = append(loaded, WithSensitiveLocations(locs))
	}

	return NewTruncator(cat, cfg, log, append(loaded, opts...)...)
}
