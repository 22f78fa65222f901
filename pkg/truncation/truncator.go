package truncation

import (
	"fmt"

	"github.com/lintang-b-s/trajtrunc/pkg/catalog"
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
	"github.com/lintang-b-s/trajtrunc/pkg/stopdetection"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// number of segments of the uncertainty buffer circle
const bufferSegments = 32

// Truncator runs S-TT over trajectories against one protection-cell catalog. A Truncator is
// never mutated after construction; With returns an adjusted copy, so one instance can
// serve concurrent callers.
type Truncator struct {
	catalog     *catalog.Catalog
	transformer *geo.Transformer
	detector    *stopdetection.Detector

	alpha        float64
	buffer       float64
	addEndpoints bool
	addStops     bool
	workers      int

	region orb.MultiPolygon
	manual []datastructure.SensitiveLocation

	log *zap.Logger
}

type Option func(*Truncator)

func WithAlpha(alpha float64) Option {
	return func(t *Truncator) {
		t.alpha = alpha
	}
}

func WithEndpoints(add bool) Option {
	return func(t *Truncator) {
		t.addEndpoints = add
	}
}

func WithStops(add bool) Option {
	return func(t *Truncator) {
		t.addStops = add
	}
}

// WithRegion restricts sensitive locations to those inside region (trajectory reference system).
func WithRegion(region orb.MultiPolygon) Option {
	return func(t *Truncator) {
		t.region = region
	}
}

// WithSensitiveLocations sets the manually supplied sensitive locations.
func WithSensitiveLocations(locs []datastructure.SensitiveLocation) Option {
	return func(t *Truncator) {
		t.manual = locs
	}
}

func NewTruncator(cat *catalog.Catalog, cfg util.TruncationConfig, log *zap.Logger, opts ...Option) (*Truncator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transformer, err := geo.NewTransformer(cfg.TrajectoryCRS, cfg.PcellsCRS)
	if err != nil {
		return nil, err
	}

	t := &Truncator{
		catalog:      cat,
		transformer:  transformer,
		detector:     stopdetection.NewDetector(cfg.StopMinDuration, cfg.StopRadiusKm),
		alpha:        cfg.Alpha,
		buffer:       cfg.Buffer,
		addEndpoints: cfg.AddEndpoints,
		addStops:     cfg.AddStops,
		workers:      cfg.Workers,
		log:          log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// With returns a copy of t with opts applied.
func (t *Truncator) With(opts ...Option) *Truncator {
	cp := *t
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

func (t *Truncator) Alpha() float64 {
	return t.alpha
}

func (t *Truncator) Catalog() *catalog.Catalog {
	return t.catalog
}

// Result of one truncation run.
type Result struct {
	// surviving points in time order, possibly empty
	Trajectory *datastructure.Trajectory
	Removed    int
	Cuts       []Cut
}

/*
Truncate. S-TT over one trajectory:

 1. collect the sensitive locations (manual, stops, endpoints) sorted by time
 2. split the projected trajectory at the stay boundaries and resolve the protection cells of every location
 3. truncate every fragment inward from each sensitive end, then concatenate the kept fragments
*/
func (t *Truncator) Truncate(traj *datastructure.Trajectory) (Result, error) {
	if traj.IsEmpty() {
		return Result{Trajectory: traj}, nil
	}

	locations, err := t.CollectSensitiveLocations(traj)
	if err != nil {
		return Result{}, err
	}

	projected, err := t.project(traj)
	if err != nil {
		return Result{}, err
	}

	pcells, fragments, err := t.splitTrajectory(locations, projected)
	if err != nil {
		return Result{}, err
	}

	points, cuts, err := t.truncateAndReassemble(fragments, pcells)
	if err != nil {
		return Result{}, err
	}
	out := datastructure.NewTrajectory(traj.ID(), points)

	return Result{
		Trajectory: out,
		Removed:    traj.Len() - out.Len(),
		Cuts:       cuts,
	}, nil
}

// project sets the protection-cell reference system geometry of every point.
func (t *Truncator) project(traj *datastructure.Trajectory) (*datastructure.Trajectory, error) {
	points := make([]datastructure.TrajectoryPoint, traj.Len())
	for i, p := range traj.Points() {
		geom, err := t.transformer.Forward(orb.Point{p.Lon(), p.Lat()})
		if err != nil {
			return nil, fmt.Errorf("trajectory %s: %w", traj.ID(), err)
		}
		points[i] = p.WithGeom(geom)
	}
	return datastructure.NewTrajectory(traj.ID(), points), nil
}
