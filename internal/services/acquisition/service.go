package acquisition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"leakwatch/internal/domain"
	"leakwatch/internal/ports"
)

var (
	ErrMalformedResponse = errors.New("report source returned malformed json")
	ErrSchemaMismatch    = errors.New("report does not match schema")
)

// Service wraps a ReportSource with validation, timing and the static
// fallback. Acquire never surfaces an error.
type Service struct {
	source    ports.ReportSource
	schema    *domain.Schema
	validator *jsonschema.Schema
	timeout   time.Duration
	log       *zap.Logger
}

// New builds the service. A zero timeout leaves source calls unbounded.
func New(source ports.ReportSource, log *zap.Logger, timeout time.Duration) (*Service, error) {
	schema := ReportSchema()
	validator, err := compileSchema(schema)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{source: source, schema: schema, validator: validator, timeout: timeout, log: log}, nil
}

func (s *Service) Acquire(ctx context.Context, email string) *domain.LeakAnalysisReport {
	start := time.Now()
	report, err := s.fetch(ctx, email)
	elapsed := time.Since(start)

	fields := []zap.Field{
		zap.String("provider_domain", ProviderDomain(email)),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		s.log.Warn("report acquisition failed, serving fallback", append(fields, zap.Bool("fallback", true), zap.Error(err))...)
		return domain.FallbackReport()
	}
	s.log.Info("report acquired", append(fields, zap.Bool("fallback", false), zap.Int("incidents", len(report.Incidents)))...)
	return report
}

func (s *Service) fetch(ctx context.Context, email string) (report *domain.LeakAnalysisReport, err error) {
	if s.source == nil {
		return nil, errors.New("no report source configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	// A panicking source counts as a failed call.
	defer func() {
		if r := recover(); r != nil {
			report, err = nil, fmt.Errorf("report source panicked: %v", r)
		}
	}()

	raw, err := s.source.Generate(ctx, BuildPrompt(email), s.schema)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return s.decode(raw)
}

func (s *Service) decode(raw []byte) (*domain.LeakAnalysisReport, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := s.validator.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	// compromisedRecords travels as a JSON number; 312.0 and 1e12 are whole
	// counts that encoding/json refuses to put in an int.
	var wire struct {
		domain.LeakAnalysisReport
		CompromisedRecords json.Number `json:"compromisedRecords"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	records, err := wholeCount(wire.CompromisedRecords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	report := wire.LeakAnalysisReport
	report.CompromisedRecords = records
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return &report, nil
}

func wholeCount(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i < 0 || i > math.MaxInt {
			return 0, fmt.Errorf("compromisedRecords %s out of range", n)
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("compromisedRecords %q: %w", n, err)
	}
	if f < 0 || f != math.Trunc(f) || f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("compromisedRecords %s is not a whole count", n)
	}
	return int(f), nil
}
