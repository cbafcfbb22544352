package health

import (
	"context"

	"github.com/localloop/connhealth/observe"
)

// instrumentedProvider decorates a Provider with a span, metrics, and a
// log line per collaborator call.
type instrumentedProvider struct {
	next Provider
	in   *observe.Instruments
}

// InstrumentProvider wraps a provider so every collaborator call is
// traced, measured, and logged, without touching the monitor's logic.
// Pass the wrapped provider into MonitorConfig. A nil Instruments returns
// the provider unwrapped.
func InstrumentProvider(p Provider, in *observe.Instruments) Provider {
	if in == nil {
		return p
	}
	return &instrumentedProvider{next: p, in: in}
}

func (p *instrumentedProvider) ConnectionStatus(ctx context.Context, identifier string) (ConnectionStatus, error) {
	var status ConnectionStatus
	err := p.in.Observe(ctx, probeMeta("status"), func(ctx context.Context) error {
		var err error
		status, err = p.next.ConnectionStatus(ctx, identifier)
		return err
	})
	return status, err
}

func (p *instrumentedProvider) TestConnection(ctx context.Context, identifier string) (ConnectionTest, error) {
	var test ConnectionTest
	err := p.in.Observe(ctx, probeMeta("test"), func(ctx context.Context) error {
		var err error
		test, err = p.next.TestConnection(ctx, identifier)
		return err
	})
	return test, err
}

func (p *instrumentedProvider) RefreshableService(ctx context.Context, identifier string) (RefreshableService, error) {
	var svc RefreshableService
	err := p.in.Observe(ctx, probeMeta("service"), func(ctx context.Context) error {
		var err error
		svc, err = p.next.RefreshableService(ctx, identifier)
		return err
	})
	if svc == nil {
		// A nil handle signals refresh impossible; wrapping it would hide
		// the nil from the monitor.
		return nil, err
	}
	return &instrumentedService{next: svc, in: p.in}, err
}

type instrumentedService struct {
	next RefreshableService
	in   *observe.Instruments
}

func (s *instrumentedService) TestConnection(ctx context.Context) (ConnectionTest, error) {
	var test ConnectionTest
	err := s.in.Observe(ctx, probeMeta("test"), func(ctx context.Context) error {
		var err error
		test, err = s.next.TestConnection(ctx)
		return err
	})
	return test, err
}

var (
	_ Provider           = (*instrumentedProvider)(nil)
	_ RefreshableService = (*instrumentedService)(nil)
)
