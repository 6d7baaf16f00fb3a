package hostio

/*------------------------------------------------------------------
 *
 * Purpose: mDNS/DNS-SD announcement of the decoded-time service, so a
 *          LAN client can find a running radioclockd without a
 *          hardcoded address. Directly grounded on dns_sd.go's
 *          register/responder lifecycle.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// ServiceType is the DNS-SD service type this library announces.
const ServiceType = "_radioclock._tcp"

// Announcer wraps a registered dnssd responder.
type Announcer struct {
	responder dnssd.Responder
	cancel    context.CancelFunc
}

// Announce registers name on port and starts responding to mDNS
// queries in the background until Close is called.
func Announce(name string, port int) (*Announcer, error) {
	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("hostio: create dnssd service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("hostio: create dnssd responder: %w", err)
	}

	if _, err := responder.Add(svc); err != nil {
		return nil, fmt.Errorf("hostio: add dnssd service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Announcer{responder: responder, cancel: cancel}

	go func() {
		_ = responder.Respond(ctx)
	}()

	return a, nil
}

// Close stops responding and unregisters the service.
func (a *Announcer) Close() {
	a.cancel()
}
